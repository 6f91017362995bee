package compare

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func newTestEngine() *CompareEngine {
	cat := catalog.New(domain.RateDataset{
		Jurisdictions: map[string]domain.JurisdictionRateSpec{
			"SP": {ConsumptionTaxRate: dec(0.18), ValueAddedRate: dec(0.18)},
			"LO": {ConsumptionTaxRate: dec(0.25), ValueAddedRate: dec(0.05)},
		},
		Sectors: map[string]domain.SectorRateSpec{
			"servicos": {ServiceTaxRate: dec(0.05)},
		},
	})
	return NewCompareEngine(calculation.NewRegimeEngine(cat))
}

func input(t *testing.T, name string, revenue, profit float64, jurisdiction, sector string) domain.InputRecord {
	t.Helper()
	in, err := domain.NewInputRecord(revenue, profit, jurisdiction, sector)
	require.NoError(t, err)
	in.Name = name
	return in
}

func TestCompareOne_RankingAndSavings(t *testing.T) {
	result, err := newTestEngine().CompareOne(input(t, "Alfa", 1000000, 50000, "SP", "servicos"))
	require.NoError(t, err)

	assert.Equal(t, "Alfa", result.Name)
	require.Len(t, result.Ranking, 4)

	order := []domain.Regime{}
	for _, r := range result.Ranking {
		order = append(order, r.Regime)
	}
	assert.Equal(t, []domain.Regime{
		domain.RegimeRealProfit,
		domain.RegimeUnifiedSimplified,
		domain.RegimePresumedProfit,
		domain.RegimeProspectiveUnified,
	}, order)

	assert.True(t, result.Ranking[0].IsBest)
	assert.Equal(t, 1, result.Ranking[0].Rank)
	assert.True(t, result.Ranking[0].SavingsVsBest.IsZero())
	assert.Equal(t, "107360", result.Ranking[1].SavingsVsBest.String())
	assert.Equal(t, "283000", result.Ranking[3].SavingsVsBest.String())

	runnerUp, ok := result.RunnerUp()
	require.True(t, ok)
	assert.Equal(t, domain.RegimeUnifiedSimplified, runnerUp.Regime)
}

func TestReformComparison_IncreasesTax(t *testing.T) {
	result, err := newTestEngine().CompareOne(input(t, "Alfa", 1000000, 50000, "SP", "servicos"))
	require.NoError(t, err)

	reform := result.Reform
	require.NotNil(t, reform)
	assert.Equal(t, domain.RegimeRealProfit, reform.CurrentBest.Regime)
	assert.Equal(t, "300000", reform.Prospective.TaxAmount.String())
	assert.Equal(t, "283000", reform.Difference.String())
	require.NotNil(t, reform.PercentDifference)
	assert.Equal(t, "1664.7", reform.PercentDifference.StringFixed(1))
	assert.True(t, reform.IncreasesTax())
}

func TestReformComparison_LowersTax(t *testing.T) {
	result, err := newTestEngine().CompareOne(input(t, "Beta", 5000000, 5000000, "LO", "servicos"))
	require.NoError(t, err)

	reform := result.Reform
	require.NotNil(t, reform)
	assert.Equal(t, domain.RegimePresumedProfit, reform.CurrentBest.Regime, "unified-simplified is ineligible above the ceiling")
	assert.Equal(t, "-650000", reform.Difference.String())
	assert.Equal(t, "-43.33", reform.PercentDifference.StringFixed(2))
	assert.False(t, reform.IncreasesTax())
	assert.Equal(t, domain.RegimeProspectiveUnified, result.Best().Regime)
}

func TestReformComparison_ZeroCurrentTax(t *testing.T) {
	result, err := newTestEngine().CompareOne(input(t, "Zero", 0, 0, "SP", "servicos"))
	require.NoError(t, err)

	require.NotNil(t, result.Reform)
	assert.True(t, result.Reform.Difference.IsZero())
	assert.Nil(t, result.Reform.PercentDifference)
}

func TestReformComparison_MissingProspective(t *testing.T) {
	_, err := ReformComparison(&domain.ResultRecord{})
	assert.Error(t, err)
}

func TestSavingsVsBest(t *testing.T) {
	record := &domain.ResultRecord{
		Regimes: []domain.RegimeResult{
			{Regime: domain.RegimePresumedProfit, TaxAmount: decimal.NewFromInt(500)},
			{Regime: domain.RegimeRealProfit, TaxAmount: decimal.NewFromInt(200)},
		},
		Best: domain.RegimeResult{Regime: domain.RegimeRealProfit, TaxAmount: decimal.NewFromInt(200)},
	}

	savings := SavingsVsBest(record)
	assert.Equal(t, "300", savings[domain.RegimePresumedProfit].String())
	assert.True(t, savings[domain.RegimeRealProfit].IsZero())
}

func TestCompare_Batch(t *testing.T) {
	inputs := []domain.InputRecord{
		input(t, "Alfa", 1000000, 50000, "SP", "servicos"),
		input(t, "Beta", 5000000, 5000000, "LO", "servicos"),
		input(t, "Gama", 100000, 100000, "ZZ", "xyz"),
	}

	compSet, err := newTestEngine().Compare(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, compSet.Results, 3)

	counts := compSet.BestRegimeCounts()
	assert.Equal(t, 1, counts[domain.RegimeRealProfit])
	assert.Equal(t, 1, counts[domain.RegimeProspectiveUnified])
	assert.Equal(t, 1, counts[domain.RegimeUnifiedSimplified])

	joined := strings.Join(compSet.Recommendations, "\n")
	assert.Contains(t, joined, "Alfa: Real is cheapest at 17000.00, saving 107360.00 over Simples")
	assert.Contains(t, joined, "Beta: the reform lowers the tax by 650000.00 versus Presumido (43.3%)")
	assert.Contains(t, joined, "Beta: Simples not available")
	assert.Contains(t, joined, "Real is cheapest for 1 of 3 companies")
}

func TestCompare_Errors(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Compare(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Compare(ctx, []domain.InputRecord{input(t, "A", 1, 1, "SP", "servicos")})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = engine.Compare(context.Background(), []domain.InputRecord{
		{Name: "Bad", GrossAnnualRevenue: decimal.NewFromInt(-1)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to simulate Bad (#1)")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGenerateRecommendations_Tie(t *testing.T) {
	record := &domain.ResultRecord{
		Regimes: []domain.RegimeResult{
			{Regime: domain.RegimeUnifiedSimplified, TaxAmount: decimal.Zero},
			{Regime: domain.RegimePresumedProfit, TaxAmount: decimal.Zero},
		},
		Best: domain.RegimeResult{Regime: domain.RegimeUnifiedSimplified},
	}
	result := NewMetricsCalculator().CalculateMetrics(record)
	recs := GenerateRecommendations(&ComparisonSet{Results: []ComparisonResult{result}})

	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "tied with Presumido")
}

func testComparisonSet(t *testing.T) *ComparisonSet {
	t.Helper()
	compSet, err := newTestEngine().Compare(context.Background(), []domain.InputRecord{
		input(t, "Alfa", 1000000, 50000, "SP", "servicos"),
		input(t, "Beta", 5000000, 5000000, "LO", "servicos"),
	})
	require.NoError(t, err)
	compSet.CatalogSource = "embedded"
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(testComparisonSet(t))

	assert.Contains(t, out, "TAX REGIME COMPARISON")
	assert.Contains(t, out, "Rate catalog: embedded")
	assert.Contains(t, out, "Alfa")
	assert.Contains(t, out, "124.4K")
	assert.Contains(t, out, "REFORM IMPACT")
	assert.Contains(t, out, "+283.0K (1664.7%) vs Real")
	assert.Contains(t, out, "RECOMMENDATIONS")

	// Beta is above the unified-simplified ceiling
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Beta ") && !strings.Contains(line, "%") {
			assert.Contains(t, line, " - ")
		}
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(testComparisonSet(t))
	assert.Equal(t, "Alfa: Real 17.0K | Beta: IBS+CBS 850.0K", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(testComparisonSet(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+4+3)
	assert.True(t, strings.HasPrefix(lines[0], "Company,Jurisdiction,Sector"))
	assert.Equal(t, "Alfa,SP,servicos,1000000.00,50000.00,real_profit,1,17000.00,1.70,0.00,true", lines[1])
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := testComparisonSet(t)

	compact, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	pretty, err := (&JSONFormatter{Pretty: true}).Format(compSet)
	require.NoError(t, err)

	assert.JSONEq(t, compact, pretty)
	assert.Contains(t, pretty, "\n  ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(compact), &decoded))
	assert.Equal(t, "embedded", decoded["catalogSource"])
	assert.Len(t, decoded["results"], 2)
}

func TestJSONFormatter_NoHTMLEscaping(t *testing.T) {
	compSet := &ComparisonSet{Results: []ComparisonResult{}, Recommendations: []string{"Alfa & Filhos: Real is cheapest"}}

	out, err := (&JSONFormatter{}).Format(compSet)
	require.NoError(t, err)
	assert.Contains(t, out, "Alfa & Filhos")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
