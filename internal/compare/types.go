package compare

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RegimeRanking is one regime's position in a cheapest-first ordering
type RegimeRanking struct {
	Rank             int              `json:"rank"`
	Regime           domain.Regime    `json:"regime"`
	Name             string           `json:"name"`
	TaxAmount        decimal.Decimal  `json:"taxAmount"`
	PercentOfRevenue *decimal.Decimal `json:"percentOfRevenue"`
	SavingsVsBest    decimal.Decimal  `json:"savingsVsBest"`
	IsBest           bool             `json:"isBest"`
}

// ReformImpact compares the cheapest regime available today with the
// prospective unified regime.
type ReformImpact struct {
	CurrentBest domain.RegimeResult `json:"currentBest"`
	Prospective domain.RegimeResult `json:"prospective"`
	// Difference is prospective minus current; positive means the reform costs more
	Difference decimal.Decimal `json:"difference"`
	// PercentDifference is nil when the current tax is zero
	PercentDifference *decimal.Decimal `json:"percentDifference"`
}

// IncreasesTax reports whether the reform raises the tax owed
func (r ReformImpact) IncreasesTax() bool {
	return r.Difference.IsPositive()
}

// ComparisonResult is the analysed outcome for one input
type ComparisonResult struct {
	Name    string               `json:"name"`
	Result  *domain.ResultRecord `json:"result"`
	Ranking []RegimeRanking      `json:"ranking"`
	Reform  *ReformImpact        `json:"reform,omitempty"`
}

// Best returns the winning regime result
func (cr *ComparisonResult) Best() domain.RegimeResult {
	return cr.Result.Best
}

// RunnerUp returns the second-cheapest regime, if there is one
func (cr *ComparisonResult) RunnerUp() (RegimeRanking, bool) {
	if len(cr.Ranking) < 2 {
		return RegimeRanking{}, false
	}
	return cr.Ranking[1], true
}

// ComparisonSet is a batch of analysed inputs
type ComparisonSet struct {
	CatalogSource   string             `json:"catalogSource"`
	Results         []ComparisonResult `json:"results"`
	Recommendations []string           `json:"recommendations"`
}

// BestRegimeCounts tallies how often each regime wins across the batch
func (cs *ComparisonSet) BestRegimeCounts() map[domain.Regime]int {
	return lo.CountValuesBy(cs.Results, func(r ComparisonResult) domain.Regime {
		return r.Result.Best.Regime
	})
}

// MetricsCalculator derives rankings and reform impact from a result record
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics ranks the regimes of a record and computes reform impact
func (mc *MetricsCalculator) CalculateMetrics(record *domain.ResultRecord) ComparisonResult {
	result := ComparisonResult{
		Name:    record.Input.Label(),
		Result:  record,
		Ranking: mc.Rank(record),
	}

	if reform, err := ReformComparison(record); err == nil {
		result.Reform = reform
	}

	return result
}

// Rank orders eligible regimes cheapest first. Equal taxes keep declaration order.
func (mc *MetricsCalculator) Rank(record *domain.ResultRecord) []RegimeRanking {
	sorted := append([]domain.RegimeResult(nil), record.Regimes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TaxAmount.LessThan(sorted[j].TaxAmount)
	})

	savings := SavingsVsBest(record)
	return lo.Map(sorted, func(rr domain.RegimeResult, i int) RegimeRanking {
		return RegimeRanking{
			Rank:             i + 1,
			Regime:           rr.Regime,
			Name:             rr.Name,
			TaxAmount:        rr.TaxAmount,
			PercentOfRevenue: rr.PercentOfRevenue,
			SavingsVsBest:    savings[rr.Regime],
			IsBest:           rr.Regime == record.Best.Regime,
		}
	})
}

// SavingsVsBest returns, per eligible regime, how much more it costs than the
// best regime. The best regime maps to zero.
func SavingsVsBest(record *domain.ResultRecord) map[domain.Regime]decimal.Decimal {
	extra := make(map[domain.Regime]decimal.Decimal, len(record.Regimes))
	for _, rr := range record.Regimes {
		extra[rr.Regime] = rr.TaxAmount.Sub(record.Best.TaxAmount)
	}
	return extra
}

// ReformComparison compares the cheapest current regime with the prospective
// unified regime.
func ReformComparison(record *domain.ResultRecord) (*ReformImpact, error) {
	prospective, ok := record.Get(domain.RegimeProspectiveUnified)
	if !ok {
		return nil, fmt.Errorf("result has no %s regime", domain.RegimeProspectiveUnified)
	}

	current := lo.Filter(record.Regimes, func(rr domain.RegimeResult, _ int) bool {
		return rr.Regime.IsCurrent()
	})
	if len(current) == 0 {
		return nil, fmt.Errorf("result has no current-system regime")
	}
	currentBest := calculation.SelectBest(current)

	diff := prospective.TaxAmount.Sub(currentBest.TaxAmount)
	return &ReformImpact{
		CurrentBest:       currentBest,
		Prospective:       prospective,
		Difference:        diff,
		PercentDifference: calculation.PercentOf(diff, currentBest.TaxAmount),
	}, nil
}

// GenerateRecommendations creates textual hints from comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	for _, result := range compSet.Results {
		best := result.Best()
		line := fmt.Sprintf("%s: %s is cheapest at %s", result.Name, best.Regime.ShortName(), best.TaxAmount.StringFixed(2))
		if runnerUp, ok := result.RunnerUp(); ok {
			if runnerUp.SavingsVsBest.IsZero() {
				line += fmt.Sprintf(", tied with %s", runnerUp.Regime.ShortName())
			} else {
				line += fmt.Sprintf(", saving %s over %s", runnerUp.SavingsVsBest.StringFixed(2), runnerUp.Regime.ShortName())
			}
		}
		recommendations = append(recommendations, line)

		if r := result.Reform; r != nil && !r.Difference.IsZero() {
			direction := "raises"
			if !r.IncreasesTax() {
				direction = "lowers"
			}
			line := fmt.Sprintf("%s: the reform %s the tax by %s versus %s",
				result.Name, direction, r.Difference.Abs().StringFixed(2), r.CurrentBest.Regime.ShortName())
			if r.PercentDifference != nil {
				line += fmt.Sprintf(" (%s%%)", r.PercentDifference.Abs().StringFixed(1))
			}
			recommendations = append(recommendations, line)
		}

		for _, in := range result.Result.Ineligible {
			recommendations = append(recommendations,
				fmt.Sprintf("%s: %s not available (%s)", result.Name, in.Regime.ShortName(), in.Reason))
		}
	}

	if len(compSet.Results) > 1 {
		counts := compSet.BestRegimeCounts()
		for _, regime := range domain.RegimeOrder {
			if n := counts[regime]; n > 0 {
				recommendations = append(recommendations,
					fmt.Sprintf("%s is cheapest for %d of %d companies", regime.ShortName(), n, len(compSet.Results)))
			}
		}
	}

	return recommendations
}
