package calculation

import (
	"testing"

	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgressiveBracketRule(t *testing.T) {
	table := catalog.DefaultSimplifiedBrackets()
	rule := ProgressiveBracketRule{}

	tests := []struct {
		name     string
		revenue  int64
		expected string
	}{
		{"zero revenue", 0, "0"},
		{"first band", 100000, "6000"},
		{"first band upper edge", 180000, "10800"},
		{"second band", 300000, "24240"},
		{"fourth band", 1000000, "124360"},
		{"fifth band", 3000000, "504360"},
		{"last band edge", 4800000, "936000"},
		{"beyond last band uses last band", 6000000, "1332000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Tax(decimal.NewFromInt(tt.revenue), table)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestProgressiveBracketRule_NeverNegative(t *testing.T) {
	table := domain.BracketTable{Brackets: []domain.Bracket{
		{UpTo: decimal.NewFromInt(1000), NominalRate: decimal.NewFromFloat(0.1), Deduction: decimal.NewFromInt(500)},
	}}
	assert.True(t, ProgressiveBracketRule{}.Tax(decimal.NewFromInt(100), table).IsZero())
	assert.True(t, ProgressiveBracketRule{}.Tax(decimal.NewFromInt(100), domain.BracketTable{}).IsZero())
}

func TestFlatBracketRule(t *testing.T) {
	rule := FlatBracketRule{Rate: decimal.NewFromFloat(0.1)}
	assert.Equal(t, "5000", rule.Tax(decimal.NewFromInt(50000), domain.BracketTable{}).String())
	assert.True(t, rule.Tax(decimal.Zero, domain.BracketTable{}).IsZero())
}

func TestRegimeCalculators(t *testing.T) {
	calc := NewRegimeTaxCalculator(catalog.Empty().Parameters(), nil)

	assert.IsType(t, ProgressiveBracketRule{}, calc.UnifiedSimplified.Rule)
	assert.True(t, calc.UnifiedSimplified.IsEligible(decimal.NewFromInt(4800000)))
	assert.False(t, calc.UnifiedSimplified.IsEligible(decimal.NewFromInt(4800001)))

	presumed := calc.PresumedProfit.CalculateTax(decimal.NewFromInt(1000), decimal.NewFromFloat(0.02), decimal.NewFromFloat(0.18))
	assert.Equal(t, "200", presumed.String())

	assert.Equal(t, "34", calc.RealProfit.CalculateTax(decimal.NewFromInt(100)).String())

	prospective := calc.ProspectiveUnified.CalculateTax(decimal.NewFromInt(1000), decimal.NewFromFloat(0.18))
	assert.Equal(t, "300", prospective.String())
}

func TestPercentOf(t *testing.T) {
	assert.Nil(t, PercentOf(decimal.NewFromInt(10), decimal.Zero))
	pct := PercentOf(decimal.NewFromInt(25), decimal.NewFromInt(200))
	if assert.NotNil(t, pct) {
		assert.Equal(t, "12.5", pct.String())
	}
	assert.Nil(t, RateOf(decimal.NewFromInt(1), decimal.Zero))
}
