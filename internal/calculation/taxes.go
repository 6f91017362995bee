package calculation

import (
	"fmt"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
)

// REGIME CALCULATION ASSUMPTIONS:
//
// 1. Unified-simplified: progressive table applied to annual gross revenue,
//    tax = revenue * nominal rate - deduction of the band containing revenue.
//    Only available up to the revenue ceiling (4,800,000 by default).
//
// 2. Presumed profit: revenue * (sector service-tax rate + jurisdiction
//    consumption-tax rate). The two rates are ADDED, not layered.
//
// 3. Real profit: net profit * 0.34 (combined corporate rate).
//
// 4. Prospective unified (IBS+CBS): revenue * (jurisdiction value-added rate
//    + 0.12 federal add-on).

// BracketRule computes the unified-simplified tax for a revenue figure.
// The simulator depends on it but does not own the bracket table.
type BracketRule interface {
	Tax(revenue decimal.Decimal, table domain.BracketTable) decimal.Decimal
}

// ProgressiveBracketRule applies revenue * nominal - deduction of the band
// containing revenue. Revenue above the last band uses the last band.
type ProgressiveBracketRule struct{}

// Tax implements BracketRule
func (ProgressiveBracketRule) Tax(revenue decimal.Decimal, table domain.BracketTable) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) || len(table.Brackets) == 0 {
		return decimal.Zero
	}

	bracket := table.Brackets[len(table.Brackets)-1]
	for _, b := range table.Brackets {
		if revenue.LessThanOrEqual(b.UpTo) {
			bracket = b
			break
		}
	}

	tax := revenue.Mul(bracket.NominalRate).Sub(bracket.Deduction)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// FlatBracketRule taxes revenue at a single rate regardless of the table.
// Useful when the bracket schedule is supplied elsewhere as an average rate.
type FlatBracketRule struct {
	Rate decimal.Decimal
}

// Tax implements BracketRule
func (f FlatBracketRule) Tax(revenue decimal.Decimal, _ domain.BracketTable) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return revenue.Mul(f.Rate)
}

// UnifiedSimplifiedCalculator prices the unified-simplified regime
type UnifiedSimplifiedCalculator struct {
	Ceiling decimal.Decimal
	Rule    BracketRule
}

// NewUnifiedSimplifiedCalculator creates a calculator with the given ceiling and rule
func NewUnifiedSimplifiedCalculator(ceiling decimal.Decimal, rule BracketRule) *UnifiedSimplifiedCalculator {
	if rule == nil {
		rule = ProgressiveBracketRule{}
	}
	return &UnifiedSimplifiedCalculator{Ceiling: ceiling, Rule: rule}
}

// IsEligible reports whether revenue is within the ceiling (inclusive)
func (c *UnifiedSimplifiedCalculator) IsEligible(revenue decimal.Decimal) bool {
	return revenue.LessThanOrEqual(c.Ceiling)
}

// IneligibleReason explains why a revenue figure is excluded
func (c *UnifiedSimplifiedCalculator) IneligibleReason(revenue decimal.Decimal) string {
	return fmt.Sprintf("gross annual revenue %s exceeds the %s ceiling", revenue.StringFixed(2), c.Ceiling.StringFixed(2))
}

// CalculateTax applies the bracket rule to revenue, floored at zero whatever
// rule is injected
func (c *UnifiedSimplifiedCalculator) CalculateTax(revenue decimal.Decimal, table domain.BracketTable) decimal.Decimal {
	tax := c.Rule.Tax(revenue, table)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// PresumedProfitCalculator prices the presumed-profit regime
type PresumedProfitCalculator struct{}

// CombinedRate returns the additive presumed-profit rate
func (PresumedProfitCalculator) CombinedRate(serviceTaxRate, consumptionTaxRate decimal.Decimal) decimal.Decimal {
	return serviceTaxRate.Add(consumptionTaxRate)
}

// CalculateTax returns revenue * (service rate + consumption rate)
func (c PresumedProfitCalculator) CalculateTax(revenue, serviceTaxRate, consumptionTaxRate decimal.Decimal) decimal.Decimal {
	return revenue.Mul(c.CombinedRate(serviceTaxRate, consumptionTaxRate))
}

// RealProfitCalculator prices the real-profit regime
type RealProfitCalculator struct {
	Rate decimal.Decimal
}

// CalculateTax returns netProfit * rate
func (c RealProfitCalculator) CalculateTax(netProfit decimal.Decimal) decimal.Decimal {
	return netProfit.Mul(c.Rate)
}

// ProspectiveUnifiedCalculator prices the prospective IBS+CBS regime
type ProspectiveUnifiedCalculator struct {
	FederalAddOnRate decimal.Decimal
}

// CombinedRate returns value-added rate + federal add-on
func (c ProspectiveUnifiedCalculator) CombinedRate(valueAddedRate decimal.Decimal) decimal.Decimal {
	return valueAddedRate.Add(c.FederalAddOnRate)
}

// CalculateTax returns revenue * (value-added rate + federal add-on)
func (c ProspectiveUnifiedCalculator) CalculateTax(revenue, valueAddedRate decimal.Decimal) decimal.Decimal {
	return revenue.Mul(c.CombinedRate(valueAddedRate))
}

// RegimeTaxCalculator bundles the four regime calculators
type RegimeTaxCalculator struct {
	UnifiedSimplified  *UnifiedSimplifiedCalculator
	PresumedProfit     PresumedProfitCalculator
	RealProfit         RealProfitCalculator
	ProspectiveUnified ProspectiveUnifiedCalculator
}

// NewRegimeTaxCalculator creates the calculators from resolved regime parameters
func NewRegimeTaxCalculator(params domain.RegimeParameters, rule BracketRule) *RegimeTaxCalculator {
	return &RegimeTaxCalculator{
		UnifiedSimplified:  NewUnifiedSimplifiedCalculator(params.SimplifiedRevenueCeiling, rule),
		PresumedProfit:     PresumedProfitCalculator{},
		RealProfit:         RealProfitCalculator{Rate: params.RealProfitRate},
		ProspectiveUnified: ProspectiveUnifiedCalculator{FederalAddOnRate: params.FederalAddOnRate},
	}
}

// PercentOf returns amount / base * 100, or nil when base is zero
func PercentOf(amount, base decimal.Decimal) *decimal.Decimal {
	if base.IsZero() {
		return nil
	}
	pct := amount.Div(base).Mul(decimal.NewFromInt(100))
	return &pct
}

// RateOf returns amount / base, or nil when base is zero
func RateOf(amount, base decimal.Decimal) *decimal.Decimal {
	if base.IsZero() {
		return nil
	}
	rate := amount.Div(base)
	return &rate
}
