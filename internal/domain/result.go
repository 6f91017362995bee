package domain

import (
	"github.com/shopspring/decimal"
)

// RegimeResult is the tax owed under a single eligible regime
type RegimeResult struct {
	Regime    Regime          `json:"regime"`
	Name      string          `json:"name"`
	Base      decimal.Decimal `json:"base"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	// PercentOfRevenue is nil when revenue is zero (the ratio is undefined)
	PercentOfRevenue *decimal.Decimal `json:"percentOfRevenue"`
}

// IneligibleRegime records a regime excluded by eligibility gating
type IneligibleRegime struct {
	Regime Regime `json:"regime"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// AppliedRates are the rates the simulator resolved for an input, kept for
// explanatory display.
type AppliedRates struct {
	Jurisdiction       string          `json:"jurisdiction"`
	JurisdictionKnown  bool            `json:"jurisdictionKnown"`
	Sector             string          `json:"sector"`
	SectorKnown        bool            `json:"sectorKnown"`
	ConsumptionTaxRate decimal.Decimal `json:"consumptionTaxRate"`
	ValueAddedRate     decimal.Decimal `json:"valueAddedRate"`
	ServiceTaxRate     decimal.Decimal `json:"serviceTaxRate"`
	PresumedRate       decimal.Decimal `json:"presumedRate"`
	ProspectiveRate    decimal.Decimal `json:"prospectiveRate"`
	FederalAddOnRate   decimal.Decimal `json:"federalAddOnRate"`
	RealProfitRate     decimal.Decimal `json:"realProfitRate"`
	// SimplifiedEffectiveRate is nil when the unified-simplified regime is
	// ineligible or revenue is zero.
	SimplifiedEffectiveRate *decimal.Decimal `json:"simplifiedEffectiveRate"`
}

// ResultRecord is the immutable outcome of one simulation
type ResultRecord struct {
	Input      InputRecord        `json:"input"`
	Regimes    []RegimeResult     `json:"regimes"`
	Ineligible []IneligibleRegime `json:"ineligible,omitempty"`
	Best       RegimeResult       `json:"bestRegime"`
	Rates      AppliedRates       `json:"rates"`
}

// Get returns the result for a regime if it was eligible
func (r *ResultRecord) Get(regime Regime) (RegimeResult, bool) {
	for _, rr := range r.Regimes {
		if rr.Regime == regime {
			return rr, true
		}
	}
	return RegimeResult{}, false
}

// IsEligible reports whether the regime appears among the computed results
func (r *ResultRecord) IsEligible(regime Regime) bool {
	_, ok := r.Get(regime)
	return ok
}

// TotalsByRegime returns the tax owed keyed by regime
func (r *ResultRecord) TotalsByRegime() map[Regime]decimal.Decimal {
	totals := make(map[Regime]decimal.Decimal, len(r.Regimes))
	for _, rr := range r.Regimes {
		totals[rr.Regime] = rr.TaxAmount
	}
	return totals
}
