package calculation

import (
	"fmt"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RateSource is the read-only rate lookup the engine depends on.
// *catalog.RateCatalog satisfies it.
type RateSource interface {
	RatesForJurisdiction(code string) domain.JurisdictionRates
	RateForSector(code string) decimal.Decimal
	BracketsForSector(code string) domain.BracketTable
	HasJurisdiction(code string) bool
	HasSector(code string) bool
	Parameters() domain.RegimeParameters
}

// RegimeEngine computes the tax owed under every regime and picks the cheapest
type RegimeEngine struct {
	Rates       RateSource
	BracketRule BracketRule
	Logger      Logger
}

// NewRegimeEngine creates an engine over a rate source with the progressive bracket rule
func NewRegimeEngine(rates RateSource) *RegimeEngine {
	return &RegimeEngine{
		Rates:       rates,
		BracketRule: ProgressiveBracketRule{},
		Logger:      NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (e *RegimeEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// WithBracketRule returns a copy of the engine using a different
// unified-simplified rule.
func (e *RegimeEngine) WithBracketRule(rule BracketRule) *RegimeEngine {
	clone := *e
	if rule == nil {
		rule = ProgressiveBracketRule{}
	}
	clone.BracketRule = rule
	return &clone
}

// Simulate is a convenience wrapper over a fresh engine
func Simulate(rates RateSource, in domain.InputRecord) (*domain.ResultRecord, error) {
	return NewRegimeEngine(rates).Simulate(in)
}

// Simulate computes the per-regime tax for one input. The result is a pure
// function of the input and the rate source.
func (e *RegimeEngine) Simulate(in domain.InputRecord) (*domain.ResultRecord, error) {
	if e.Rates == nil {
		return nil, fmt.Errorf("regime engine has no rate source")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalized()

	logger := e.logger()
	params := e.Rates.Parameters()
	calc := NewRegimeTaxCalculator(params, e.BracketRule)

	jurisdictionRates := e.Rates.RatesForJurisdiction(in.Jurisdiction)
	serviceRate := e.Rates.RateForSector(in.Sector)
	jurisdictionKnown := e.Rates.HasJurisdiction(in.Jurisdiction)
	sectorKnown := e.Rates.HasSector(in.Sector)
	if !jurisdictionKnown {
		logger.Debugf("jurisdiction %q not in catalog, using default rates", in.Jurisdiction)
	}
	if !sectorKnown {
		logger.Debugf("sector %q not in catalog, using default service-tax rate", in.Sector)
	}

	revenue := in.GrossAnnualRevenue
	record := &domain.ResultRecord{
		Input: in,
		Rates: domain.AppliedRates{
			Jurisdiction:       in.Jurisdiction,
			JurisdictionKnown:  jurisdictionKnown,
			Sector:             in.Sector,
			SectorKnown:        sectorKnown,
			ConsumptionTaxRate: jurisdictionRates.ConsumptionTaxRate,
			ValueAddedRate:     jurisdictionRates.ValueAddedRate,
			ServiceTaxRate:     serviceRate,
			PresumedRate:       calc.PresumedProfit.CombinedRate(serviceRate, jurisdictionRates.ConsumptionTaxRate),
			ProspectiveRate:    calc.ProspectiveUnified.CombinedRate(jurisdictionRates.ValueAddedRate),
			FederalAddOnRate:   params.FederalAddOnRate,
			RealProfitRate:     params.RealProfitRate,
		},
	}

	newResult := func(regime domain.Regime, base, tax decimal.Decimal) domain.RegimeResult {
		return domain.RegimeResult{
			Regime:           regime,
			Name:             regime.DisplayName(),
			Base:             base,
			TaxAmount:        tax,
			PercentOfRevenue: PercentOf(tax, revenue),
		}
	}

	for _, regime := range domain.RegimeOrder {
		switch regime {
		case domain.RegimeUnifiedSimplified:
			if !calc.UnifiedSimplified.IsEligible(revenue) {
				record.Ineligible = append(record.Ineligible, domain.IneligibleRegime{
					Regime: regime,
					Name:   regime.DisplayName(),
					Reason: calc.UnifiedSimplified.IneligibleReason(revenue),
				})
				logger.Debugf("%s excluded: revenue %s above ceiling %s", regime, revenue.String(), params.SimplifiedRevenueCeiling.String())
				continue
			}
			tax := calc.UnifiedSimplified.CalculateTax(revenue, e.Rates.BracketsForSector(in.Sector))
			record.Regimes = append(record.Regimes, newResult(regime, revenue, tax))
			record.Rates.SimplifiedEffectiveRate = RateOf(tax, revenue)
		case domain.RegimePresumedProfit:
			tax := calc.PresumedProfit.CalculateTax(revenue, serviceRate, jurisdictionRates.ConsumptionTaxRate)
			record.Regimes = append(record.Regimes, newResult(regime, revenue, tax))
		case domain.RegimeRealProfit:
			tax := calc.RealProfit.CalculateTax(in.NetProfit)
			record.Regimes = append(record.Regimes, newResult(regime, in.NetProfit, tax))
		case domain.RegimeProspectiveUnified:
			tax := calc.ProspectiveUnified.CalculateTax(revenue, jurisdictionRates.ValueAddedRate)
			record.Regimes = append(record.Regimes, newResult(regime, revenue, tax))
		}
	}

	record.Best = SelectBest(record.Regimes)
	logger.Debugf("simulated %s: best regime %s (%s)", in.Label(), record.Best.Regime, record.Best.TaxAmount.StringFixed(2))
	return record, nil
}

// SelectBest returns the regime with the strictly smallest tax. Ties keep the
// earliest regime in the slice, so results must be in declaration order.
func SelectBest(results []domain.RegimeResult) domain.RegimeResult {
	return lo.MinBy(results, func(a, b domain.RegimeResult) bool {
		return a.TaxAmount.LessThan(b.TaxAmount)
	})
}

func (e *RegimeEngine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}
