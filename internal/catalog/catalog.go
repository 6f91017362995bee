// Package catalog holds the immutable rate lookup tables used by the
// regime simulator. Lookups never fail: unknown jurisdiction and sector
// codes resolve to documented default rates.
package catalog

import (
	"sort"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Default rates applied when a code is absent from the catalog
var (
	DefaultConsumptionTaxRate = decimal.NewFromFloat(0.18)
	DefaultValueAddedRate     = decimal.NewFromFloat(0.18)
	DefaultServiceTaxRate     = decimal.NewFromFloat(0.02)
)

// Fixed regime constants
var (
	DefaultSimplifiedRevenueCeiling = decimal.NewFromInt(4800000)
	DefaultRealProfitRate           = decimal.NewFromFloat(0.34)
	DefaultFederalAddOnRate         = decimal.NewFromFloat(0.12)
)

// DefaultSimplifiedBrackets returns the built-in unified-simplified table
// (services annex, annual gross revenue bands).
func DefaultSimplifiedBrackets() domain.BracketTable {
	return domain.BracketTable{
		Name: "default",
		Brackets: []domain.Bracket{
			{UpTo: decimal.NewFromInt(180000), NominalRate: decimal.NewFromFloat(0.06), Deduction: decimal.Zero},
			{UpTo: decimal.NewFromInt(360000), NominalRate: decimal.NewFromFloat(0.112), Deduction: decimal.NewFromInt(9360)},
			{UpTo: decimal.NewFromInt(720000), NominalRate: decimal.NewFromFloat(0.135), Deduction: decimal.NewFromInt(17640)},
			{UpTo: decimal.NewFromInt(1800000), NominalRate: decimal.NewFromFloat(0.16), Deduction: decimal.NewFromInt(35640)},
			{UpTo: decimal.NewFromInt(3600000), NominalRate: decimal.NewFromFloat(0.21), Deduction: decimal.NewFromInt(125640)},
			{UpTo: decimal.NewFromInt(4800000), NominalRate: decimal.NewFromFloat(0.33), Deduction: decimal.NewFromInt(648000)},
		},
	}
}

// RateCatalog is safe for concurrent reads; nothing mutates it after New.
type RateCatalog struct {
	jurisdictions   map[string]domain.JurisdictionRates
	jurisdictionNms map[string]string
	sectors         map[string]decimal.Decimal
	sectorNames     map[string]string
	defaultBrackets domain.BracketTable
	sectorBrackets  map[string]domain.BracketTable
	params          domain.RegimeParameters
	metadata        domain.DatasetMetadata
}

// New builds a catalog from a dataset. Each jurisdiction sub-rate falls back
// to its own default independently. The dataset is copied, so later changes
// to it do not leak into the catalog.
func New(dataset domain.RateDataset) *RateCatalog {
	c := &RateCatalog{
		jurisdictions:   make(map[string]domain.JurisdictionRates, len(dataset.Jurisdictions)),
		jurisdictionNms: make(map[string]string, len(dataset.Jurisdictions)),
		sectors:         make(map[string]decimal.Decimal, len(dataset.Sectors)),
		sectorNames:     make(map[string]string, len(dataset.Sectors)),
		sectorBrackets:  make(map[string]domain.BracketTable, len(dataset.SectorBrackets)),
		defaultBrackets: DefaultSimplifiedBrackets(),
		params:          resolveParameters(dataset.RegimeParameters),
		metadata:        dataset.Metadata,
	}

	for code, spec := range dataset.Jurisdictions {
		key := domain.NormalizeJurisdiction(code)
		c.jurisdictions[key] = domain.JurisdictionRates{
			ConsumptionTaxRate: orDefault(spec.ConsumptionTaxRate, DefaultConsumptionTaxRate),
			ValueAddedRate:     orDefault(spec.ValueAddedRate, DefaultValueAddedRate),
		}
		c.jurisdictionNms[key] = spec.Name
	}

	for code, spec := range dataset.Sectors {
		key := domain.NormalizeSector(code)
		c.sectors[key] = orDefault(spec.ServiceTaxRate, DefaultServiceTaxRate)
		c.sectorNames[key] = spec.Name
	}

	if dataset.SimplifiedBrackets != nil && len(dataset.SimplifiedBrackets.Brackets) > 0 {
		c.defaultBrackets = copyTable(*dataset.SimplifiedBrackets)
	}
	for code, table := range dataset.SectorBrackets {
		if len(table.Brackets) == 0 {
			continue
		}
		c.sectorBrackets[domain.NormalizeSector(code)] = copyTable(table)
	}

	return c
}

// Empty returns a catalog with no entries, so every lookup yields defaults
func Empty() *RateCatalog {
	return New(domain.RateDataset{})
}

// RatesForJurisdiction returns the catalog entry or the default rates
func (c *RateCatalog) RatesForJurisdiction(code string) domain.JurisdictionRates {
	if rates, ok := c.jurisdictions[domain.NormalizeJurisdiction(code)]; ok {
		return rates
	}
	return domain.JurisdictionRates{
		ConsumptionTaxRate: DefaultConsumptionTaxRate,
		ValueAddedRate:     DefaultValueAddedRate,
	}
}

// RateForSector returns the sector's service-tax rate or the default
func (c *RateCatalog) RateForSector(code string) decimal.Decimal {
	if rate, ok := c.sectors[domain.NormalizeSector(code)]; ok {
		return rate
	}
	return DefaultServiceTaxRate
}

// BracketsForSector returns the sector's unified-simplified table, falling
// back to the default table.
func (c *RateCatalog) BracketsForSector(code string) domain.BracketTable {
	if table, ok := c.sectorBrackets[domain.NormalizeSector(code)]; ok {
		return copyTable(table)
	}
	return copyTable(c.defaultBrackets)
}

// HasJurisdiction reports whether the code has its own catalog entry
func (c *RateCatalog) HasJurisdiction(code string) bool {
	_, ok := c.jurisdictions[domain.NormalizeJurisdiction(code)]
	return ok
}

// HasSector reports whether the code has its own catalog entry
func (c *RateCatalog) HasSector(code string) bool {
	_, ok := c.sectors[domain.NormalizeSector(code)]
	return ok
}

// JurisdictionName returns the descriptive name of a catalogued jurisdiction
func (c *RateCatalog) JurisdictionName(code string) string {
	return c.jurisdictionNms[domain.NormalizeJurisdiction(code)]
}

// SectorName returns the descriptive name of a catalogued sector
func (c *RateCatalog) SectorName(code string) string {
	return c.sectorNames[domain.NormalizeSector(code)]
}

// Jurisdictions lists catalogued jurisdiction codes in sorted order
func (c *RateCatalog) Jurisdictions() []string {
	codes := lo.Keys(c.jurisdictions)
	sort.Strings(codes)
	return codes
}

// Sectors lists catalogued sector codes in sorted order
func (c *RateCatalog) Sectors() []string {
	codes := lo.Keys(c.sectors)
	sort.Strings(codes)
	return codes
}

// Parameters returns the resolved regime constants
func (c *RateCatalog) Parameters() domain.RegimeParameters {
	return c.params
}

// Metadata returns the dataset metadata
func (c *RateCatalog) Metadata() domain.DatasetMetadata {
	return c.metadata
}

func resolveParameters(spec *domain.RegimeParameterSpec) domain.RegimeParameters {
	params := domain.RegimeParameters{
		SimplifiedRevenueCeiling: DefaultSimplifiedRevenueCeiling,
		RealProfitRate:           DefaultRealProfitRate,
		FederalAddOnRate:         DefaultFederalAddOnRate,
	}
	if spec == nil {
		return params
	}
	params.SimplifiedRevenueCeiling = orDefault(spec.SimplifiedRevenueCeiling, params.SimplifiedRevenueCeiling)
	params.RealProfitRate = orDefault(spec.RealProfitRate, params.RealProfitRate)
	params.FederalAddOnRate = orDefault(spec.FederalAddOnRate, params.FederalAddOnRate)
	return params
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

func copyTable(t domain.BracketTable) domain.BracketTable {
	return domain.BracketTable{
		Name:     t.Name,
		Brackets: append([]domain.Bracket(nil), t.Brackets...),
	}
}
