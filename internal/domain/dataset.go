package domain

import (
	"github.com/shopspring/decimal"
)

// RateDataset is the static rate data loaded at startup (rates.yaml).
// Optional fields are pointers so a missing value can fall back to its own
// default instead of a zero rate.
type RateDataset struct {
	Metadata           DatasetMetadata                 `yaml:"metadata" json:"metadata"`
	Jurisdictions      map[string]JurisdictionRateSpec `yaml:"jurisdictions" json:"jurisdictions"`
	Sectors            map[string]SectorRateSpec       `yaml:"sectors" json:"sectors"`
	SimplifiedBrackets *BracketTable                   `yaml:"simplified_brackets" json:"simplified_brackets"`
	SectorBrackets     map[string]BracketTable         `yaml:"sector_brackets" json:"sector_brackets"`
	RegimeParameters   *RegimeParameterSpec            `yaml:"regime_parameters" json:"regime_parameters"`
}

// DatasetMetadata describes where the rate data came from
type DatasetMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// JurisdictionRateSpec is a jurisdiction entry as written in the dataset
type JurisdictionRateSpec struct {
	Name               string           `yaml:"name" json:"name"`
	ConsumptionTaxRate *decimal.Decimal `yaml:"consumption_tax_rate" json:"consumption_tax_rate"`
	ValueAddedRate     *decimal.Decimal `yaml:"value_added_rate" json:"value_added_rate"`
}

// SectorRateSpec is a sector entry as written in the dataset
type SectorRateSpec struct {
	Name           string           `yaml:"name" json:"name"`
	ServiceTaxRate *decimal.Decimal `yaml:"service_tax_rate" json:"service_tax_rate"`
}

// RegimeParameterSpec overrides the fixed regime constants
type RegimeParameterSpec struct {
	SimplifiedRevenueCeiling *decimal.Decimal `yaml:"simplified_revenue_ceiling" json:"simplified_revenue_ceiling"`
	RealProfitRate           *decimal.Decimal `yaml:"real_profit_rate" json:"real_profit_rate"`
	FederalAddOnRate         *decimal.Decimal `yaml:"federal_add_on_rate" json:"federal_add_on_rate"`
}

// JurisdictionRates are the resolved consumption-tax rates of a jurisdiction
type JurisdictionRates struct {
	ConsumptionTaxRate decimal.Decimal `json:"consumptionTaxRate"`
	ValueAddedRate     decimal.Decimal `json:"valueAddedRate"`
}

// RegimeParameters are the resolved fixed constants of the regimes
type RegimeParameters struct {
	SimplifiedRevenueCeiling decimal.Decimal `json:"simplifiedRevenueCeiling"`
	RealProfitRate           decimal.Decimal `json:"realProfitRate"`
	FederalAddOnRate         decimal.Decimal `json:"federalAddOnRate"`
}

// Bracket is one band of the unified-simplified progressive table.
// Tax for revenue inside the band is revenue * NominalRate - Deduction.
type Bracket struct {
	UpTo        decimal.Decimal `yaml:"up_to" json:"up_to"`
	NominalRate decimal.Decimal `yaml:"nominal_rate" json:"nominal_rate"`
	Deduction   decimal.Decimal `yaml:"deduction" json:"deduction"`
}

// BracketTable is an ordered progressive bracket table
type BracketTable struct {
	Name     string    `yaml:"name" json:"name"`
	Brackets []Bracket `yaml:"brackets" json:"brackets"`
}
