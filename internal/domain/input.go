package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks input that violates the simulator's contract
var ErrInvalidInput = errors.New("invalid input")

// InputRecord is the per-request description of the business being simulated.
//
// NetProfit is independent of GrossAnnualRevenue and may exceed it. Only the
// real-profit regime reads it.
type InputRecord struct {
	Name               string          `yaml:"name" json:"name,omitempty"`
	GrossAnnualRevenue decimal.Decimal `yaml:"revenue" json:"revenue"`
	NetProfit          decimal.Decimal `yaml:"profit" json:"profit"`
	Jurisdiction       string          `yaml:"jurisdiction" json:"jurisdiction"`
	Sector             string          `yaml:"sector" json:"sector"`
}

// NewInputRecord builds an InputRecord from raw boundary values, rejecting
// negative and non-finite amounts.
func NewInputRecord(revenue, profit float64, jurisdiction, sector string) (InputRecord, error) {
	if err := CheckAmount("revenue", revenue); err != nil {
		return InputRecord{}, err
	}
	if err := CheckAmount("profit", profit); err != nil {
		return InputRecord{}, err
	}
	return InputRecord{
		GrossAnnualRevenue: decimal.NewFromFloat(revenue),
		NetProfit:          decimal.NewFromFloat(profit),
		Jurisdiction:       NormalizeJurisdiction(jurisdiction),
		Sector:             NormalizeSector(sector),
	}, nil
}

// CheckAmount rejects negative and non-finite boundary values with ErrInvalidInput
func CheckAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative (got %v)", ErrInvalidInput, field, v)
	}
	return nil
}

// Validate checks the amounts of a record built without NewInputRecord
// (for example one decoded from YAML).
func (in InputRecord) Validate() error {
	if in.GrossAnnualRevenue.IsNegative() {
		return fmt.Errorf("%w: revenue cannot be negative (got %s)", ErrInvalidInput, in.GrossAnnualRevenue.String())
	}
	if in.NetProfit.IsNegative() {
		return fmt.Errorf("%w: profit cannot be negative (got %s)", ErrInvalidInput, in.NetProfit.String())
	}
	return nil
}

// Normalized returns a copy with canonical jurisdiction and sector codes
func (in InputRecord) Normalized() InputRecord {
	in.Jurisdiction = NormalizeJurisdiction(in.Jurisdiction)
	in.Sector = NormalizeSector(in.Sector)
	return in
}

// WithRevenue returns a copy with a different revenue
func (in InputRecord) WithRevenue(revenue decimal.Decimal) InputRecord {
	in.GrossAnnualRevenue = revenue
	return in
}

// WithProfit returns a copy with a different net profit
func (in InputRecord) WithProfit(profit decimal.Decimal) InputRecord {
	in.NetProfit = profit
	return in
}

// Label returns the record name, or a description built from its codes
func (in InputRecord) Label() string {
	if in.Name != "" {
		return in.Name
	}
	return fmt.Sprintf("%s/%s", in.Jurisdiction, in.Sector)
}

// NormalizeJurisdiction canonicalises a jurisdiction code (state codes are upper case)
func NormalizeJurisdiction(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeSector canonicalises a sector code (sector codes are lower case)
func NormalizeSector(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
