package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxpayerType distinguishes individuals (PF) from legal entities (PJ) in the
// flat-rate reform estimate.
type TaxpayerType string

const (
	TaxpayerIndividual TaxpayerType = "PF"
	TaxpayerEntity     TaxpayerType = "PJ"
)

// FlatRateTable maps a taxpayer type to a single flat rate
type FlatRateTable map[TaxpayerType]decimal.Decimal

// Flat rates before and after the reform. Unknown types are taxed at zero.
var (
	LegacyCurrentRates = FlatRateTable{
		TaxpayerIndividual: decimal.NewFromFloat(0.12),
		TaxpayerEntity:     decimal.NewFromFloat(0.15),
	}
	LegacyReformRates = FlatRateTable{
		TaxpayerIndividual: decimal.NewFromFloat(0.15),
		TaxpayerEntity:     decimal.NewFromFloat(0.20),
	}
)

// Rate returns the table rate for a type, or zero when the type is unknown
func (t FlatRateTable) Rate(tt TaxpayerType) decimal.Decimal {
	if r, ok := t[tt]; ok {
		return r
	}
	return decimal.Zero
}

// ParseTaxpayerType normalises a PF/PJ code. Unknown codes are returned as
// given so they price at zero rather than failing.
func ParseTaxpayerType(s string) TaxpayerType {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return TaxpayerIndividual
	}
	return TaxpayerType(code)
}

// FlatReformEstimate is the before/after comparison for one income figure
type FlatReformEstimate struct {
	Income            decimal.Decimal `json:"renda"`
	CurrentTax        decimal.Decimal `json:"imposto_antigo"`
	ReformTax         decimal.Decimal `json:"imposto_novo"`
	Difference        decimal.Decimal `json:"diferenca"`
	PercentDifference decimal.Decimal `json:"percentual_diferenca"`
}

// EstimateFlatReform prices income under the current and reform flat tables.
// PercentDifference is zero when the current tax is zero.
func EstimateFlatReform(income decimal.Decimal, tt TaxpayerType) (FlatReformEstimate, error) {
	if income.IsNegative() {
		return FlatReformEstimate{}, fmt.Errorf("income cannot be negative (got %s)", income.String())
	}

	current := income.Mul(LegacyCurrentRates.Rate(tt))
	reform := income.Mul(LegacyReformRates.Rate(tt))
	diff := reform.Sub(current)

	pct := decimal.Zero
	if !current.IsZero() {
		pct = diff.Div(current).Mul(decimal.NewFromInt(100))
	}

	return FlatReformEstimate{
		Income:            income,
		CurrentTax:        current,
		ReformTax:         reform,
		Difference:        diff,
		PercentDifference: pct,
	}, nil
}
