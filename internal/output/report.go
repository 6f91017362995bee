package output

import (
	"github.com/shopspring/decimal"
)

// NotApplicable is shown where a ratio is undefined
const NotApplicable = "n/a"

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-R$ " + amount.Abs().StringFixed(2)
	}
	return "R$ " + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatOptionalPercentage formats a percentage that may be undefined
func FormatOptionalPercentage(amount *decimal.Decimal) string {
	if amount == nil {
		return NotApplicable
	}
	return FormatPercentage(*amount)
}

// FormatRate formats a fractional rate (0.18) as a percentage (18.00%)
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}
