package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing regimes per company
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("TAX REGIME COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.CatalogSource != "" {
		sb.WriteString(fmt.Sprintf("Rate catalog: %s\n", compSet.CatalogSource))
	}
	sb.WriteString(fmt.Sprintf("Companies: %d\n\n", len(compSet.Results)))

	nameWidth := 24
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s", nameWidth, "Company"))
	for _, regime := range domain.RegimeOrder {
		sb.WriteString(fmt.Sprintf(" %*s", numWidth, regime.ShortName()))
	}
	sb.WriteString(fmt.Sprintf(" %*s\n", 10, "Best"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, result := range compSet.Results {
		sb.WriteString(tf.formatRow(&result, nameWidth, numWidth))
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	reforms := false
	for _, result := range compSet.Results {
		if result.Reform == nil {
			continue
		}
		if !reforms {
			sb.WriteString("\nREFORM IMPACT (IBS+CBS vs best current regime)\n")
			sb.WriteString(strings.Repeat("-", 80) + "\n")
			reforms = true
		}
		r := result.Reform
		pct := "n/a"
		if r.PercentDifference != nil {
			pct = r.PercentDifference.StringFixed(1) + "%"
		}
		sb.WriteString(fmt.Sprintf("%-*s %s%s (%s) vs %s\n",
			nameWidth, tf.truncate(result.Name, nameWidth),
			tf.deltaSymbol(r.Difference),
			tf.formatDecimal(r.Difference),
			pct,
			r.CurrentBest.Regime.ShortName()))
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats one company row, with "-" for ineligible regimes
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s", nameWidth, tf.truncate(result.Name, nameWidth)))
	for _, regime := range domain.RegimeOrder {
		cell := "-"
		if rr, ok := result.Result.Get(regime); ok {
			cell = tf.formatDecimal(rr.TaxAmount)
		}
		sb.WriteString(fmt.Sprintf(" %*s", numWidth, cell))
	}
	sb.WriteString(fmt.Sprintf(" %*s\n", 10, result.Best().Regime.ShortName()))
	return sb.String()
}

// formatDecimal formats a decimal for display (in thousands or millions)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns "+" for increases; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a single-line summary of the winners
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	parts := make([]string, 0, len(compSet.Results))
	for _, result := range compSet.Results {
		best := result.Best()
		parts = append(parts, fmt.Sprintf("%s: %s %s", result.Name, best.Regime.ShortName(), tf.formatDecimal(best.TaxAmount)))
	}
	return strings.Join(parts, " | ")
}
