package compare

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVFormatter formats comparison results as CSV, one row per company and regime
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Company",
		"Jurisdiction",
		"Sector",
		"Revenue",
		"Profit",
		"Regime",
		"Rank",
		"Tax",
		"Percent Of Revenue",
		"Extra Vs Best",
		"Best",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, result := range compSet.Results {
		in := result.Result.Input
		for _, r := range result.Ranking {
			row := []string{
				result.Name,
				in.Jurisdiction,
				in.Sector,
				in.GrossAnnualRevenue.StringFixed(2),
				in.NetProfit.StringFixed(2),
				string(r.Regime),
				formatInt(r.Rank),
				r.TaxAmount.StringFixed(2),
				formatOptional(r.PercentOfRevenue),
				r.SavingsVsBest.StringFixed(2),
				formatBool(r.IsBest),
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
