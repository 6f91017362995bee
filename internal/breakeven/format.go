package breakeven

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as console tables
type TableFormatter struct{}

// Format generates a formatted report for a break-even result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("REVENUE BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	sb.WriteString(fmt.Sprintf("Regimes:      %s vs %s\n", result.Request.RegimeA.ShortName(), result.Request.RegimeB.ShortName()))
	sb.WriteString(fmt.Sprintf("Jurisdiction: %s  Sector: %s\n", result.Request.Input.Jurisdiction, result.Request.Input.Sector))
	sb.WriteString(fmt.Sprintf("Profit mode:  %s\n", result.Request.ProfitMode))
	sb.WriteString(fmt.Sprintf("Search range: %s to %s\n",
		tf.formatCurrency(result.Request.Bounds.MinRevenue), tf.formatCurrency(result.Request.Bounds.MaxRevenue)))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", tf.formatStatus(result.Found)))
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if result.Found {
		sb.WriteString(fmt.Sprintf("Break-even revenue: %s\n", tf.formatCurrency(result.Revenue)))
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", result.Request.RegimeA.ShortName(), tf.formatCurrency(result.TaxA)))
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", result.Request.RegimeB.ShortName(), tf.formatCurrency(result.TaxB)))
		if result.CheaperBelow != "" {
			sb.WriteString(fmt.Sprintf("Below: %s is cheaper\n", result.CheaperBelow.ShortName()))
		}
		if result.CheaperAbove != "" {
			sb.WriteString(fmt.Sprintf("Above: %s is cheaper\n", result.CheaperAbove.ShortName()))
		}
	}

	return sb.String()
}

// FormatPairs summarises an all-pairs scan
func (tf *TableFormatter) FormatPairs(pairs []PairResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN REVENUES BY REGIME PAIR\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	for _, p := range pairs {
		label := fmt.Sprintf("%s vs %s", p.RegimeA.ShortName(), p.RegimeB.ShortName())
		if p.Result != nil && p.Result.Found {
			sb.WriteString(fmt.Sprintf("%-24s %18s  (%s cheaper above)\n",
				label, tf.formatCurrency(p.Result.Revenue), p.Result.CheaperAbove.ShortName()))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-24s %18s\n", label, "no crossing"))
	}

	return sb.String()
}

// FormatSweep renders sweep rows with one column per regime
func (tf *TableFormatter) FormatSweep(rows []SweepRow) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%16s", "Revenue"))
	for _, regime := range domain.RegimeOrder {
		sb.WriteString(fmt.Sprintf(" %14s", regime.ShortName()))
	}
	sb.WriteString(fmt.Sprintf(" %10s\n", "Best"))
	sb.WriteString(strings.Repeat("-", 16+15*len(domain.RegimeOrder)+11) + "\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%16s", row.Revenue.StringFixed(2)))
		for _, regime := range domain.RegimeOrder {
			cell := "-"
			if tax, ok := row.Taxes[regime]; ok {
				cell = tax.StringFixed(2)
			}
			sb.WriteString(fmt.Sprintf(" %14s", cell))
		}
		sb.WriteString(fmt.Sprintf(" %10s\n", row.Best.ShortName()))
	}

	return sb.String()
}

func (tf *TableFormatter) formatStatus(found bool) string {
	if found {
		return "FOUND"
	}
	return "NOT FOUND"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// FormatSweepCSV renders sweep rows as CSV
func FormatSweepCSV(rows []SweepRow) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"revenue", "profit"}
	for _, regime := range domain.RegimeOrder {
		header = append(header, string(regime))
	}
	header = append(header, "best")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range rows {
		record := []string{row.Revenue.StringFixed(2), row.Profit.StringFixed(2)}
		for _, regime := range domain.RegimeOrder {
			if tax, ok := row.Taxes[regime]; ok {
				record = append(record, tax.StringFixed(2))
			} else {
				record = append(record, "")
			}
		}
		record = append(record, string(row.Best))
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatJSON renders any break-even value as indented JSON
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
