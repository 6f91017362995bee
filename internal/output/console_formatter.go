package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/compare"
)

// ConsoleFormatter renders the detailed console report with the applied rates
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *compare.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	record := result.Result
	in := record.Input

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "TAX REGIME SIMULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	if in.Name != "" {
		fmt.Fprintf(&buf, "Company:        %s\n", in.Name)
	}
	fmt.Fprintf(&buf, "Gross revenue:  %s\n", FormatCurrency(in.GrossAnnualRevenue))
	fmt.Fprintf(&buf, "Net profit:     %s\n", FormatCurrency(in.NetProfit))
	fmt.Fprintf(&buf, "Jurisdiction:   %s%s\n", in.Jurisdiction, defaultMarker(record.Rates.JurisdictionKnown))
	fmt.Fprintf(&buf, "Sector:         %s%s\n", in.Sector, defaultMarker(record.Rates.SectorKnown))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "APPLIED RATES:")
	rates := record.Rates
	fmt.Fprintf(&buf, "  Consumption tax:      %s\n", FormatRate(rates.ConsumptionTaxRate))
	fmt.Fprintf(&buf, "  Value-added tax:      %s\n", FormatRate(rates.ValueAddedRate))
	fmt.Fprintf(&buf, "  Service tax:          %s\n", FormatRate(rates.ServiceTaxRate))
	fmt.Fprintf(&buf, "  Presumed combined:    %s\n", FormatRate(rates.PresumedRate))
	fmt.Fprintf(&buf, "  IBS+CBS combined:     %s\n", FormatRate(rates.ProspectiveRate))
	fmt.Fprintf(&buf, "  Real-profit rate:     %s\n", FormatRate(rates.RealProfitRate))
	if rates.SimplifiedEffectiveRate != nil {
		fmt.Fprintf(&buf, "  Simples effective:    %s\n", FormatRate(*rates.SimplifiedEffectiveRate))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TAX BY REGIME (cheapest first):")
	fmt.Fprintf(&buf, "  %-4s %-40s %18s %10s\n", "#", "Regime", "Tax", "% Rev")
	fmt.Fprintln(&buf, "  "+strings.Repeat("-", 70))
	for _, r := range result.Ranking {
		marker := " "
		if r.IsBest {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s %-4d %-40s %18s %10s\n", marker, r.Rank, r.Name,
			FormatCurrency(r.TaxAmount), FormatOptionalPercentage(r.PercentOfRevenue))
	}
	for _, ex := range record.Ineligible {
		fmt.Fprintf(&buf, "  %-4s %-40s %18s\n", "-", ex.Name, "not eligible")
		fmt.Fprintf(&buf, "       %s\n", ex.Reason)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "BEST REGIME: %s (%s)\n", record.Best.Name, FormatCurrency(record.Best.TaxAmount))

	if r := result.Reform; r != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "REFORM IMPACT:")
		fmt.Fprintf(&buf, "  Best current regime:  %s %s\n", r.CurrentBest.Regime.ShortName(), FormatCurrency(r.CurrentBest.TaxAmount))
		fmt.Fprintf(&buf, "  Prospective IBS+CBS:  %s\n", FormatCurrency(r.Prospective.TaxAmount))
		fmt.Fprintf(&buf, "  Difference:           %s (%s)\n", FormatCurrency(r.Difference), FormatOptionalPercentage(r.PercentDifference))
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

// ConsoleLiteFormatter renders a short summary
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(result *compare.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", result.Name)
	for _, r := range result.Ranking {
		fmt.Fprintf(&buf, "  %-10s %18s\n", r.Regime.ShortName(), FormatCurrency(r.TaxAmount))
	}
	fmt.Fprintf(&buf, "Recommended: %s\n", result.Best().Regime.ShortName())
	if r := result.Reform; r != nil {
		fmt.Fprintf(&buf, "Reform Δ %s\n", FormatCurrency(r.Difference))
	}
	return buf.Bytes(), nil
}

func defaultMarker(known bool) string {
	if known {
		return ""
	}
	return " (not in catalog, default rates)"
}
