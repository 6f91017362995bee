package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/regimesim/internal/breakeven"
	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/rgehrsitz/regimesim/internal/output"
	"github.com/rgehrsitz/regimesim/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}
	if m.loading {
		return InfoStyle.Render("Loading rate catalog...")
	}

	var content string
	switch m.currentScene {
	case SceneSimulate:
		content = m.renderSimulate()
	case SceneSweep:
		content = m.renderSweep()
	case SceneCatalog:
		content = m.renderCatalog()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("Tax Regime Simulator")
	breadcrumb := SubtitleStyle.Render(fmt.Sprintf("%s · rates: %s", m.currentScene, m.catalogSource))
	return lipgloss.JoinVertical(lipgloss.Left, title, breadcrumb, "")
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("tab", "next field"),
		formatShortcut("F1", "simulate"),
		formatShortcut("F2", "sweep"),
		formatShortcut("F3", "catalog"),
		formatShortcut("F4", "help"),
		formatShortcut("esc", "back/quit"),
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderError() string {
	return ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" + SubtitleStyle.Render("Press ctrl+c to quit")
}

func (m Model) renderSimulate() string {
	form := m.renderForm()
	if m.result == nil {
		return form
	}

	left := lipgloss.JoinVertical(lipgloss.Left, form, "", m.renderCards(m.result))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderRegimeTable(m.result))
}

func (m Model) renderForm() string {
	rows := make([]string, 0, fieldCount+2)
	for i := field(0); i < fieldCount; i++ {
		label := LabelStyle.Render(fmt.Sprintf("%-13s", fieldLabels[i]))
		if i == m.focus {
			label = FocusedLabelStyle.Render(fmt.Sprintf("%-13s", "> "+fieldLabels[i]))
		}
		rows = append(rows, label+m.inputs[i].View())
	}
	if m.inputErr != nil {
		rows = append(rows, "", ErrorStyle.Render(m.inputErr.Error()))
	}
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderCards(result *compare.ComparisonResult) string {
	best := result.Best()
	bestCard := components.NewMetricCard("Cheapest regime", best.Regime.ShortName()).
		WithDescription(FormatCurrency(best.TaxAmount)).
		WithWidth(20)

	cards := []*components.MetricCard{bestCard}
	if reform := result.Reform; reform != nil {
		text := FormatCurrency(reform.Difference)
		if reform.PercentDifference != nil {
			text += " (" + output.FormatPercentage(*reform.PercentDifference) + ")"
		}
		cards = append(cards, components.NewMetricCard("Reform impact", reform.Prospective.Regime.ShortName()).
			WithDelta(reform.Difference, text).
			WithDescription("vs "+reform.CurrentBest.Regime.ShortName()).
			WithWidth(26))
	}
	return components.MetricRow(cards...)
}

func (m Model) renderRegimeTable(result *compare.ComparisonResult) string {
	record := result.Result
	savings := compare.SavingsVsBest(record)

	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %16s %10s %16s", "Regime", "Tax", "% rev", "vs best")))
	sb.WriteString("\n")

	for _, regime := range domain.RegimeOrder {
		rr, ok := record.Get(regime)
		if !ok {
			sb.WriteString(TableMutedStyle.Render(fmt.Sprintf("%-12s %16s", regime.ShortName(), "not eligible")))
			sb.WriteString("\n")
			continue
		}

		line := fmt.Sprintf("%-12s %16s %10s %16s",
			regime.ShortName(),
			output.FormatCurrency(rr.TaxAmount),
			output.FormatOptionalPercentage(rr.PercentOfRevenue),
			output.FormatCurrency(savings[regime]))
		if regime == record.Best.Regime {
			sb.WriteString(TableHighlightStyle.Render(line + " ★"))
		} else {
			sb.WriteString(TableCellStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	for _, in := range record.Ineligible {
		sb.WriteString("\n" + SubtitleStyle.Render(in.Regime.ShortName()+": "+in.Reason))
	}

	rates := record.Rates
	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render(fmt.Sprintf("Consumption %s · value-added %s · service %s",
		output.FormatRate(rates.ConsumptionTaxRate), output.FormatRate(rates.ValueAddedRate), output.FormatRate(rates.ServiceTaxRate))))
	if !rates.JurisdictionKnown || !rates.SectorKnown {
		sb.WriteString("\n" + InfoStyle.Render("Unknown code, default rates applied"))
	}

	return PanelStyle.Render(sb.String())
}

func (m Model) renderSweep() string {
	if m.sweepErr != nil {
		return ErrorStyle.Render(m.sweepErr.Error())
	}
	if m.sweepRows == nil {
		return InfoStyle.Render("Computing sweep...")
	}

	chart := components.NewASCIIChart("Tax owed by revenue (constant margin)").
		WithSize(max(m.width-4, 40), max(m.height-16, 8))
	for i, regime := range domain.RegimeOrder {
		points := make([]float64, len(m.sweepRows))
		for j, row := range m.sweepRows {
			points[j] = math.NaN()
			if tax, ok := row.Taxes[regime]; ok {
				points[j] = tax.InexactFloat64()
			}
		}
		chart.AddSeries(regime.ShortName(), points, SeriesColors[i%len(SeriesColors)])
	}
	first, last := m.sweepRows[0], m.sweepRows[len(m.sweepRows)-1]
	chart.WithLabels([]string{FormatCurrency(first.Revenue), FormatCurrency(last.Revenue)})

	var sb strings.Builder
	sb.WriteString(chart.Render())
	sb.WriteString("\n\n")
	sb.WriteString(TableHeaderStyle.Render("Break-even revenues (fixed profit)"))
	sb.WriteString("\n")
	crossings := breakeven.Crossings(m.sweepPairs)
	if len(crossings) == 0 {
		sb.WriteString(SubtitleStyle.Render("No regime pair crosses in range"))
	}
	for _, p := range crossings {
		sb.WriteString(fmt.Sprintf("%-22s %14s  %s cheaper above\n",
			p.RegimeA.ShortName()+" vs "+p.RegimeB.ShortName(),
			output.FormatCurrency(p.Result.Revenue),
			p.Result.CheaperAbove.ShortName()))
	}
	return sb.String()
}

func (m Model) renderCatalog() string {
	if m.catalog == nil {
		return ""
	}

	var j strings.Builder
	j.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-4s %-22s %8s %8s", "Code", "Jurisdiction", "Cons.", "VAT")))
	j.WriteString("\n")
	for _, code := range m.catalog.Jurisdictions() {
		r := m.catalog.RatesForJurisdiction(code)
		j.WriteString(fmt.Sprintf("%-4s %-22s %8s %8s\n", code, m.catalog.JurisdictionName(code),
			output.FormatRate(r.ConsumptionTaxRate), output.FormatRate(r.ValueAddedRate)))
	}

	var s strings.Builder
	s.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-12s %8s", "Sector", "Service")))
	s.WriteString("\n")
	for _, code := range m.catalog.Sectors() {
		s.WriteString(fmt.Sprintf("%-12s %8s\n", code, output.FormatRate(m.catalog.RateForSector(code))))
	}

	params := m.catalog.Parameters()
	footer := SubtitleStyle.Render(fmt.Sprintf("Simplified ceiling %s · real-profit rate %s · federal add-on %s",
		output.FormatCurrency(params.SimplifiedRevenueCeiling),
		output.FormatRate(params.RealProfitRate),
		output.FormatRate(params.FederalAddOnRate)))

	tables := lipgloss.JoinHorizontal(lipgloss.Top, PanelStyle.Render(j.String()), "  ", PanelStyle.Render(s.String()))
	return lipgloss.JoinVertical(lipgloss.Left, tables, footer)
}

func (m Model) renderHelp() string {
	lines := []string{
		TableHeaderStyle.Render("Keys"),
		formatShortcut("tab / ↓ / enter", "next field"),
		formatShortcut("shift+tab / ↑", "previous field"),
		formatShortcut("F1", "simulate form and regime table"),
		formatShortcut("F2", "revenue sweep and break-even revenues"),
		formatShortcut("F3", "loaded rate catalog"),
		formatShortcut("esc", "back to the form, or quit from it"),
		formatShortcut("ctrl+c", "quit"),
		"",
		SubtitleStyle.Render("Every edit re-runs the simulation. Unknown codes use default rates."),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}
