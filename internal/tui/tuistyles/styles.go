package tuistyles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette
var (
	ColorPrimary    = lipgloss.Color("#7D56F4")
	ColorSecondary  = lipgloss.Color("#43BF6D")
	ColorAccent     = lipgloss.Color("#F2B134")
	ColorSuccess    = lipgloss.Color("#04B575")
	ColorDanger     = lipgloss.Color("#FF5F87")
	ColorInfo       = lipgloss.Color("#5FAFFF")
	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#8A8A8A")
	ColorBorder     = lipgloss.Color("#444444")
)

// SeriesColors colours regimes in declaration order
var SeriesColors = []lipgloss.Color{ColorInfo, ColorAccent, ColorSecondary, ColorPrimary}

var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground).
		Background(ColorPrimary).
		Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(ColorBorder)

	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	FocusedLabelStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	MetricLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	TableCellStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	TableHighlightStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	TableMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorDanger).
		Bold(true)

	InfoStyle = lipgloss.NewStyle().
		Foreground(ColorInfo)
)

// DeltaStyle colours a tax change: increases in red, decreases in green
func DeltaStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsPositive() {
		return lipgloss.NewStyle().Foreground(ColorDanger)
	}
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// DeltaIndicator returns an arrow for the direction of a change
func DeltaIndicator(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return "▲"
	case -1:
		return "▼"
	default:
		return "="
	}
}

// FormatCurrency formats an amount compactly for narrow panels
func FormatCurrency(d decimal.Decimal) string {
	v := d.InexactFloat64()
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1000000:
		return fmt.Sprintf("%sR$ %.2fM", sign, v/1000000)
	case v >= 1000:
		return fmt.Sprintf("%sR$ %.1fK", sign, v/1000)
	default:
		return fmt.Sprintf("%sR$ %.2f", sign, v)
	}
}
