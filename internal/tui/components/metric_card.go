package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/regimesim/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays one headline figure with an optional signed change
type MetricCard struct {
	Label       string
	Value       string
	Delta       *decimal.Decimal
	DeltaText   string
	Description string
	Width       int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// WithDelta attaches a signed change rendered with an arrow
func (m *MetricCard) WithDelta(d decimal.Decimal, text string) *MetricCard {
	m.Delta = &d
	m.DeltaText = text
	return m
}

// WithDescription adds a subtitle line
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	lines := []string{
		tuistyles.MetricLabelStyle.Render(m.Label),
		tuistyles.MetricValueStyle.Render(m.Value),
	}
	if m.Delta != nil {
		lines = append(lines, tuistyles.DeltaStyle(*m.Delta).Render(tuistyles.DeltaIndicator(*m.Delta)+" "+m.DeltaText))
	}
	if m.Description != "" {
		lines = append(lines, tuistyles.SubtitleStyle.Render(m.Description))
	}

	return tuistyles.PanelStyle.Width(m.Width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// MetricRow lays cards out side by side
func MetricRow(cards ...*MetricCard) string {
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, c.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
