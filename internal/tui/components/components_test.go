package components

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestASCIIChart_Render(t *testing.T) {
	chart := NewASCIIChart("Taxes").
		WithSize(40, 6).
		AddSeries("A", []float64{0, 10, 20, 30}, lipgloss.Color("1")).
		AddSeries("B", []float64{5, math.NaN(), math.NaN(), 15}, lipgloss.Color("2")).
		WithLabels([]string{"0", "3"})

	out := chart.Render()
	assert.Contains(t, out, "Taxes")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "■")
	assert.Contains(t, out, "└")
	assert.Contains(t, out, "● A")
	assert.Contains(t, out, "■ B")
	// title, 6 grid rows, axis, labels, legend
	assert.Equal(t, 9, strings.Count(out, "\n"))
}

func TestASCIIChart_Empty(t *testing.T) {
	out := NewASCIIChart("").AddSeries("A", []float64{math.NaN()}, lipgloss.Color("1")).Render()
	assert.Contains(t, out, "No data to display")
}

func TestFormatChartValue(t *testing.T) {
	assert.Equal(t, "1.5M", formatChartValue(1500000))
	assert.Equal(t, "12K", formatChartValue(12000))
	assert.Equal(t, "999", formatChartValue(999))
}

func TestMetricCard(t *testing.T) {
	card := NewMetricCard("Reform impact", "IBS+CBS").
		WithDelta(decimal.NewFromInt(283000), "R$ 283.0K").
		WithDescription("vs Real").
		WithWidth(24)

	out := card.Render()
	assert.Contains(t, out, "Reform impact")
	assert.Contains(t, out, "▲ R$ 283.0K")
	assert.Contains(t, out, "vs Real")

	row := MetricRow(NewMetricCard("A", "1"), NewMetricCard("B", "2"))
	assert.Contains(t, row, "A")
	assert.Contains(t, row, "B")
}
