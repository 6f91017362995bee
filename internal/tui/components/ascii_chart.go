package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/regimesim/internal/tui/tuistyles"
)

// DataSeries is one plotted line. NaN points are gaps.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart plots tax owed against revenue for several regimes
type ASCIIChart struct {
	Title  string
	Series []*DataSeries
	Labels []string
	Width  int
	Height int
}

// NewASCIIChart creates a chart with a default size
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:  title,
		Width:  64,
		Height: 12,
	}
}

// AddSeries appends a data series
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the first and last x-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

var seriesGlyphs = []rune{'●', '■', '▲', '♦'}

const yAxisWidth = 10

// Render returns the plotted chart with a legend
func (c *ASCIIChart) Render() string {
	minVal, maxVal, ok := c.bounds()
	if !ok {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		sb.WriteString("\n")
	}

	plotWidth := max(c.Width-yAxisWidth-3, 2)
	height := max(c.Height, 2)
	grid := make([][]rune, height)
	owner := make([][]int, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", plotWidth))
		owner[y] = make([]int, plotWidth)
	}

	span := maxVal - minVal
	if span == 0 {
		span = 1
	}
	for si, s := range c.Series {
		n := len(s.Points)
		for i, v := range s.Points {
			if math.IsNaN(v) {
				continue
			}
			x := 0
			if n > 1 {
				x = int(math.Round(float64(i) / float64(n-1) * float64(plotWidth-1)))
			}
			y := height - 1 - int(math.Round((v-minVal)/span*float64(height-1)))
			if grid[y][x] == ' ' {
				grid[y][x] = seriesGlyphs[si%len(seriesGlyphs)]
				owner[y][x] = si
			}
		}
	}

	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for y, row := range grid {
		value := maxVal - float64(y)/float64(height-1)*(maxVal-minVal)
		label := ""
		if y == 0 || y == height-1 || y == height/2 {
			label = formatChartValue(value)
		}
		sb.WriteString(axis.Render(label))
		sb.WriteString(" │ ")
		for x, r := range row {
			if r == ' ' {
				sb.WriteRune(r)
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(c.Series[owner[y][x]].Color).Render(string(r)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(" ", yAxisWidth) + " └" + strings.Repeat("─", plotWidth) + "\n")

	if len(c.Labels) >= 2 {
		first, last := c.Labels[0], c.Labels[len(c.Labels)-1]
		gap := max(plotWidth-len(first)-len(last), 1)
		sb.WriteString(strings.Repeat(" ", yAxisWidth+3) + first + strings.Repeat(" ", gap) + last + "\n")
	}

	sb.WriteString(c.renderLegend())
	return sb.String()
}

// bounds returns the value range over all non-NaN points
func (c *ASCIIChart) bounds() (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Points {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return math.Min(lo, 0), hi, true
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		glyph := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesGlyphs[i%len(seriesGlyphs)]))
		items = append(items, glyph+" "+s.Name)
	}
	return tuistyles.SubtitleStyle.Render(strings.Join(items, "  "))
}

func formatChartValue(v float64) string {
	switch {
	case math.Abs(v) >= 1000000:
		return fmt.Sprintf("%.1fM", v/1000000)
	case math.Abs(v) >= 1000:
		return fmt.Sprintf("%.0fK", v/1000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
