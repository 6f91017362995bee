package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/regimesim/internal/breakeven"
	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rgehrsitz/regimesim/internal/config"
	"github.com/rgehrsitz/regimesim/internal/domain"
)

type field int

const (
	fieldRevenue field = iota
	fieldProfit
	fieldJurisdiction
	fieldSector
	fieldCount
)

var fieldLabels = [fieldCount]string{"Revenue", "Net profit", "Jurisdiction", "Sector"}

// sweepSteps is the number of intervals plotted on the sweep scene
const sweepSteps = 48

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Rate data
	catalogPath   string
	catalogSource string
	catalog       *catalog.RateCatalog

	compareEngine *compare.CompareEngine
	solver        *breakeven.Solver

	// Form
	inputs []textinput.Model
	focus  field

	// Latest simulation; kept when the form is temporarily invalid
	result   *compare.ComparisonResult
	inputErr error

	sweepRows  []breakeven.SweepRow
	sweepPairs []breakeven.PairResult
	sweepErr   error

	err     error
	loading bool
}

// NewModel creates a new application model. An empty catalogPath uses the
// embedded rate dataset.
func NewModel(catalogPath string) Model {
	defaults := [fieldCount]string{"1000000", "50000", "SP", "servicos"}
	placeholders := [fieldCount]string{"gross annual revenue", "net profit", "state code", "sector code"}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 24
		ti.Width = 24
		ti.SetValue(defaults[i])
		inputs[i] = ti
	}
	inputs[fieldRevenue].Focus()

	return Model{
		currentScene: SceneSimulate,
		catalogPath:  catalogPath,
		inputs:       inputs,
		focus:        fieldRevenue,
		loading:      true,
		width:        100,
		height:       30,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadCatalogCmd(m.catalogPath))
}

// loadCatalogCmd returns a command that loads the rate catalog
func loadCatalogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			cat, err := config.DefaultCatalog()
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return CatalogLoadedMsg{Catalog: cat, Source: "embedded"}
		}

		cat, err := config.NewInputParser().LoadCatalogFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return CatalogLoadedMsg{Catalog: cat, Source: path}
	}
}

// sweepCmd simulates the current input across revenues up to a quarter past
// the unified-simplified ceiling, keeping the profit margin, and scans every
// regime pair for break-even revenues.
func sweepCmd(solver *breakeven.Solver, in domain.InputRecord) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		ceiling := solver.CalcEngine.Rates.Parameters().SimplifiedRevenueCeiling

		rows, err := solver.Sweep(ctx, breakeven.SweepRequest{
			Input:      in,
			From:       decimal.Zero,
			To:         ceiling.Mul(decimal.NewFromFloat(1.25)),
			Steps:      sweepSteps,
			ProfitMode: breakeven.ProfitMargin,
		})
		if err != nil {
			return SweepCompleteMsg{Err: err}
		}

		pairs, err := solver.AllPairs(ctx, in, breakeven.DefaultBounds(), breakeven.ProfitFixed)
		return SweepCompleteMsg{Rows: rows, Pairs: pairs, Err: err}
	}
}

// setCatalog installs a catalog and the engines built over it
func (m *Model) setCatalog(cat *catalog.RateCatalog, source string) {
	engine := calculation.NewRegimeEngine(cat)
	m.catalog = cat
	m.catalogSource = source
	m.compareEngine = compare.NewCompareEngine(engine)
	m.solver = breakeven.NewDefaultSolver(engine)
}

// currentInput parses the form. Profit may be left empty.
func (m Model) currentInput() (domain.InputRecord, error) {
	revenueText := strings.TrimSpace(m.inputs[fieldRevenue].Value())
	if revenueText == "" {
		return domain.InputRecord{}, errors.New("enter a gross annual revenue")
	}
	revenue, err := strconv.ParseFloat(revenueText, 64)
	if err != nil {
		return domain.InputRecord{}, fmt.Errorf("revenue %q is not a number", revenueText)
	}

	profit := 0.0
	if profitText := strings.TrimSpace(m.inputs[fieldProfit].Value()); profitText != "" {
		profit, err = strconv.ParseFloat(profitText, 64)
		if err != nil {
			return domain.InputRecord{}, fmt.Errorf("profit %q is not a number", profitText)
		}
	}

	return domain.NewInputRecord(revenue, profit, m.inputs[fieldJurisdiction].Value(), m.inputs[fieldSector].Value())
}

// recompute re-runs the simulator over the form values
func (m *Model) recompute() {
	if m.compareEngine == nil {
		return
	}
	in, err := m.currentInput()
	if err != nil {
		m.inputErr = err
		return
	}
	result, err := m.compareEngine.CompareOne(in)
	if err != nil {
		m.inputErr = err
		return
	}
	m.inputErr = nil
	m.result = result
	m.sweepRows, m.sweepPairs, m.sweepErr = nil, nil, nil
}

// setFocus moves keyboard focus to field f
func (m *Model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (f + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}
