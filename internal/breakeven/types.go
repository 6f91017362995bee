package breakeven

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoBreakEven means the two regimes never cost the same inside the bounds
var ErrNoBreakEven = errors.New("no break-even revenue in range")

// ProfitMode controls how net profit follows revenue while the solver moves it
type ProfitMode string

const (
	// ProfitFixed keeps the input's net profit constant
	ProfitFixed ProfitMode = "fixed"
	// ProfitMargin scales net profit with revenue at a constant margin
	ProfitMargin ProfitMode = "margin"
)

// ParseProfitMode accepts "fixed" or "margin"; empty means fixed
func ParseProfitMode(s string) (ProfitMode, error) {
	switch ProfitMode(s) {
	case "", ProfitFixed:
		return ProfitFixed, nil
	case ProfitMargin:
		return ProfitMargin, nil
	default:
		return "", fmt.Errorf("unknown profit mode %q (valid: fixed, margin)", s)
	}
}

// Bounds is the revenue interval searched by the solver
type Bounds struct {
	MinRevenue decimal.Decimal `json:"min_revenue"`
	MaxRevenue decimal.Decimal `json:"max_revenue"`
}

// DefaultBounds searches from one currency unit up to 50 million
func DefaultBounds() Bounds {
	return Bounds{
		MinRevenue: decimal.NewFromInt(1),
		MaxRevenue: decimal.NewFromInt(50000000),
	}
}

// Request describes one revenue break-even search between two regimes
type Request struct {
	Input      domain.InputRecord `json:"input"`
	RegimeA    domain.Regime      `json:"regime_a"`
	RegimeB    domain.Regime      `json:"regime_b"`
	Bounds     Bounds             `json:"bounds"`
	ProfitMode ProfitMode         `json:"profit_mode"`
	// Margin overrides the input's profit/revenue ratio in margin mode
	Margin *decimal.Decimal `json:"margin,omitempty"`
}

// Validate checks the request is internally consistent
func (r *Request) Validate() error {
	if r.RegimeA.Order() < 0 || r.RegimeB.Order() < 0 {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   fmt.Sprintf("unknown regime pair %q/%q", r.RegimeA, r.RegimeB),
		}
	}
	if r.RegimeA == r.RegimeB {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "regimes must differ",
		}
	}
	if r.Bounds.MinRevenue.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "min_revenue cannot be negative",
		}
	}
	if !r.Bounds.MaxRevenue.GreaterThan(r.Bounds.MinRevenue) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "max_revenue must be greater than min_revenue",
		}
	}
	if r.Margin != nil && (r.Margin.IsNegative() || r.Margin.GreaterThan(decimal.NewFromInt(1))) {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "margin must be between 0 and 1",
		}
	}
	if err := r.Input.Validate(); err != nil {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "invalid input",
			Cause:     err,
		}
	}
	return nil
}

// Result is the outcome of a break-even search
type Result struct {
	Request         Request         `json:"request"`
	Found           bool            `json:"found"`
	Revenue         decimal.Decimal `json:"revenue"`
	TaxA            decimal.Decimal `json:"tax_a"`
	TaxB            decimal.Decimal `json:"tax_b"`
	Iterations      int             `json:"iterations"`
	ConvergenceInfo string          `json:"convergence_info"`
	// CheaperBelow and CheaperAbove name the cheaper regime on each side of Revenue
	CheaperBelow domain.Regime `json:"cheaper_below,omitempty"`
	CheaperAbove domain.Regime `json:"cheaper_above"`
}

// SweepRequest describes a revenue sweep
type SweepRequest struct {
	Input      domain.InputRecord `json:"input"`
	From       decimal.Decimal    `json:"from"`
	To         decimal.Decimal    `json:"to"`
	Steps      int                `json:"steps"`
	ProfitMode ProfitMode         `json:"profit_mode"`
}

// SweepRow is the per-regime tax at one revenue point. Ineligible regimes are absent.
type SweepRow struct {
	Revenue decimal.Decimal                   `json:"revenue"`
	Profit  decimal.Decimal                   `json:"profit"`
	Taxes   map[domain.Regime]decimal.Decimal `json:"taxes"`
	Best    domain.Regime                     `json:"best"`
}

// PairResult is one entry of an all-pairs break-even scan
type PairResult struct {
	RegimeA domain.Regime `json:"regime_a"`
	RegimeB domain.Regime `json:"regime_b"`
	Result  *Result       `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Revenue convergence tolerance
	MaxIterations int             // Maximum bisection iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01), // one cent
		MaxIterations: 100,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
