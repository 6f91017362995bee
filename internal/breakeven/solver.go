package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds revenues where two regimes cost the same
type Solver struct {
	CalcEngine *calculation.RegimeEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.RegimeEngine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.RegimeEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

var two = decimal.NewFromInt(2)

// RevenueBreakEven bisects the revenue interval for the point where
// tax(A) == tax(B). When unified-simplified is one of the pair the upper
// bound is capped at its revenue ceiling.
func (s *Solver) RevenueBreakEven(ctx context.Context, req Request) (*Result, error) {
	if req.Bounds.MaxRevenue.IsZero() && req.Bounds.MinRevenue.IsZero() {
		req.Bounds = DefaultBounds()
	}
	if req.ProfitMode == "" {
		req.ProfitMode = ProfitFixed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.RegimeA == domain.RegimeUnifiedSimplified || req.RegimeB == domain.RegimeUnifiedSimplified {
		ceiling := s.CalcEngine.Rates.Parameters().SimplifiedRevenueCeiling
		if req.Bounds.MaxRevenue.GreaterThan(ceiling) {
			req.Bounds.MaxRevenue = ceiling
		}
		if !req.Bounds.MaxRevenue.GreaterThan(req.Bounds.MinRevenue) {
			return nil, &BreakEvenError{
				Operation: "revenue_break_even",
				Message:   "search interval lies above the unified-simplified ceiling",
				Cause:     ErrNoBreakEven,
			}
		}
	}

	margin := s.margin(req.Input, req.Margin)
	diffAt := func(revenue decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
		in := s.inputAt(req.Input, revenue, req.ProfitMode, margin)
		record, err := s.CalcEngine.Simulate(in)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		a, okA := record.Get(req.RegimeA)
		b, okB := record.Get(req.RegimeB)
		if !okA || !okB {
			return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("regime not eligible at revenue %s", revenue.StringFixed(2))
		}
		return a.TaxAmount.Sub(b.TaxAmount), a.TaxAmount, b.TaxAmount, nil
	}

	lo, hi := req.Bounds.MinRevenue, req.Bounds.MaxRevenue
	fLo, taxALo, taxBLo, err := diffAt(lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: "revenue_break_even", Message: "failed to evaluate lower bound", Cause: err}
	}
	fHi, _, _, err := diffAt(hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: "revenue_break_even", Message: "failed to evaluate upper bound", Cause: err}
	}

	result := &Result{Request: req}

	if fLo.IsZero() && !fHi.IsZero() {
		result.Found = true
		result.Revenue = lo
		result.TaxA, result.TaxB = taxALo, taxBLo
		result.CheaperAbove = cheaperWhen(fHi, req)
		result.ConvergenceInfo = "regimes cost the same at the lower bound"
		return result, nil
	}
	if fLo.Sign() == fHi.Sign() {
		return nil, &BreakEvenError{
			Operation: "revenue_break_even",
			Message: fmt.Sprintf("%s and %s do not cross between %s and %s",
				req.RegimeA.ShortName(), req.RegimeB.ShortName(), lo.StringFixed(2), hi.StringFixed(2)),
			Cause: ErrNoBreakEven,
		}
	}
	result.CheaperBelow = cheaperWhen(fLo, req)
	result.CheaperAbove = cheaperWhen(fHi, req)

	iterations := 0
	for iterations < s.Options.MaxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(two)
		fMid, _, _, err := diffAt(mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: "revenue_break_even", Message: "failed to evaluate midpoint", Cause: err}
		}

		if fMid.IsZero() {
			lo, hi = mid, mid
			break
		}
		if fMid.Sign() == fLo.Sign() {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}

		if hi.Sub(lo).LessThanOrEqual(s.Options.Tolerance) {
			break
		}
	}

	result.Iterations = iterations
	result.Found = true
	result.Revenue = lo.Add(hi).Div(two).Round(2)
	if hi.Sub(lo).LessThanOrEqual(s.Options.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("converged within %s after %d iterations", s.Options.Tolerance.String(), iterations)
	} else {
		result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations, interval width %s", iterations, hi.Sub(lo).StringFixed(2))
	}

	_, result.TaxA, result.TaxB, err = diffAt(result.Revenue)
	if err != nil {
		return nil, &BreakEvenError{Operation: "revenue_break_even", Message: "failed to evaluate break-even point", Cause: err}
	}

	return result, nil
}

// Sweep simulates the input at Steps+1 evenly spaced revenues from From to To
func (s *Solver) Sweep(ctx context.Context, req SweepRequest) ([]SweepRow, error) {
	if req.Steps < 1 {
		return nil, &BreakEvenError{Operation: "sweep", Message: "steps must be at least 1"}
	}
	if req.From.IsNegative() || !req.To.GreaterThan(req.From) {
		return nil, &BreakEvenError{Operation: "sweep", Message: "revenue range must satisfy 0 <= from < to"}
	}
	if req.ProfitMode == "" {
		req.ProfitMode = ProfitFixed
	}

	margin := s.margin(req.Input, nil)
	step := req.To.Sub(req.From).Div(decimal.NewFromInt(int64(req.Steps)))

	rows := make([]SweepRow, 0, req.Steps+1)
	for i := 0; i <= req.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		revenue := req.From.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == req.Steps {
			revenue = req.To
		}

		in := s.inputAt(req.Input, revenue, req.ProfitMode, margin)
		record, err := s.CalcEngine.Simulate(in)
		if err != nil {
			return nil, &BreakEvenError{Operation: "sweep", Message: "failed to simulate", Cause: err}
		}

		row := SweepRow{
			Revenue: revenue,
			Profit:  in.NetProfit,
			Taxes:   record.TotalsByRegime(),
			Best:    record.Best.Regime,
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// margin returns the override, or the input's profit/revenue ratio
func (s *Solver) margin(in domain.InputRecord, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if in.GrossAnnualRevenue.IsZero() {
		return decimal.Zero
	}
	return in.NetProfit.Div(in.GrossAnnualRevenue)
}

func (s *Solver) inputAt(in domain.InputRecord, revenue decimal.Decimal, mode ProfitMode, margin decimal.Decimal) domain.InputRecord {
	in = in.WithRevenue(revenue)
	if mode == ProfitMargin {
		in = in.WithProfit(revenue.Mul(margin))
	}
	return in
}

// cheaperWhen names the cheaper regime given the sign of tax(A) - tax(B)
func cheaperWhen(diff decimal.Decimal, req Request) domain.Regime {
	if diff.IsNegative() {
		return req.RegimeA
	}
	return req.RegimeB
}
