package breakeven

import (
	"context"
	"errors"

	"github.com/rgehrsitz/regimesim/internal/domain"
)

// AllPairs runs the break-even search for every pair of regimes in
// declaration order. Pairs that never cross are reported with an error string
// rather than failing the scan.
func (s *Solver) AllPairs(ctx context.Context, input domain.InputRecord, bounds Bounds, mode ProfitMode) ([]PairResult, error) {
	var results []PairResult

	for i, a := range domain.RegimeOrder {
		for _, b := range domain.RegimeOrder[i+1:] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			req := Request{
				Input:      input,
				RegimeA:    a,
				RegimeB:    b,
				Bounds:     bounds,
				ProfitMode: mode,
			}

			pair := PairResult{RegimeA: a, RegimeB: b}
			result, err := s.RevenueBreakEven(ctx, req)
			switch {
			case err == nil:
				pair.Result = result
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil, err
			default:
				pair.Error = err.Error()
			}
			results = append(results, pair)
		}
	}

	return results, nil
}

// Crossings returns only the pairs that have a break-even revenue
func Crossings(pairs []PairResult) []PairResult {
	var found []PairResult
	for _, p := range pairs {
		if p.Result != nil && p.Result.Found {
			found = append(found, p)
		}
	}
	return found
}
