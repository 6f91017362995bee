package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/domain"
)

// CompareEngine runs the simulator over inputs and analyses the results
type CompareEngine struct {
	CalcEngine        *calculation.RegimeEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.RegimeEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOne simulates and analyses a single input
func (ce *CompareEngine) CompareOne(in domain.InputRecord) (*ComparisonResult, error) {
	record, err := ce.CalcEngine.Simulate(in)
	if err != nil {
		return nil, err
	}
	result := ce.MetricsCalculator.CalculateMetrics(record)
	return &result, nil
}

// Compare simulates a batch of inputs. Cancellation is checked between records.
func (ce *CompareEngine) Compare(ctx context.Context, inputs []domain.InputRecord) (*ComparisonSet, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs to compare")
	}

	results := make([]ComparisonResult, 0, len(inputs))
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := ce.CompareOne(in)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate %s (#%d): %w", in.Label(), i+1, err)
		}
		results = append(results, *result)
	}

	compSet := &ComparisonSet{Results: results}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
