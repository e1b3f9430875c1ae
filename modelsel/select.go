package modelsel

import (
	"math"

	"github.com/benchlab/classbench/pkg/errors"
)

// SelectBest returns the index and value of the minimum score. Ties keep the
// first candidate in grid order, so selection is stable and deterministic.
func SelectBest(scores []float64) (int, float64, error) {
	if len(scores) == 0 {
		return 0, 0, errors.NewConfigurationError("candidateGrid", "must not be empty", len(scores))
	}

	bestIdx := 0
	best := scores[0]
	for i, s := range scores {
		if math.IsNaN(s) {
			return 0, 0, errors.NewValueError("modelsel.SelectBest", "score is NaN")
		}
		if s < best {
			best = s
			bestIdx = i
		}
	}
	return bestIdx, best, nil
}
