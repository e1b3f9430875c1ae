package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/benchlab/classbench/pkg/errors"
)

// Partition is a disjoint, exhaustive train/test split of a source Dataset.
type Partition struct {
	Train *Dataset
	Test  *Dataset
}

// StratifiedSplit splits d into train and test subsets, applying
// trainFraction to each class independently so class proportions are
// preserved on both sides regardless of global imbalance.
//
// The split is deterministic for a given seed. Every class needs at least 2
// records so that each side receives at least one; otherwise an
// InsufficientDataError is returned.
func StratifiedSplit(d *Dataset, trainFraction float64, seed int64) (*Partition, error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, errors.NewConfigurationError("trainFraction", "must be in (0, 1)", trainFraction)
	}

	// Group record indices by class, preserving dataset order.
	byClass := make([][]int, d.NumClasses())
	for i, label := range d.Y {
		byClass[label] = append(byClass[label], i)
	}
	for c, indices := range byClass {
		if len(indices) < 2 {
			return nil, errors.NewInsufficientDataError(d.Classes[c], len(indices), 2)
		}
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	var trainIdx, testIdx []int
	for _, indices := range byClass {
		shuffled := make([]int, len(indices))
		copy(shuffled, indices)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		// Round to the nearest record, but keep at least one on each side.
		nTrain := int(math.Round(trainFraction * float64(len(indices))))
		if nTrain < 1 {
			nTrain = 1
		}
		if nTrain > len(indices)-1 {
			nTrain = len(indices) - 1
		}

		trainIdx = append(trainIdx, shuffled[:nTrain]...)
		testIdx = append(testIdx, shuffled[nTrain:]...)
	}

	// Restore dataset order within each side so results do not depend on
	// class grouping order.
	sort.Ints(trainIdx)
	sort.Ints(testIdx)

	return &Partition{
		Train: d.Subset(trainIdx),
		Test:  d.Subset(testIdx),
	}, nil
}
