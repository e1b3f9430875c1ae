// Package forest implements a random forest classifier whose out-of-bag
// error doubles as its internal validation error, so no separate
// cross-validation loop is needed.
package forest

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/core/model"
	"github.com/benchlab/classbench/core/parallel"
	"github.com/benchlab/classbench/pkg/errors"
)

const parallelThreshold = 64

// Classifier is a bootstrap-aggregated ensemble of CART trees. Tree i draws
// its bootstrap resample and feature subsets from a generator seeded
// seed+i, so training is bit-reproducible whether trees are built in
// parallel or sequentially.
type Classifier struct {
	model.BaseEstimator

	numTrees int
	mtry     int
	seed     int64

	trees       []*decisionTree
	numClasses  int
	numFeatures int
	oobErr      float64
	oobValid    bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSeed sets the base seed for bootstrap resampling.
func WithSeed(seed int64) Option {
	return func(c *Classifier) {
		c.seed = seed
	}
}

// New creates a random forest. mtry is the number of predictors considered
// per split; zero means floor(sqrt(d)), resolved at fit time.
func New(numTrees, mtry int, opts ...Option) *Classifier {
	c := &Classifier{
		numTrees: numTrees,
		mtry:     mtry,
		seed:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit trains numTrees trees on independent bootstrap resamples and records
// the out-of-bag error.
func (c *Classifier) Fit(X mat.Matrix, y []int, numClasses int) error {
	rows, cols := X.Dims()
	if rows == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != rows {
		return errors.NewDimensionError("forest.Fit", rows, len(y), 0)
	}
	if c.numTrees < 1 {
		return errors.NewConfigurationError("forestTreeCount", "must be a positive integer", c.numTrees)
	}
	if c.mtry < 0 || c.mtry > cols {
		return errors.NewConfigurationError("forestMtry", "must be in [0, number of predictors]", c.mtry)
	}

	seen := make([]bool, numClasses)
	for _, label := range y {
		seen[label] = true
	}
	for class, ok := range seen {
		if !ok {
			return errors.NewDegenerateInputError("forest.Fit", class)
		}
	}

	mtry := c.mtry
	if mtry == 0 {
		mtry = int(math.Sqrt(float64(cols)))
		if mtry < 1 {
			mtry = 1
		}
	}

	// Copy rows out of the matrix once; trees index into the shared copy.
	x := make([][]float64, rows)
	for i := range x {
		x[i] = make([]float64, cols)
		mat.Row(x[i], i, X)
	}

	trees := make([]*decisionTree, c.numTrees)
	bootstraps := make([][]int, c.numTrees)

	parallel.Parallelize(c.numTrees, func(start, end int) {
		for ti := start; ti < end; ti++ {
			treeSeed := uint64(c.seed + int64(ti))
			rng := rand.New(rand.NewPCG(treeSeed, treeSeed))

			sample := make([]int, rows)
			for j := range sample {
				sample[j] = rng.IntN(rows)
			}
			bootstraps[ti] = sample

			tree := newDecisionTree(mtry, numClasses)
			tree.fit(x, y, sample, rng)
			trees[ti] = tree
		}
	})

	c.trees = trees
	c.numClasses = numClasses
	c.numFeatures = cols
	c.computeOOB(x, y, bootstraps)
	c.SetFitted()
	return nil
}

// computeOOB scores each training record with the trees whose bootstrap
// excluded it. Records that every tree saw in-bag are skipped. Aggregation
// iterates trees in index order, so the result does not depend on the
// parallel build schedule.
func (c *Classifier) computeOOB(x [][]float64, y []int, bootstraps [][]int) {
	n := len(x)
	votes := make([][]int, n)
	for i := range votes {
		votes[i] = make([]int, c.numClasses)
	}

	inBag := make([]bool, n)
	for ti, tree := range c.trees {
		for i := range inBag {
			inBag[i] = false
		}
		for _, idx := range bootstraps[ti] {
			inBag[idx] = true
		}
		for i := 0; i < n; i++ {
			if !inBag[i] {
				votes[i][tree.predict(x[i])]++
			}
		}
	}

	scored := 0
	wrong := 0
	for i := 0; i < n; i++ {
		total := 0
		for _, v := range votes[i] {
			total += v
		}
		if total == 0 {
			continue
		}
		scored++
		if argmax(votes[i]) != y[i] {
			wrong++
		}
	}

	if scored == 0 {
		c.oobValid = false
		return
	}
	c.oobErr = float64(wrong) / float64(scored)
	c.oobValid = true
}

// Predict returns the majority vote of all trees for each row of X. Vote
// ties resolve to the smaller class index.
func (c *Classifier) Predict(X mat.Matrix) ([]int, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForest", "Predict")
	}
	rows, cols := X.Dims()
	if cols != c.numFeatures {
		return nil, errors.NewDimensionError("forest.Predict", c.numFeatures, cols, 1)
	}

	out := make([]int, rows)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		row := make([]float64, cols)
		votes := make([]int, c.numClasses)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			for v := range votes {
				votes[v] = 0
			}
			for _, tree := range c.trees {
				votes[tree.predict(row)]++
			}
			out[i] = argmax(votes)
		}
	})
	return out, nil
}

// OOBError returns the out-of-bag error recorded during Fit.
func (c *Classifier) OOBError() (float64, error) {
	if !c.IsFitted() {
		return 0, errors.NewNotFittedError("RandomForest", "OOBError")
	}
	if !c.oobValid {
		return 0, errors.NewValueError("forest.OOBError", "no record was ever out of bag; grow more trees")
	}
	return c.oobErr, nil
}

// InternalValidationError fits a throwaway forest with this classifier's
// configuration and returns its out-of-bag error. The receiver is left
// untouched, matching the train-data-only contract shared with the
// cross-validated families.
func (c *Classifier) InternalValidationError(X mat.Matrix, y []int, numClasses int) (float64, error) {
	probe := New(c.numTrees, c.mtry, WithSeed(c.seed))
	if err := probe.Fit(X, y, numClasses); err != nil {
		return 0, err
	}
	return probe.OOBError()
}
