// Package knn implements an exact k-nearest-neighbor classifier with
// repeated cross-validated selection of the neighbor count.
package knn

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/core/model"
	"github.com/benchlab/classbench/core/parallel"
	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/metrics"
	"github.com/benchlab/classbench/modelsel"
	"github.com/benchlab/classbench/pkg/errors"
)

// parallelThreshold is the number of prediction rows below which prediction
// stays sequential.
const parallelThreshold = 64

// Classifier is a k-nearest-neighbor classifier over numeric predictors with
// squared Euclidean distance and majority voting. Vote ties go to the
// smaller class index; distance ties go to the earlier training record, so
// predictions are deterministic.
type Classifier struct {
	model.BaseEstimator

	k         int
	cvFolds   int
	cvRepeats int
	seed      int64

	x          *mat.Dense
	y          []int
	numClasses int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCV sets the fold count and repeat count used by
// InternalValidationError.
func WithCV(folds, repeats int) Option {
	return func(c *Classifier) {
		c.cvFolds = folds
		c.cvRepeats = repeats
	}
}

// WithSeed sets the seed driving cross-validation shuffles.
func WithSeed(seed int64) Option {
	return func(c *Classifier) {
		c.seed = seed
	}
}

// New creates a k-nearest-neighbor classifier.
func New(k int, opts ...Option) *Classifier {
	c := &Classifier{
		k:         k,
		cvFolds:   10,
		cvRepeats: 3,
		seed:      1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// K returns the configured neighbor count.
func (c *Classifier) K() int {
	return c.k
}

// Fit stores the training data. KNN is lazy: all work happens at prediction
// time. The inputs are copied so later mutation of the caller's data cannot
// change predictions.
func (c *Classifier) Fit(X mat.Matrix, y []int, numClasses int) error {
	rows, _ := X.Dims()
	if rows == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != rows {
		return errors.NewDimensionError("knn.Fit", rows, len(y), 0)
	}
	if c.k < 1 {
		return errors.NewConfigurationError("k", "must be a positive integer", c.k)
	}

	seen := make([]bool, numClasses)
	for _, label := range y {
		seen[label] = true
	}
	for class, ok := range seen {
		if !ok {
			return errors.NewDegenerateInputError("knn.Fit", class)
		}
	}

	c.x = mat.DenseCopyOf(X)
	c.y = make([]int, len(y))
	copy(c.y, y)
	c.numClasses = numClasses
	c.SetFitted()
	return nil
}

// Predict returns one class index per row of X. Rows are scored in parallel;
// the fitted model is read-only, so workers share it safely.
func (c *Classifier) Predict(X mat.Matrix) ([]int, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNN", "Predict")
	}
	rows, cols := X.Dims()
	if _, trainCols := c.x.Dims(); cols != trainCols {
		return nil, errors.NewDimensionError("knn.Predict", trainCols, cols, 1)
	}

	out := make([]int, rows)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		row := make([]float64, cols)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			out[i] = c.predictOne(row)
		}
	})
	return out, nil
}

// predictOne votes among the k nearest training records.
func (c *Classifier) predictOne(x []float64) int {
	n := len(c.y)
	k := c.k
	if k > n {
		k = n
	}

	// Keep the k nearest seen so far, sorted by distance. Strict comparison
	// means earlier training records win distance ties.
	nearest := make([]neighbor, 0, k)
	for j := 0; j < n; j++ {
		d := sqDist(x, c.x.RawRowView(j))
		if len(nearest) < k {
			nearest = insert(nearest, neighbor{dist: d, label: c.y[j]})
		} else if d < nearest[k-1].dist {
			nearest = insert(nearest[:k-1], neighbor{dist: d, label: c.y[j]})
		}
	}

	votes := make([]int, c.numClasses)
	for _, nb := range nearest {
		votes[nb.label]++
	}
	best := 0
	for class := 1; class < c.numClasses; class++ {
		if votes[class] > votes[best] {
			best = class
		}
	}
	return best
}

func insert(nearest []neighbor, nb neighbor) []neighbor {
	nearest = append(nearest, nb)
	for i := len(nearest) - 1; i > 0 && nearest[i].dist < nearest[i-1].dist; i-- {
		nearest[i], nearest[i-1] = nearest[i-1], nearest[i]
	}
	return nearest
}

type neighbor struct {
	dist  float64
	label int
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// InternalValidationError estimates generalization error for the configured
// k via repeated stratified k-fold cross-validation on the training data.
func (c *Classifier) InternalValidationError(X mat.Matrix, y []int, numClasses int) (float64, error) {
	d, err := datasetFrom(X, y, numClasses)
	if err != nil {
		return 0, err
	}
	folds := modelsel.NewRepeatedStratifiedKFold(c.cvFolds, c.cvRepeats, c.seed).Split(d.Len(), d.Y)
	return modelsel.MeanCVError(d, folds, func() model.Classifier {
		return New(c.k)
	})
}

// SelectK evaluates every candidate neighbor count with repeated stratified
// cross-validation and returns the one with the lowest mean error. All
// candidates share one fold sequence so the comparison is fair, and ties
// keep the earliest (smallest) k in the grid.
func SelectK(d *dataset.Dataset, grid []int, cvFolds, cvRepeats int, seed int64) (int, float64, error) {
	if len(grid) == 0 {
		return 0, 0, errors.NewConfigurationError("kCandidateGrid", "must not be empty", grid)
	}
	for _, k := range grid {
		if k < 1 {
			return 0, 0, errors.NewConfigurationError("kCandidateGrid", "k must be a positive integer", k)
		}
	}

	folds := modelsel.NewRepeatedStratifiedKFold(cvFolds, cvRepeats, seed).Split(d.Len(), d.Y)
	if len(folds) == 0 {
		return 0, 0, errors.NewValueError("knn.SelectK", "too few records to cross-validate")
	}
	for _, fold := range folds {
		if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
			return 0, 0, errors.NewValueError("knn.SelectK", "a fold has an empty side; too few records to cross-validate")
		}
	}

	// Pre-materialize the fold datasets once; every candidate reads them.
	type foldData struct {
		train *dataset.Dataset
		test  *dataset.Dataset
	}
	foldSets := make([]foldData, len(folds))
	for i, fold := range folds {
		foldSets[i] = foldData{
			train: d.Subset(fold.TrainIndices),
			test:  d.Subset(fold.TestIndices),
		}
	}

	scores := make([]float64, len(grid))
	errs := make([]error, len(grid))
	parallel.Parallelize(len(grid), func(start, end int) {
		for gi := start; gi < end; gi++ {
			sum := 0.0
			for _, fd := range foldSets {
				clf := New(grid[gi])
				if err := clf.Fit(fd.train.X, fd.train.Y, d.NumClasses()); err != nil {
					errs[gi] = err
					return
				}
				pred, err := clf.Predict(fd.test.X)
				if err != nil {
					errs[gi] = err
					return
				}
				rate, err := metrics.MisclassificationRate(fd.test.Y, pred, d.NumClasses())
				if err != nil {
					errs[gi] = err
					return
				}
				sum += rate
			}
			scores[gi] = sum / float64(len(foldSets))
		}
	})
	for _, err := range errs {
		if err != nil {
			return 0, 0, err
		}
	}

	bestIdx, bestErr, err := modelsel.SelectBest(scores)
	if err != nil {
		return 0, 0, err
	}
	return grid[bestIdx], bestErr, nil
}

func datasetFrom(X mat.Matrix, y []int, numClasses int) (*dataset.Dataset, error) {
	rows, _ := X.Dims()
	if len(y) != rows {
		return nil, errors.NewDimensionError("knn", rows, len(y), 0)
	}
	classes := make([]string, numClasses)
	for i := range classes {
		classes[i] = strconv.Itoa(i)
	}
	return dataset.New(mat.DenseCopyOf(X), y, classes)
}
