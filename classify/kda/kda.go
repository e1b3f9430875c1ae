// Package kda implements a kernel discriminant analysis classifier: each
// class gets a Gaussian kernel density estimate with a bandwidth matrix
// chosen by a configurable rule, and points are assigned to the class with
// the highest prior-weighted density.
package kda

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/benchlab/classbench/core/model"
	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/modelsel"
	"github.com/benchlab/classbench/pkg/errors"
)

// Classifier is a kernel discriminant. The bandwidth rule is its only
// hyperparameter; the three rules are typically benchmarked side by side
// rather than tuned against each other.
type Classifier struct {
	model.BaseEstimator

	rule    BandwidthRule
	cvFolds int
	seed    int64

	classData []*mat.Dense
	kernels   []*distmv.Normal
	logPriors []float64
	dims      int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCV sets the fold count used by InternalValidationError.
func WithCV(folds int) Option {
	return func(c *Classifier) {
		c.cvFolds = folds
	}
}

// WithSeed sets the seed driving cross-validation shuffles.
func WithSeed(seed int64) Option {
	return func(c *Classifier) {
		c.seed = seed
	}
}

// New creates a kernel discriminant classifier using the given bandwidth
// rule.
func New(rule BandwidthRule, opts ...Option) *Classifier {
	c := &Classifier{
		rule:    rule,
		cvFolds: 10,
		seed:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rule returns the configured bandwidth rule.
func (c *Classifier) Rule() BandwidthRule {
	return c.rule
}

// Fit estimates one kernel density per class: the class's bandwidth matrix
// from the configured rule, plus its training points and log prior.
func (c *Classifier) Fit(X mat.Matrix, y []int, numClasses int) error {
	rows, cols := X.Dims()
	if rows == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != rows {
		return errors.NewDimensionError("kda.Fit", rows, len(y), 0)
	}

	byClass := make([][]int, numClasses)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	for class, indices := range byClass {
		if len(indices) == 0 {
			return errors.NewDegenerateInputError("kda.Fit", class)
		}
	}

	x := mat.DenseCopyOf(X)

	classData := make([]*mat.Dense, numClasses)
	kernels := make([]*distmv.Normal, numClasses)
	logPriors := make([]float64, numClasses)

	for class, indices := range byClass {
		sub := mat.NewDense(len(indices), cols, nil)
		for i, idx := range indices {
			sub.SetRow(i, x.RawRowView(idx))
		}
		classData[class] = sub

		// A single-record class cannot support its own covariance; borrow
		// the pooled bandwidth of the full training set.
		source := sub
		if len(indices) < 2 {
			source = x
		}
		h, err := bandwidthFor(c.rule, source)
		if err != nil {
			return errors.Wrapf(err, "class %d", class)
		}
		kern, err := zeroMeanNormal(h)
		if err != nil {
			return errors.Wrapf(err, "class %d", class)
		}
		kernels[class] = kern
		logPriors[class] = math.Log(float64(len(indices)) / float64(rows))
	}

	c.classData = classData
	c.kernels = kernels
	c.logPriors = logPriors
	c.dims = cols
	c.SetFitted()
	return nil
}

// Predict assigns each row of X to the class whose prior-weighted density
// estimate is highest. Ties resolve to the smaller class index.
func (c *Classifier) Predict(X mat.Matrix) ([]int, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KernelDiscriminant", "Predict")
	}
	rows, cols := X.Dims()
	if cols != c.dims {
		return nil, errors.NewDimensionError("kda.Predict", c.dims, cols, 1)
	}

	out := make([]int, rows)
	point := make([]float64, cols)
	diff := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(point, i, X)
		best := 0
		bestScore := math.Inf(-1)
		for class := range c.kernels {
			score := c.logDensity(class, point, diff) + c.logPriors[class]
			if score > bestScore {
				bestScore = score
				best = class
			}
		}
		out[i] = best
	}
	return out, nil
}

// logDensity evaluates the log kernel density estimate of a class at point:
// log((1/n_c) Σ_i φ_H(point − x_i)), via log-sum-exp for stability.
func (c *Classifier) logDensity(class int, point, diff []float64) float64 {
	data := c.classData[class]
	n, _ := data.Dims()
	kern := c.kernels[class]

	logTerms := make([]float64, n)
	for i := 0; i < n; i++ {
		row := data.RawRowView(i)
		for k := range diff {
			diff[k] = point[k] - row[k]
		}
		logTerms[i] = kern.LogProb(diff)
	}
	return floats.LogSumExp(logTerms) - math.Log(float64(n))
}

// InternalValidationError estimates generalization error for this bandwidth
// rule via stratified k-fold cross-validation on the training data. Each
// fold re-runs the full bandwidth selection, so the estimate accounts for
// the rule itself, not just the final matrix.
func (c *Classifier) InternalValidationError(X mat.Matrix, y []int, numClasses int) (float64, error) {
	d, err := datasetFrom(X, y, numClasses)
	if err != nil {
		return 0, err
	}
	folds := modelsel.NewStratifiedKFold(c.cvFolds, true, c.seed).Split(d.Len(), d.Y)
	return modelsel.MeanCVError(d, folds, func() model.Classifier {
		return New(c.rule)
	})
}

func datasetFrom(X mat.Matrix, y []int, numClasses int) (*dataset.Dataset, error) {
	rows, _ := X.Dims()
	if len(y) != rows {
		return nil, errors.NewDimensionError("kda", rows, len(y), 0)
	}
	classes := make([]string, numClasses)
	for i := range classes {
		classes[i] = string(rune('A' + i%26))
	}
	return dataset.New(mat.DenseCopyOf(X), y, classes)
}
