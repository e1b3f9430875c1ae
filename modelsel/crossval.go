package modelsel

import (
	"github.com/benchlab/classbench/core/model"
	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/metrics"
	"github.com/benchlab/classbench/pkg/errors"
)

// MeanCVError trains a fresh classifier per fold and returns the mean
// misclassification rate over all folds. build must return an unfitted
// classifier; folds are evaluated in order so the result is deterministic.
func MeanCVError(d *dataset.Dataset, folds []Fold, build func() model.Classifier) (float64, error) {
	if len(folds) == 0 {
		return 0, errors.NewValueError("modelsel.MeanCVError", "no folds to evaluate")
	}

	sum := 0.0
	for i, fold := range folds {
		if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
			return 0, errors.NewValueError("modelsel.MeanCVError", "a fold has an empty side; too few records to cross-validate")
		}
		train := d.Subset(fold.TrainIndices)
		test := d.Subset(fold.TestIndices)

		clf := build()
		if err := clf.Fit(train.X, train.Y, d.NumClasses()); err != nil {
			return 0, errors.Wrapf(err, "fold %d", i)
		}
		pred, err := clf.Predict(test.X)
		if err != nil {
			return 0, errors.Wrapf(err, "fold %d", i)
		}
		rate, err := metrics.MisclassificationRate(test.Y, pred, d.NumClasses())
		if err != nil {
			return 0, errors.Wrapf(err, "fold %d", i)
		}
		sum += rate
	}
	return sum / float64(len(folds)), nil
}
