package bench

import (
	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/classify/forest"
	"github.com/benchlab/classbench/classify/kda"
	"github.com/benchlab/classbench/classify/knn"
	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/pkg/errors"
)

// Strategy is one benchmark variant: a model family plus the procedure that
// resolves its hyperparameters from training data only. Tune must be called
// before Fit; both see only the training partition.
type Strategy interface {
	// Name labels the variant's result row.
	Name() string

	// Tune resolves hyperparameters on the training data and returns the
	// internal validation error the final configuration achieved.
	Tune(train *dataset.Dataset) (float64, error)

	// Fit trains the final model with the tuned configuration.
	Fit(train *dataset.Dataset) error

	// Predict classifies the rows of X with the fitted model.
	Predict(X mat.Matrix) ([]int, error)
}

// Strategies returns the standard benchmark lineup: one kernel discriminant
// variant per configured bandwidth rule, the cross-validated nearest-neighbor
// variant, and the random forest. Order is fixed so result rows always line
// up across runs.
func Strategies(cfg Config) []Strategy {
	out := make([]Strategy, 0, len(cfg.BandwidthRules)+2)
	for _, rule := range cfg.BandwidthRules {
		out = append(out, &kdaStrategy{
			clf: kda.New(rule, kda.WithCV(cfg.CVFolds), kda.WithSeed(cfg.Seed)),
		})
	}
	out = append(out, &knnStrategy{
		grid:    cfg.KCandidateGrid,
		folds:   cfg.CVFolds,
		repeats: cfg.CVRepeats,
		seed:    cfg.Seed,
	})
	out = append(out, &forestStrategy{
		clf: forest.New(cfg.ForestTreeCount, cfg.ForestMtry, forest.WithSeed(cfg.Seed)),
	})
	return out
}

// kdaStrategy wraps one kernel discriminant bandwidth rule. The rule is the
// variant identity, not a tunable, so Tune only measures it.
type kdaStrategy struct {
	clf *kda.Classifier
}

func (s *kdaStrategy) Name() string {
	return "KDA-" + s.clf.Rule().String()
}

func (s *kdaStrategy) Tune(train *dataset.Dataset) (float64, error) {
	return s.clf.InternalValidationError(train.X, train.Y, train.NumClasses())
}

func (s *kdaStrategy) Fit(train *dataset.Dataset) error {
	return s.clf.Fit(train.X, train.Y, train.NumClasses())
}

func (s *kdaStrategy) Predict(X mat.Matrix) ([]int, error) {
	return s.clf.Predict(X)
}

// knnStrategy selects the neighbor count by repeated stratified
// cross-validation over the candidate grid.
type knnStrategy struct {
	grid    []int
	folds   int
	repeats int
	seed    int64

	clf *knn.Classifier
}

func (s *knnStrategy) Name() string {
	return "KNN"
}

func (s *knnStrategy) Tune(train *dataset.Dataset) (float64, error) {
	k, cvErr, err := knn.SelectK(train, s.grid, s.folds, s.repeats, s.seed)
	if err != nil {
		return 0, err
	}
	s.clf = knn.New(k, knn.WithCV(s.folds, s.repeats), knn.WithSeed(s.seed))
	return cvErr, nil
}

func (s *knnStrategy) Fit(train *dataset.Dataset) error {
	// Fit without a prior Tune resolves k first, on the same data.
	if s.clf == nil {
		if _, err := s.Tune(train); err != nil {
			return err
		}
	}
	return s.clf.Fit(train.X, train.Y, train.NumClasses())
}

func (s *knnStrategy) Predict(X mat.Matrix) ([]int, error) {
	if s.clf == nil {
		return nil, errors.NewNotFittedError("KNN", "Predict")
	}
	return s.clf.Predict(X)
}

// SelectedK returns the neighbor count chosen by Tune, or zero before Tune.
func (s *knnStrategy) SelectedK() int {
	if s.clf == nil {
		return 0
	}
	return s.clf.K()
}

// forestStrategy has fixed hyperparameters; Tune reports the out-of-bag
// error of a probe forest without fitting the receiver.
type forestStrategy struct {
	clf *forest.Classifier
}

func (s *forestStrategy) Name() string {
	return "RandomForest"
}

func (s *forestStrategy) Tune(train *dataset.Dataset) (float64, error) {
	return s.clf.InternalValidationError(train.X, train.Y, train.NumClasses())
}

func (s *forestStrategy) Fit(train *dataset.Dataset) error {
	return s.clf.Fit(train.X, train.Y, train.NumClasses())
}

func (s *forestStrategy) Predict(X mat.Matrix) ([]int, error) {
	return s.clf.Predict(X)
}
