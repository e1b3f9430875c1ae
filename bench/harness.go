package bench

import (
	"github.com/rs/zerolog"

	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/metrics"
	"github.com/benchlab/classbench/pkg/errors"
	logattr "github.com/benchlab/classbench/pkg/log"
)

// Result is one row of the benchmark table.
type Result struct {
	// Variant labels the model strategy that produced this row.
	Variant string

	// CVError is the internal validation error measured on the training
	// partition during tuning.
	CVError float64

	// TestError is the misclassification rate on the held-out test partition.
	TestError float64

	// Err is set when this variant failed; CVError and TestError are then
	// meaningless. A failed variant never hides the others' rows.
	Err error
}

// Failed reports whether this variant's evaluation was aborted.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Run benchmarks every strategy on one shared stratified partition of d and
// returns one Result per strategy, in strategy order.
//
// All variants see the identical train and test sides, so their error rates
// are directly comparable. A variant that fails on its own data conditions
// (for example a cross-validation fold losing a class) gets its error
// recorded in its row while the remaining variants still run. Errors that
// indicate a broken setup rather than hard data abort the whole run: a
// malformed configuration, too little data to partition, or a model used
// before fitting.
func Run(d *dataset.Dataset, strategies []Strategy, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		strategies = Strategies(cfg)
	}
	logger := cfg.Logger

	logger.Info().
		Str(logattr.OperationKey, logattr.OperationPartition).
		Int(logattr.SamplesKey, d.Len()).
		Int(logattr.FeaturesKey, d.NumFeatures()).
		Int(logattr.ClassesKey, d.NumClasses()).
		Int64(logattr.SeedKey, cfg.Seed).
		Msg("partitioning dataset")

	part, err := dataset.StratifiedSplit(d, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(strategies))
	for i, s := range strategies {
		results[i] = evaluate(s, part, logger)
		if results[i].Err != nil {
			var notFitted *errors.NotFittedError
			if errors.As(results[i].Err, &notFitted) {
				return nil, results[i].Err
			}
			logger.Warn().
				Str(logattr.VariantKey, s.Name()).
				Err(results[i].Err).
				Msg("variant failed")
		}
	}
	return results, nil
}

// evaluate runs the tune, fit, predict, score pipeline for one strategy on
// the shared partition.
func evaluate(s Strategy, part *dataset.Partition, logger zerolog.Logger) Result {
	res := Result{Variant: s.Name()}

	logger.Debug().
		Str(logattr.VariantKey, s.Name()).
		Str(logattr.OperationKey, logattr.OperationTune).
		Int(logattr.SamplesKey, part.Train.Len()).
		Msg("tuning on training partition")
	cvErr, err := s.Tune(part.Train)
	if err != nil {
		res.Err = errors.Wrapf(err, "tune %s", s.Name())
		return res
	}
	res.CVError = cvErr
	if hp, ok := s.(interface{ SelectedK() int }); ok {
		logger.Debug().
			Str(logattr.VariantKey, s.Name()).
			Int(logattr.HyperparamKey, hp.SelectedK()).
			Msg("neighbor count selected")
	}

	logger.Debug().
		Str(logattr.VariantKey, s.Name()).
		Str(logattr.OperationKey, logattr.OperationFit).
		Msg("fitting final model")
	if err := s.Fit(part.Train); err != nil {
		res.Err = errors.Wrapf(err, "fit %s", s.Name())
		return res
	}

	pred, err := s.Predict(part.Test.X)
	if err != nil {
		res.Err = errors.Wrapf(err, "predict %s", s.Name())
		return res
	}

	testErr, err := metrics.MisclassificationRate(part.Test.Y, pred, part.Test.NumClasses())
	if err != nil {
		res.Err = errors.Wrapf(err, "score %s", s.Name())
		return res
	}
	res.TestError = testErr

	logger.Info().
		Str(logattr.VariantKey, s.Name()).
		Str(logattr.OperationKey, logattr.OperationScore).
		Float64(logattr.CVErrorKey, res.CVError).
		Float64(logattr.TestErrorKey, res.TestError).
		Msg("variant evaluated")
	return res
}
