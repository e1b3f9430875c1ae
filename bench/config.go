// Package bench drives the classifier benchmark: one shared stratified
// partition, per-variant hyperparameter tuning on the training side, and a
// comparable error table across model families.
package bench

import (
	"github.com/rs/zerolog"

	"github.com/benchlab/classbench/classify/kda"
	"github.com/benchlab/classbench/pkg/errors"
)

// Config collects every knob of a benchmark run. There is no process-wide
// state: all randomness flows from Seed.
type Config struct {
	// TrainFraction is the per-class share of records assigned to the
	// training side, in (0, 1).
	TrainFraction float64

	// Seed drives the partition and every seeded model component.
	Seed int64

	// KCandidateGrid is the ordered set of neighbor counts searched for the
	// nearest-neighbor variant. Ties prefer earlier candidates, so an
	// ascending grid prefers the simpler model.
	KCandidateGrid []int

	// CVFolds and CVRepeats control the repeated stratified k-fold
	// cross-validation used by the tunable variants.
	CVFolds   int
	CVRepeats int

	// ForestTreeCount and ForestMtry configure the random forest variant.
	// ForestMtry zero means floor(sqrt(d)).
	ForestTreeCount int
	ForestMtry      int

	// BandwidthRules selects which kernel discriminant variants run. Each
	// rule becomes its own result row.
	BandwidthRules []kda.BandwidthRule

	// Logger receives run progress. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the standard benchmark configuration.
func DefaultConfig() Config {
	grid := make([]int, 50)
	for i := range grid {
		grid[i] = i + 1
	}
	return Config{
		TrainFraction:   0.7,
		Seed:            1,
		KCandidateGrid:  grid,
		CVFolds:         10,
		CVRepeats:       3,
		ForestTreeCount: 500,
		ForestMtry:      2,
		BandwidthRules:  kda.Rules,
		Logger:          zerolog.Nop(),
	}
}

// Validate fails fast on malformed configuration, before any data is
// partitioned or any model fitted.
func (c Config) Validate() error {
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return errors.NewConfigurationError("trainFraction", "must be in (0, 1)", c.TrainFraction)
	}
	if len(c.KCandidateGrid) == 0 {
		return errors.NewConfigurationError("kCandidateGrid", "must not be empty", c.KCandidateGrid)
	}
	for _, k := range c.KCandidateGrid {
		if k < 1 {
			return errors.NewConfigurationError("kCandidateGrid", "k must be a positive integer", k)
		}
	}
	if c.CVFolds < 2 {
		return errors.NewConfigurationError("cvFolds", "must be at least 2", c.CVFolds)
	}
	if c.CVRepeats < 1 {
		return errors.NewConfigurationError("cvRepeats", "must be at least 1", c.CVRepeats)
	}
	if c.ForestTreeCount < 1 {
		return errors.NewConfigurationError("forestTreeCount", "must be a positive integer", c.ForestTreeCount)
	}
	if c.ForestMtry < 0 {
		return errors.NewConfigurationError("forestMtry", "must not be negative", c.ForestMtry)
	}
	if len(c.BandwidthRules) == 0 {
		return errors.NewConfigurationError("bandwidthRules", "must not be empty", c.BandwidthRules)
	}
	for _, rule := range c.BandwidthRules {
		if rule.String() == "unknown" {
			return errors.NewConfigurationError("bandwidthRules", "unknown rule", int(rule))
		}
	}
	return nil
}
