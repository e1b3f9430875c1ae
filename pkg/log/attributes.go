package log

// Standard attribute keys for benchmark logging. Using a fixed vocabulary
// keeps run logs filterable across components.
const (
	// ComponentKey identifies the package emitting the record.
	ComponentKey = "component"

	// VariantKey identifies the model variant being evaluated.
	// Examples: "KDA-plugin", "KNN", "RandomForest"
	VariantKey = "variant"

	// OperationKey specifies the pipeline phase.
	// Standard values: "partition", "tune", "fit", "predict", "score"
	OperationKey = "operation"

	// SamplesKey is the number of records in the data being processed.
	SamplesKey = "samples"

	// FeaturesKey is the number of predictor columns.
	FeaturesKey = "features"

	// ClassesKey is the number of distinct classes.
	ClassesKey = "classes"

	// SeedKey is the random seed driving the run.
	SeedKey = "seed"

	// CVErrorKey is the cross-validated (internal) error of a variant.
	CVErrorKey = "cv_error"

	// TestErrorKey is the held-out test error of a variant.
	TestErrorKey = "test_error"

	// HyperparamKey records a resolved hyperparameter, e.g. the selected k.
	HyperparamKey = "hyperparam"
)

// Standard operation values.
const (
	OperationPartition = "partition"
	OperationTune      = "tune"
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
)
