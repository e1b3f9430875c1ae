// Package model defines the interfaces shared by all classbench classifiers.
package model

import "gonum.org/v1/gonum/mat"

// Classifier is the capability every model family implements.
//
// Fit trains exactly one decision boundary on X (n×d predictors) and y
// (class index per row, drawn from [0, numClasses)). Implementations must
// treat X and y as read-only and must fail with a DegenerateInputError when
// a class in [0, numClasses) has no training records.
//
// Predict produces one class index per row of X. It must never consult true
// labels and fails with a NotFittedError before Fit.
type Classifier interface {
	Fit(X mat.Matrix, y []int, numClasses int) error
	Predict(X mat.Matrix) ([]int, error)
}

// InternalValidator estimates generalization error from training data only.
// The mechanism varies per family (k-fold cross-validation, repeated
// stratified cross-validation, out-of-bag error); callers never need to know
// which. The returned value is a misclassification rate in [0, 1].
type InternalValidator interface {
	InternalValidationError(X mat.Matrix, y []int, numClasses int) (float64, error)
}
