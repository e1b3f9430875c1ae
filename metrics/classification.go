// Package metrics provides classification scoring for the benchmark harness.
package metrics

import (
	"github.com/benchlab/classbench/pkg/errors"
)

// ConfusionMatrix holds counts of (predicted class, true class) pairs for a
// single evaluation. It is never mutated after construction.
type ConfusionMatrix struct {
	counts [][]int // counts[predicted][true]
	total  int
}

// Confusion builds a square confusion matrix from predicted and true class
// indices over [0, numClasses). The two sequences must have equal length.
// Classes that are never predicted simply contribute nothing to the diagonal;
// they are not themselves an error.
func Confusion(yTrue, yPred []int, numClasses int) (*ConfusionMatrix, error) {
	if len(yTrue) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("metrics.Confusion", len(yTrue), len(yPred), 0)
	}
	if numClasses < 2 {
		return nil, errors.NewValueError("metrics.Confusion", "need at least 2 classes")
	}

	counts := make([][]int, numClasses)
	for i := range counts {
		counts[i] = make([]int, numClasses)
	}
	for i, actual := range yTrue {
		pred := yPred[i]
		if actual < 0 || actual >= numClasses {
			return nil, errors.Newf("metrics.Confusion: true label %d outside [0, %d)", actual, numClasses)
		}
		if pred < 0 || pred >= numClasses {
			return nil, errors.Newf("metrics.Confusion: predicted label %d outside [0, %d)", pred, numClasses)
		}
		counts[pred][actual]++
	}

	return &ConfusionMatrix{counts: counts, total: len(yTrue)}, nil
}

// At returns the number of records with the given predicted and true class.
func (cm *ConfusionMatrix) At(predicted, actual int) int {
	return cm.counts[predicted][actual]
}

// NumClasses returns the matrix dimension.
func (cm *ConfusionMatrix) NumClasses() int {
	return len(cm.counts)
}

// Total returns the number of scored records.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Accuracy returns the fraction of records with predicted == true.
func (cm *ConfusionMatrix) Accuracy() float64 {
	correct := 0
	for i := range cm.counts {
		correct += cm.counts[i][i]
	}
	return float64(correct) / float64(cm.total)
}

// ErrorRate returns the misclassification rate, 1 - Accuracy.
func (cm *ConfusionMatrix) ErrorRate() float64 {
	return 1 - cm.Accuracy()
}

// Recall returns the fraction of records of the given class that were
// predicted correctly, or 0 when the class has no records.
func (cm *ConfusionMatrix) Recall(class int) float64 {
	total := 0
	for pred := range cm.counts {
		total += cm.counts[pred][class]
	}
	if total == 0 {
		return 0
	}
	return float64(cm.counts[class][class]) / float64(total)
}

// MisclassificationRate scores predicted against true labels and returns the
// fraction of records where they disagree. Pure function of its inputs.
func MisclassificationRate(yTrue, yPred []int, numClasses int) (float64, error) {
	cm, err := Confusion(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}
	return cm.ErrorRate(), nil
}
