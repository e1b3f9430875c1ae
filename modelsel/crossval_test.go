package modelsel

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/core/model"
	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/pkg/errors"
)

// constantClassifier always predicts the same class.
type constantClassifier struct {
	class int
}

func (c *constantClassifier) Fit(X mat.Matrix, y []int, numClasses int) error {
	return nil
}

func (c *constantClassifier) Predict(X mat.Matrix) ([]int, error) {
	rows, _ := X.Dims()
	out := make([]int, rows)
	for i := range out {
		out[i] = c.class
	}
	return out, nil
}

func TestMeanCVError_ConstantClassifier(t *testing.T) {
	// 30 records of class 0, 10 of class 1. Predicting class 0 everywhere
	// misclassifies exactly the class-1 share of every stratified fold.
	x := mat.NewDense(40, 1, nil)
	y := labelsFor([]int{30, 10})
	for i := 0; i < 40; i++ {
		x.Set(i, 0, float64(i))
	}
	d, err := dataset.New(x, y, []string{"a", "b"})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}

	folds := NewStratifiedKFold(5, true, 1).Split(d.Len(), d.Y)
	got, err := MeanCVError(d, folds, func() model.Classifier {
		return &constantClassifier{class: 0}
	})
	if err != nil {
		t.Fatalf("MeanCVError failed: %v", err)
	}
	if math.Abs(got-0.25) > 1e-12 {
		t.Errorf("MeanCVError = %v, want 0.25", got)
	}
}

func TestMeanCVError_MoreFoldsThanRecords(t *testing.T) {
	// Requesting 10 folds over 3 records per class clamps to 3 folds; the
	// evaluation must complete rather than produce empty subsets.
	x := mat.NewDense(6, 1, []float64{0, 1, 2, 10, 11, 12})
	y := labelsFor([]int{3, 3})
	d, err := dataset.New(x, y, []string{"a", "b"})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}

	folds := NewStratifiedKFold(10, true, 1).Split(d.Len(), d.Y)
	got, err := MeanCVError(d, folds, func() model.Classifier {
		return &constantClassifier{class: 0}
	})
	if err != nil {
		t.Fatalf("MeanCVError failed: %v", err)
	}
	if got < 0 || got > 1 {
		t.Errorf("MeanCVError = %v, want a rate in [0, 1]", got)
	}
}

func TestMeanCVError_EmptyFoldSide(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	d, err := dataset.New(x, []int{0, 0, 1, 1}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}

	folds := []Fold{{TrainIndices: []int{0, 1, 2, 3}, TestIndices: nil}}
	_, err = MeanCVError(d, folds, func() model.Classifier {
		return &constantClassifier{}
	})
	var value *errors.ValueError
	if !errors.As(err, &value) {
		t.Errorf("expected ValueError for an empty fold side, got %v", err)
	}
}

func TestMeanCVError_NoFolds(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	d, err := dataset.New(x, []int{0, 0, 1, 1}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	if _, err := MeanCVError(d, nil, func() model.Classifier {
		return &constantClassifier{}
	}); err == nil {
		t.Error("expected error for empty fold list")
	}
}
