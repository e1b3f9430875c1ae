// Package dataset holds labeled numeric data and the stratified train/test
// partitioning used by the benchmark harness.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/pkg/errors"
)

// Dataset is an ordered collection of labeled records: X holds one row of
// numeric predictors per record, Y the class index of each record, and
// Classes the human-readable name for each class index. A Dataset is
// immutable once constructed; models borrow it read-only.
type Dataset struct {
	X       *mat.Dense
	Y       []int
	Classes []string
}

// New validates and assembles a Dataset. Every label must be a valid index
// into classes.
func New(X *mat.Dense, y []int, classes []string) (*Dataset, error) {
	if X == nil {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	rows, _ := X.Dims()
	if rows == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != rows {
		return nil, errors.NewDimensionError("dataset.New", rows, len(y), 0)
	}
	if len(classes) < 2 {
		return nil, errors.NewValueError("dataset.New", "need at least 2 classes")
	}
	for i, label := range y {
		if label < 0 || label >= len(classes) {
			return nil, errors.Newf("dataset.New: record %d has label %d outside [0, %d)", i, label, len(classes))
		}
	}
	return &Dataset{X: X, Y: y, Classes: classes}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	rows, _ := d.X.Dims()
	return rows
}

// NumFeatures returns the number of predictor columns.
func (d *Dataset) NumFeatures() int {
	_, cols := d.X.Dims()
	return cols
}

// NumClasses returns the cardinality of the class set.
func (d *Dataset) NumClasses() int {
	return len(d.Classes)
}

// ClassCounts returns the number of records per class index.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, len(d.Classes))
	for _, label := range d.Y {
		counts[label]++
	}
	return counts
}

// Subset copies the records at the given row indices into a new Dataset
// sharing the class set. The receiver is left untouched.
func (d *Dataset) Subset(indices []int) *Dataset {
	_, cols := d.X.Dims()
	x := mat.NewDense(len(indices), cols, nil)
	y := make([]int, len(indices))
	for i, idx := range indices {
		x.SetRow(i, d.X.RawRowView(idx))
		y[i] = d.Y[idx]
	}
	return &Dataset{X: x, Y: y, Classes: d.Classes}
}
