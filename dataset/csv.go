package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/pkg/errors"
)

// ClassMapping maps a raw encoded label value found in the file to a
// human-readable class name. The order of mappings fixes the class indices.
type ClassMapping struct {
	Raw  string
	Name string
}

// CSVConfig describes the tabular layout of an input file: one row per
// observation, an optional identifier column, one label column, and numeric
// predictors everywhere else.
type CSVConfig struct {
	HasHeader   bool
	IDColumn    int // column index to skip, -1 if absent
	LabelColumn int
	Classes     []ClassMapping
}

// ReadCSV parses labeled observations from r according to cfg.
func ReadCSV(r io.Reader, cfg CSVConfig) (*Dataset, error) {
	if len(cfg.Classes) < 2 {
		return nil, errors.NewConfigurationError("Classes", "need at least 2 class mappings", len(cfg.Classes))
	}

	rawToIndex := make(map[string]int, len(cfg.Classes))
	classNames := make([]string, len(cfg.Classes))
	for i, m := range cfg.Classes {
		rawToIndex[m.Raw] = i
		classNames[i] = m.Name
	}

	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if cfg.HasHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	var predictors []float64
	labels := make([]int, 0, len(rows))
	numFeatures := -1

	for rowIdx, row := range rows {
		var rowValues []float64
		var label int
		labelSeen := false
		for col, cell := range row {
			switch {
			case col == cfg.IDColumn:
				continue
			case col == cfg.LabelColumn:
				idx, ok := rawToIndex[cell]
				if !ok {
					return nil, errors.Newf("dataset.ReadCSV: row %d: unmapped label value %q", rowIdx, cell)
				}
				label = idx
				labelSeen = true
			default:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "dataset.ReadCSV: row %d, column %d", rowIdx, col)
				}
				rowValues = append(rowValues, v)
			}
		}
		if !labelSeen {
			return nil, errors.Newf("dataset.ReadCSV: row %d has no label column %d", rowIdx, cfg.LabelColumn)
		}
		if numFeatures == -1 {
			numFeatures = len(rowValues)
		} else if len(rowValues) != numFeatures {
			return nil, errors.NewDimensionError("dataset.ReadCSV", numFeatures, len(rowValues), 1)
		}
		predictors = append(predictors, rowValues...)
		labels = append(labels, label)
	}

	x := mat.NewDense(len(labels), numFeatures, predictors)
	return New(x, labels, classNames)
}

// LoadCSV reads a dataset from the file at path.
func LoadCSV(path string, cfg CSVConfig) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset file")
	}
	defer f.Close()
	return ReadCSV(f, cfg)
}
