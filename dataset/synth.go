package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/pkg/errors"
)

// GaussianClass describes one synthetic class: a center in predictor space
// and an isotropic standard deviation around it.
type GaussianClass struct {
	Name   string
	Mean   []float64
	StdDev float64
	Count  int
}

// Synthesize draws records from per-class isotropic Gaussians. It is used by
// tests and examples to build datasets with a known amount of separation.
// Deterministic for a given seed.
func Synthesize(classes []GaussianClass, seed int64) (*Dataset, error) {
	if len(classes) < 2 {
		return nil, errors.NewValueError("dataset.Synthesize", "need at least 2 classes")
	}
	dims := len(classes[0].Mean)
	total := 0
	for _, c := range classes {
		if len(c.Mean) != dims {
			return nil, errors.NewDimensionError("dataset.Synthesize", dims, len(c.Mean), 1)
		}
		if c.Count < 1 {
			return nil, errors.NewValueError("dataset.Synthesize", "each class needs at least one record")
		}
		total += c.Count
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	x := mat.NewDense(total, dims, nil)
	y := make([]int, total)
	names := make([]string, len(classes))

	row := 0
	for ci, c := range classes {
		names[ci] = c.Name
		for i := 0; i < c.Count; i++ {
			for j := 0; j < dims; j++ {
				x.Set(row, j, c.Mean[j]+rng.NormFloat64()*c.StdDev)
			}
			y[row] = ci
			row++
		}
	}

	return New(x, y, names)
}
