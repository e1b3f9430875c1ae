package kda

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/benchlab/classbench/dataset"
	"github.com/benchlab/classbench/pkg/errors"
)

func gaussianData(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Synthesize([]dataset.GaussianClass{
		{Name: "a", Mean: []float64{0, 0}, StdDev: 0.7, Count: 40},
		{Name: "b", Mean: []float64{4, 0}, StdDev: 0.7, Count: 40},
		{Name: "c", Mean: []float64{2, 4}, StdDev: 0.7, Count: 40},
	}, 19)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	return d
}

func TestClassifier_FitPredict_AllRules(t *testing.T) {
	d := gaussianData(t)

	for _, rule := range Rules {
		t.Run(rule.String(), func(t *testing.T) {
			clf := New(rule)
			if err := clf.Fit(d.X, d.Y, d.NumClasses()); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			pred, err := clf.Predict(d.X)
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}

			correct := 0
			for i, p := range pred {
				if p == d.Y[i] {
					correct++
				}
			}
			// Training accuracy on well-separated Gaussians should be high
			// for every bandwidth rule.
			if acc := float64(correct) / float64(len(pred)); acc < 0.9 {
				t.Errorf("rule %s: training accuracy %v too low", rule, acc)
			}
		})
	}
}

func TestClassifier_PredictBeforeFit(t *testing.T) {
	clf := New(RulePlugin)
	_, err := clf.Predict(mat.NewDense(1, 2, []float64{0, 0}))
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestClassifier_DegenerateInput(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{0, 0, 1, 0, 0, 1, 1, 1})
	y := []int{0, 0, 0, 0}
	clf := New(RulePlugin)
	err := clf.Fit(x, y, 2)
	var degenerate *errors.DegenerateInputError
	if !errors.As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError, got %v", err)
	}
	if degenerate.Class != 1 {
		t.Errorf("expected missing class 1, got %d", degenerate.Class)
	}
}

func TestClassifier_InternalValidationError(t *testing.T) {
	d := gaussianData(t)
	clf := New(RulePlugin, WithCV(5), WithSeed(3))

	cvErr, err := clf.InternalValidationError(d.X, d.Y, d.NumClasses())
	if err != nil {
		t.Fatalf("InternalValidationError failed: %v", err)
	}
	if cvErr < 0 || cvErr > 1 {
		t.Errorf("cv error %v outside [0, 1]", cvErr)
	}
	// Separable Gaussians: the rule should beat random guessing easily.
	if cvErr > 1.0/3.0 {
		t.Errorf("cv error %v worse than chance", cvErr)
	}
}

func TestPluginBandwidth_ShrinksWithSampleSize(t *testing.T) {
	small, err := dataset.Synthesize([]dataset.GaussianClass{
		{Name: "a", Mean: []float64{0, 0}, StdDev: 1, Count: 20},
		{Name: "b", Mean: []float64{9, 9}, StdDev: 1, Count: 20},
	}, 2)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	large, err := dataset.Synthesize([]dataset.GaussianClass{
		{Name: "a", Mean: []float64{0, 0}, StdDev: 1, Count: 400},
		{Name: "b", Mean: []float64{9, 9}, StdDev: 1, Count: 400},
	}, 2)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	hSmall, err := pluginBandwidth(small.X)
	if err != nil {
		t.Fatalf("pluginBandwidth failed: %v", err)
	}
	hLarge, err := pluginBandwidth(large.X)
	if err != nil {
		t.Fatalf("pluginBandwidth failed: %v", err)
	}

	if hLarge.At(0, 0) >= hSmall.At(0, 0) {
		t.Errorf("bandwidth should shrink with more data: small %v, large %v",
			hSmall.At(0, 0), hLarge.At(0, 0))
	}
}

func TestBandwidthRules_ProducePositiveDefiniteMatrices(t *testing.T) {
	d := gaussianData(t)

	for _, rule := range Rules {
		t.Run(rule.String(), func(t *testing.T) {
			h, err := bandwidthFor(rule, d.X)
			if err != nil {
				t.Fatalf("bandwidthFor failed: %v", err)
			}
			var chol mat.Cholesky
			if !chol.Factorize(h) {
				t.Errorf("rule %s produced a non positive definite matrix", rule)
			}
			for i := 0; i < h.SymmetricDim(); i++ {
				if h.At(i, i) <= 0 || math.IsNaN(h.At(i, i)) {
					t.Errorf("rule %s: bad diagonal entry %v", rule, h.At(i, i))
				}
			}
		})
	}
}

func TestLSCVCriterion_FiniteOnRealData(t *testing.T) {
	d := gaussianData(t)
	pilot, err := pluginBandwidth(d.X)
	if err != nil {
		t.Fatalf("pluginBandwidth failed: %v", err)
	}
	crit, err := lscvCriterion(d.X, pilot)
	if err != nil {
		t.Fatalf("lscvCriterion failed: %v", err)
	}
	if math.IsNaN(crit) || math.IsInf(crit, 0) {
		t.Errorf("criterion should be finite, got %v", crit)
	}
}
