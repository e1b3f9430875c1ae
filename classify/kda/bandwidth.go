package kda

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/benchlab/classbench/pkg/errors"
)

// BandwidthRule selects how the per-class bandwidth matrix of the Gaussian
// kernel estimate is chosen from the training data.
type BandwidthRule int

const (
	// RulePlugin is the normal-scale plug-in rule.
	RulePlugin BandwidthRule = iota
	// RuleLSCV minimizes the least-squares cross-validation criterion.
	RuleLSCV
	// RuleSCV minimizes the smoothed cross-validation criterion.
	RuleSCV
)

// String returns the rule name used in variant labels.
func (r BandwidthRule) String() string {
	switch r {
	case RulePlugin:
		return "plugin"
	case RuleLSCV:
		return "lscv"
	case RuleSCV:
		return "scv"
	default:
		return "unknown"
	}
}

// Rules is the full set of supported bandwidth rules in canonical order.
var Rules = []BandwidthRule{RulePlugin, RuleLSCV, RuleSCV}

// scaleGrid holds the multipliers applied to the plug-in matrix when
// minimizing the LSCV and SCV criteria. Candidates are evaluated in order
// and ties keep the first, so selection is deterministic.
var scaleGrid = []float64{0.0625, 0.125, 0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4, 6, 8}

// bandwidthFor computes the bandwidth matrix for the given rule from the
// rows of x.
func bandwidthFor(rule BandwidthRule, x *mat.Dense) (*mat.SymDense, error) {
	switch rule {
	case RulePlugin:
		return pluginBandwidth(x)
	case RuleLSCV:
		return lscvBandwidth(x)
	case RuleSCV:
		return scvBandwidth(x)
	default:
		return nil, errors.NewConfigurationError("bandwidthRule", "unknown rule", int(rule))
	}
}

// pluginBandwidth is the normal-scale plug-in rule:
// H = (4/(d+2))^(2/(d+4)) n^(-2/(d+4)) S.
func pluginBandwidth(x *mat.Dense) (*mat.SymDense, error) {
	n, d := x.Dims()
	s, err := covariance(x)
	if err != nil {
		return nil, err
	}
	factor := math.Pow(4/(float64(d)+2), 2/(float64(d)+4)) *
		math.Pow(float64(n), -2/(float64(d)+4))
	return scaleSym(s, factor), nil
}

// lscvBandwidth minimizes the least-squares cross-validation criterion over
// scalings of the plug-in matrix.
func lscvBandwidth(x *mat.Dense) (*mat.SymDense, error) {
	pilot, err := pluginBandwidth(x)
	if err != nil {
		return nil, err
	}

	var best *mat.SymDense
	bestCrit := math.Inf(1)
	for _, c := range scaleGrid {
		h := scaleSym(pilot, c)
		crit, err := lscvCriterion(x, h)
		if err != nil {
			return nil, err
		}
		if crit < bestCrit {
			bestCrit = crit
			best = h
		}
	}
	if best == nil {
		return nil, errors.NewValueError("kda.lscvBandwidth", "criterion undefined for all candidates")
	}
	return best, nil
}

// lscvCriterion evaluates
// (1/n²) ΣΣ φ_{2H}(xi−xj) − (2/(n(n−1))) Σ_{i≠j} φ_H(xi−xj),
// using the closed-form convolution of Gaussian kernels.
func lscvCriterion(x *mat.Dense, h *mat.SymDense) (float64, error) {
	n, d := x.Dims()

	kern2H, err := zeroMeanNormal(scaleSym(h, 2))
	if err != nil {
		return 0, err
	}
	kernH, err := zeroMeanNormal(h)
	if err != nil {
		return 0, err
	}

	diff := make([]float64, d)
	sum2H := float64(n) * math.Exp(kern2H.LogProb(make([]float64, d))) // i == j terms
	sumH := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rowDiff(diff, x, i, j)
			sum2H += 2 * math.Exp(kern2H.LogProb(diff))
			sumH += 2 * math.Exp(kernH.LogProb(diff))
		}
	}

	nf := float64(n)
	return sum2H/(nf*nf) - 2*sumH/(nf*(nf-1)), nil
}

// scvBandwidth minimizes the smoothed cross-validation criterion, with the
// plug-in matrix as the pilot, over scalings of that same matrix.
func scvBandwidth(x *mat.Dense) (*mat.SymDense, error) {
	pilot, err := pluginBandwidth(x)
	if err != nil {
		return nil, err
	}

	var best *mat.SymDense
	bestCrit := math.Inf(1)
	for _, c := range scaleGrid {
		h := scaleSym(pilot, c)
		crit, err := scvCriterion(x, h, pilot)
		if err != nil {
			return nil, err
		}
		if crit < bestCrit {
			bestCrit = crit
			best = h
		}
	}
	if best == nil {
		return nil, errors.NewValueError("kda.scvBandwidth", "criterion undefined for all candidates")
	}
	return best, nil
}

// scvCriterion evaluates
// n⁻¹(4π)^(−d/2)|H|^(−1/2) +
// (1/(n(n−1))) Σ_{i≠j} [φ_{2H+2G} − 2φ_{H+2G} + φ_{2G}](xi−xj),
// where G is the pilot bandwidth.
func scvCriterion(x *mat.Dense, h, g *mat.SymDense) (float64, error) {
	n, d := x.Dims()

	var chol mat.Cholesky
	if !chol.Factorize(h) {
		return 0, errors.NewValueError("kda.scvCriterion", "bandwidth matrix is not positive definite")
	}
	lead := math.Exp(-0.5*chol.LogDet()) * math.Pow(4*math.Pi, -float64(d)/2) / float64(n)

	g2 := scaleSym(g, 2)
	kernA, err := zeroMeanNormal(addSym(scaleSym(h, 2), g2))
	if err != nil {
		return 0, err
	}
	kernB, err := zeroMeanNormal(addSym(h, g2))
	if err != nil {
		return 0, err
	}
	kernC, err := zeroMeanNormal(g2)
	if err != nil {
		return 0, err
	}

	diff := make([]float64, d)
	pairSum := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rowDiff(diff, x, i, j)
			term := math.Exp(kernA.LogProb(diff)) -
				2*math.Exp(kernB.LogProb(diff)) +
				math.Exp(kernC.LogProb(diff))
			pairSum += 2 * term
		}
	}

	nf := float64(n)
	return lead + pairSum/(nf*(nf-1)), nil
}

// covariance computes the sample covariance of the rows of x with a small
// ridge so the result stays positive definite even for nearly collinear
// data.
func covariance(x *mat.Dense) (*mat.SymDense, error) {
	n, d := x.Dims()
	if n < 2 {
		return nil, errors.NewValueError("kda.covariance", "need at least 2 records to estimate a covariance")
	}

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x.At(i, j)
		}
		means[j] = sum / float64(n)
	}

	s := mat.NewSymDense(d, nil)
	for a := 0; a < d; a++ {
		for b := a; b < d; b++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += (x.At(i, a) - means[a]) * (x.At(i, b) - means[b])
			}
			s.SetSym(a, b, sum/float64(n-1))
		}
	}

	trace := 0.0
	for a := 0; a < d; a++ {
		trace += s.At(a, a)
	}
	ridge := 1e-9 * trace / float64(d)
	if ridge <= 0 {
		ridge = 1e-12
	}
	for a := 0; a < d; a++ {
		s.SetSym(a, a, s.At(a, a)+ridge)
	}
	return s, nil
}

func zeroMeanNormal(sigma *mat.SymDense) (*distmv.Normal, error) {
	d := sigma.SymmetricDim()
	normal, ok := distmv.NewNormal(make([]float64, d), sigma, nil)
	if !ok {
		return nil, errors.NewValueError("kda", "bandwidth matrix is not positive definite")
	}
	return normal, nil
}

func scaleSym(a *mat.SymDense, f float64) *mat.SymDense {
	d := a.SymmetricDim()
	out := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			out.SetSym(i, j, f*a.At(i, j))
		}
	}
	return out
}

func addSym(a, b *mat.SymDense) *mat.SymDense {
	d := a.SymmetricDim()
	out := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			out.SetSym(i, j, a.At(i, j)+b.At(i, j))
		}
	}
	return out
}

func rowDiff(dst []float64, x *mat.Dense, i, j int) {
	ri := x.RawRowView(i)
	rj := x.RawRowView(j)
	for k := range dst {
		dst[k] = ri[k] - rj[k]
	}
}
