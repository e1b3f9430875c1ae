// Package viz renders benchmark results as charts.
package viz

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/benchlab/classbench/bench"
	"github.com/benchlab/classbench/pkg/errors"
)

// SaveErrorChart writes a grouped bar chart to path, one group per completed
// variant with its internal validation error next to its held-out test
// error. Failed variants are omitted. The format follows the file extension
// (png, svg, pdf).
func SaveErrorChart(results []bench.Result, path string) error {
	var names []string
	var cv, test plotter.Values
	for _, r := range results {
		if r.Failed() {
			continue
		}
		names = append(names, r.Variant)
		cv = append(cv, r.CVError)
		test = append(test, r.TestError)
	}
	if len(names) == 0 {
		return errors.NewValueError("viz.SaveErrorChart", "no completed variants to plot")
	}

	p := plot.New()
	p.Title.Text = "Classifier benchmark"
	p.Y.Label.Text = "misclassification rate"
	p.Y.Min = 0

	width := vg.Points(18)

	cvBars, err := plotter.NewBarChart(cv, width)
	if err != nil {
		return errors.WithStack(err)
	}
	cvBars.Offset = -width / 2
	cvBars.Color = plotutil.Color(0)

	testBars, err := plotter.NewBarChart(test, width)
	if err != nil {
		return errors.WithStack(err)
	}
	testBars.Offset = width / 2
	testBars.Color = plotutil.Color(1)

	p.Add(cvBars, testBars)
	p.Legend.Add("cross-validated", cvBars)
	p.Legend.Add("held-out test", testBars)
	p.Legend.Top = true
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
