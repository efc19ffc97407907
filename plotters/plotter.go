// Package plotters renders SDC solver output: the final solution trajectory
// and the per-iteration residual decay.
package plotters

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/DiMoser/PyPinT/solutions"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// PlotSolution writes the final iteration's trajectory as a PNG line plot,
// real parts per solution component. Complex-valued solutions additionally get
// their imaginary parts as dashed-named lines.
func PlotSolution(sol *solutions.Iterative, title, path string) error {
	tr, err := sol.LastSolution()
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return errors.New("plotters: empty trajectory")
	}
	times := tr.TimePoints()
	values := tr.Values()
	dim := len(values[0])

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "u(t)"

	var lines []interface{}
	for d := 0; d < dim; d++ {
		re := make(plotter.XYs, len(times))
		hasImag := false
		im := make(plotter.XYs, len(times))
		for i := range times {
			re[i].X = times[i]
			re[i].Y = real(values[i][d])
			im[i].X = times[i]
			im[i].Y = imag(values[i][d])
			if im[i].Y != 0 {
				hasImag = true
			}
		}
		lines = append(lines, lineName(dim, d, "re"), re)
		if hasImag {
			lines = append(lines, lineName(dim, d, "im"), im)
		}
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// PlotResidualDecay writes the final node's residual per iteration on a
// log10 scale.
func PlotResidualDecay(sol *solutions.Iterative, title, path string) error {
	n := sol.Iterations()
	if n == 0 {
		return errors.New("plotters: no iterations to plot")
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		tr, err := sol.Solution(i)
		if err != nil {
			return err
		}
		last, err := tr.Last()
		if err != nil {
			return err
		}
		if last.Residual <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: math.Log10(last.Residual)})
	}
	if len(pts) == 0 {
		return errors.New("plotters: no positive residuals to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10(residual)"
	if err := plotutil.AddLinePoints(p, "residual", pts); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

func lineName(dim, d int, part string) string {
	if dim == 1 {
		if part == "re" {
			return "u"
		}
		return "im(u)"
	}
	return fmt.Sprintf("u[%d] (%s)", d, part)
}
