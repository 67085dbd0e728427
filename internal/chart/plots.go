package chart

import (
	"fmt"
	"math"

	"github.com/paveg/salesreport/internal/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Group is a labelled sample, one box of a box plot.
type Group struct {
	Label  string
	Values []float64
}

// Bar draws one bar per label.
func (r *Renderer) Bar(spec Spec, labels []string, values []float64) (string, error) {
	p := r.newPlot(spec)
	if len(values) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
		if err != nil {
			return "", errors.NewRenderError("Bar", r.Path(spec), err)
		}
		bars.Color = plotutil.Color(0)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(labels...)
		tiltLabels(p, labels)
	}
	p.Y.Min = math.Min(p.Y.Min, 0)
	return r.save("Bar", p, spec)
}

// Box draws one box per group. Groups without values keep their slot on the
// axis but draw nothing.
func (r *Renderer) Box(spec Spec, groups []Group) (string, error) {
	p := r.newPlot(spec)
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(g.Values))
		if err != nil {
			return "", errors.NewRenderError("Box", r.Path(spec), err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	if len(labels) > 0 {
		p.NominalX(labels...)
	}
	return r.save("Box", p, spec)
}

// Histogram bins values into the given number of equal-width bins.
func (r *Renderer) Histogram(spec Spec, values []float64, bins int) (string, error) {
	p := r.newPlot(spec)
	if len(values) > 0 {
		hist, err := plotter.NewHist(plotter.Values(values), bins)
		if err != nil {
			return "", errors.NewRenderError("Histogram", r.Path(spec), err)
		}
		hist.FillColor = plotutil.Color(0)
		p.Add(hist)
	}
	return r.save("Histogram", p, spec)
}

// CountPlot draws grouped bars: one group per category, one coloured bar per
// hue, with counts[category][hue] as heights.
func (r *Renderer) CountPlot(spec Spec, categories, hues []string, counts [][]int) (string, error) {
	p := r.newPlot(spec)
	if len(categories) > 0 && len(hues) > 0 {
		width := vg.Points(48 / float64(len(hues)))
		for h, hue := range hues {
			heights := make(plotter.Values, len(categories))
			for c := range categories {
				heights[c] = float64(counts[c][h])
			}
			bars, err := plotter.NewBarChart(heights, width)
			if err != nil {
				return "", errors.NewRenderError("CountPlot", r.Path(spec), err)
			}
			bars.Color = plotutil.Color(h)
			bars.LineStyle.Width = vg.Length(0)
			bars.Offset = vg.Length(float64(h)-float64(len(hues)-1)/2) * width
			p.Add(bars)
			p.Legend.Add(hue, bars)
		}
		p.Legend.Top = true
		p.NominalX(categories...)
		tiltLabels(p, categories)
	}
	p.Y.Min = 0
	return r.save("CountPlot", p, spec)
}

// Scatter draws the (x, y) points and, when fit is not nil, the fitted line
// across the x range of the points.
func (r *Renderer) Scatter(spec Spec, x, y []float64, fit func(float64) float64) (string, error) {
	p := r.newPlot(spec)
	if len(x) > 0 {
		points := make(plotter.XYs, len(x))
		for i := range x {
			points[i].X = x[i]
			points[i].Y = y[i]
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return "", errors.NewRenderError("Scatter", r.Path(spec), err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(0)
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		if fit != nil {
			line := plotter.NewFunction(fit)
			line.Color = plotutil.Color(1)
			line.Width = vg.Points(2)
			line.XMin, line.XMax = minMax(x)
			p.Add(line)
		}
		p.Add(plotter.NewGrid())
	}
	return r.save("Scatter", p, spec)
}

// Heatmap draws a square matrix of values in [-1, 1] on a diverging
// blue-red palette, each cell annotated with its value. Row 0 is drawn at
// the top.
func (r *Renderer) Heatmap(spec Spec, labels []string, matrix [][]float64) (string, error) {
	p := r.newPlot(spec)
	n := len(labels)
	if n > 0 {
		colors := moreland.SmoothBlueRed()
		colors.SetMin(-1)
		colors.SetMax(1)

		grid := squareGrid{values: matrix}
		heat := plotter.NewHeatMap(grid, colors.Palette(255))
		heat.Min, heat.Max = -1, 1
		p.Add(heat)

		cells := make(plotter.XYs, 0, n*n)
		texts := make([]string, 0, n*n)
		for row := range n {
			for col := range n {
				cells = append(cells, plotter.XY{X: float64(col), Y: float64(n - 1 - row)})
				texts = append(texts, fmt.Sprintf("%.2f", matrix[row][col]))
			}
		}
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: cells, Labels: texts})
		if err != nil {
			return "", errors.NewRenderError("Heatmap", r.Path(spec), err)
		}
		for i := range annotations.TextStyle {
			annotations.TextStyle[i].XAlign = draw.XCenter
			annotations.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(annotations)

		reversed := make([]string, n)
		for i, l := range labels {
			reversed[n-1-i] = l
		}
		p.NominalX(labels...)
		p.NominalY(reversed...)
	}
	return r.save("Heatmap", p, spec)
}

// squareGrid adapts a row-major matrix to plotter.GridXYZ with row 0 at the
// top.
type squareGrid struct {
	values [][]float64
}

func (g squareGrid) Dims() (c, r int) {
	return len(g.values), len(g.values)
}

func (g squareGrid) Z(c, r int) float64 {
	return g.values[len(g.values)-1-r][c]
}

func (g squareGrid) X(c int) float64 {
	return float64(c)
}

func (g squareGrid) Y(r int) float64 {
	return float64(r)
}

// tiltLabels rotates category labels when there are many of them.
func tiltLabels(p *plot.Plot, labels []string) {
	if len(labels) <= 8 {
		return
	}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
