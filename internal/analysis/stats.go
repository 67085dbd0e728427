package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// pairwiseComplete keeps the positions where both x and y are valid.
func pairwiseComplete(x []float64, xValid []bool, y []float64, yValid []bool) ([]float64, []float64) {
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for i := range x {
		if xValid[i] && yValid[i] {
			px = append(px, x[i])
			py = append(py, y[i])
		}
	}
	return px, py
}

// pearson is the Pearson correlation of x and y. It is 0 when the
// coefficient is undefined: fewer than two pairs or a constant input.
func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Fit is an ordinary least squares line y = Intercept + Slope·x.
type Fit struct {
	Intercept float64
	Slope     float64
	Points    int
	Defined   bool // false with fewer than two points or a constant x
}

// At evaluates the fitted line.
func (f Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

func linearFit(x, y []float64) Fit {
	fit := Fit{Points: len(x)}
	if len(x) < 2 || stat.Variance(x, nil) == 0 {
		return fit
	}
	fit.Intercept, fit.Slope = stat.LinearRegression(x, y, nil, false)
	fit.Defined = !math.IsNaN(fit.Slope) && !math.IsNaN(fit.Intercept)
	return fit
}
