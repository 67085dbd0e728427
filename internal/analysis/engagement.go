package analysis

import (
	"github.com/paveg/salesreport/internal/dataframe"
)

// CorrelationMatrix is a symmetric matrix of Pearson coefficients with a
// unit diagonal.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient of two named columns.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// EngagementReport relates ad engagement to sold quantity.
type EngagementReport struct {
	Clicks          []float64 // rows with both Clicks and Quantity
	Quantity        []float64
	Fit             Fit
	Correlation     *CorrelationMatrix
	ViewsByAdSource *dataframe.Aggregation // natural AdSource order
}

// AnalyzeEngagement fits Quantity against Clicks, correlates the numeric
// engagement columns and sums Views per AdSource. The sales projection is
// expected to have its AdSource nulls filled already.
func AnalyzeEngagement(sales *dataframe.DataFrame) (*EngagementReport, error) {
	required := append([]string{ColAdSource}, CorrelationColumns...)
	if err := sales.Require("AnalyzeEngagement", required...); err != nil {
		return nil, err
	}

	clicks, clicksValid, err := sales.Float64s("AnalyzeEngagement", ColClicks)
	if err != nil {
		return nil, err
	}
	quantity, quantityValid, err := sales.Float64s("AnalyzeEngagement", ColQuantity)
	if err != nil {
		return nil, err
	}
	x, y := pairwiseComplete(clicks, clicksValid, quantity, quantityValid)
	fit := linearFit(x, y)
	if !fit.Defined {
		log.Warningf("no regression line for %s vs %s: %d usable rows", ColClicks, ColQuantity, fit.Points)
	}

	corr, err := Correlate(sales, CorrelationColumns...)
	if err != nil {
		return nil, err
	}

	byAdSource, err := sales.GroupBy(ColAdSource)
	if err != nil {
		return nil, err
	}
	views, err := byAdSource.Sum(ColViews)
	if err != nil {
		return nil, err
	}

	return &EngagementReport{
		Clicks:          x,
		Quantity:        y,
		Fit:             fit,
		Correlation:     corr,
		ViewsByAdSource: views,
	}, nil
}

// Correlate computes the Pearson correlation matrix of numeric columns over
// pairwise-complete rows. Undefined coefficients are reported as 0.
func Correlate(df *dataframe.DataFrame, columns ...string) (*CorrelationMatrix, error) {
	type column struct {
		values []float64
		valid  []bool
	}
	data := make([]column, len(columns))
	for i, name := range columns {
		values, valid, err := df.Float64s("Correlate", name)
		if err != nil {
			return nil, err
		}
		data[i] = column{values, valid}
	}

	matrix := make([][]float64, len(columns))
	for i := range matrix {
		matrix[i] = make([]float64, len(columns))
		matrix[i][i] = 1
	}
	for i := range columns {
		for j := i + 1; j < len(columns); j++ {
			x, y := pairwiseComplete(data[i].values, data[i].valid, data[j].values, data[j].valid)
			r := pearson(x, y)
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}

	return &CorrelationMatrix{Columns: append([]string(nil), columns...), Values: matrix}, nil
}
