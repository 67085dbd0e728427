package analysis

import "github.com/paveg/salesreport/internal/dataframe"

// MissingReport is the per-column null count of the loaded table together
// with the categorical/numerical column split.
type MissingReport struct {
	Columns     []dataframe.ColumnNulls
	Categorical []string
	Numerical   []string
}

// Total returns the number of null cells in the table.
func (r *MissingReport) Total() int {
	total := 0
	for _, c := range r.Columns {
		total += c.Nulls
	}
	return total
}

// MissingValues counts the nulls of every column in table column order.
func MissingValues(df *dataframe.DataFrame) *MissingReport {
	categorical, numerical := df.ColumnKinds()
	return &MissingReport{
		Columns:     df.NullCounts(),
		Categorical: categorical,
		Numerical:   numerical,
	}
}
