package report

import (
	"strconv"
	"strings"

	"github.com/paveg/salesreport/internal/analysis"
	"github.com/paveg/salesreport/internal/dataframe"
)

// Percent is a cell holding a percentage.
type Percent float64

// Table is one text report, rendered to the console and to a workbook sheet.
// Cells are string, int, float64 or Percent.
type Table struct {
	Title  string
	Sheet  string // workbook sheet name, at most 31 characters
	Header []string
	Rows   [][]any
	Notes  []string // lines printed under the table
}

func aggregationTable(title, sheet string, agg *dataframe.Aggregation) Table {
	t := Table{Title: title, Sheet: sheet, Header: []string{agg.KeyColumn, agg.ValueColumn}}
	for _, e := range agg.Entries {
		t.Rows = append(t.Rows, []any{e.Key, e.Value})
	}
	return t
}

func missingTable(r *analysis.MissingReport) Table {
	t := Table{
		Title:  "Missing values per column",
		Sheet:  "Missing Values",
		Header: []string{"Column", "Missing"},
		Notes: []string{
			"Categorical columns: " + joinNames(r.Categorical),
			"Numerical columns: " + joinNames(r.Numerical),
		},
	}
	for _, c := range r.Columns {
		t.Rows = append(t.Rows, []any{c.Column, c.Nulls})
	}
	return t
}

func topProductsTable(r *analysis.SalesReport) Table {
	return aggregationTable("Top products by quantity", "Top Products", r.TopProducts)
}

func categoriesTable(r *analysis.SalesReport) Table {
	return aggregationTable("Top categories by quantity", "Top Categories", r.Categories)
}

func highestRatedTable(r *analysis.SalesReport) Table {
	t := Table{
		Title:  "Products with highest rating",
		Sheet:  "Highest Rated",
		Header: []string{"Row", analysis.ColProduct, analysis.ColRating},
	}
	for _, p := range r.HighestRated {
		t.Rows = append(t.Rows, []any{p.Row, p.Product, p.Rating})
	}
	return t
}

func returnedByProductTable(r *analysis.ReturnsReport) Table {
	return aggregationTable("Returned quantity per product", "Returned by Product", r.ByProduct)
}

func returnedByCategoryTable(r *analysis.ReturnsReport) Table {
	return aggregationTable("Returned quantity per category", "Returned by Category", r.ByCategory)
}

func returnRateTable(r *analysis.ReturnsReport) Table {
	t := Table{
		Title:  "Return rate per Supplier (%)",
		Sheet:  "Return Rate by Supplier",
		Header: []string{analysis.ColSupplier, "ReturnRate"},
	}
	for _, e := range r.RateBySupplier.Entries {
		t.Rows = append(t.Rows, []any{e.Key, Percent(e.Value)})
	}
	return t
}

func viewsByAdSourceTable(r *analysis.EngagementReport) Table {
	return aggregationTable("Total Views per AdSource", "Views by AdSource", r.ViewsByAdSource)
}

// formatCell renders a cell for the console.
func formatCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case Percent:
		return strconv.FormatFloat(float64(c), 'f', 2, 64)
	default:
		return ""
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
