package analysis

import (
	"math"

	"github.com/paveg/salesreport/internal/dataframe"
)

// RatedProduct is one row carrying the maximum Rating.
type RatedProduct struct {
	Row     int
	Product string
	Rating  float64
}

// SalesReport holds the product and category rankings.
type SalesReport struct {
	TopProducts  *dataframe.Aggregation // descending, at most TopN entries
	Categories   *dataframe.Aggregation // descending, every category
	MaxRating    float64
	HighestRated []RatedProduct // row order
}

// AnalyzeSales ranks products and categories by summed Quantity and finds
// the rows with the highest Rating.
func AnalyzeSales(sales *dataframe.DataFrame, opts Options) (*SalesReport, error) {
	if err := sales.Require("AnalyzeSales", ColProduct, ColCategory, ColQuantity, ColRating); err != nil {
		return nil, err
	}

	topProducts, err := rankedSum(sales, ColProduct, opts.TopN)
	if err != nil {
		return nil, err
	}
	categories, err := rankedSum(sales, ColCategory, -1)
	if err != nil {
		return nil, err
	}

	maxRating, rated, err := highestRated(sales)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		TopProducts:  topProducts,
		Categories:   categories,
		MaxRating:    maxRating,
		HighestRated: rated,
	}, nil
}

// rankedSum sums Quantity by key and orders the groups by descending total.
// A negative limit keeps every group.
func rankedSum(df *dataframe.DataFrame, key string, limit int) (*dataframe.Aggregation, error) {
	gb, err := df.GroupBy(key)
	if err != nil {
		return nil, err
	}
	totals, err := gb.Sum(ColQuantity)
	if err != nil {
		return nil, err
	}
	ranked := totals.SortDescending()
	if limit >= 0 {
		ranked = ranked.Head(limit)
	}
	return ranked, nil
}

// highestRated selects every row whose Rating equals the maximum. Null
// ratings never match; a table without ratings yields no rows.
func highestRated(sales *dataframe.DataFrame) (float64, []RatedProduct, error) {
	ratings, valid, err := sales.Float64s("AnalyzeSales", ColRating)
	if err != nil {
		return 0, nil, err
	}

	maxRating := math.Inf(-1)
	for i, r := range ratings {
		if valid[i] && r > maxRating {
			maxRating = r
		}
	}
	if math.IsInf(maxRating, -1) {
		return 0, []RatedProduct{}, nil
	}

	rows, err := sales.WhereFloatEquals(ColRating, maxRating)
	if err != nil {
		return 0, nil, err
	}

	product, _ := sales.Column(ColProduct)
	rated := make([]RatedProduct, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		row := int(it.Next())
		rated = append(rated, RatedProduct{Row: row, Product: product.GetAsString(row), Rating: maxRating})
	}
	return maxRating, rated, nil
}
