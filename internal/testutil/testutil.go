// Package testutil provides common testing utilities shared by the report
// pipeline tests.
//
// It consolidates the patterns every analysis test needs:
// - Memory allocator setup with leak checking
// - A standard sales table with the full input schema
// - Common DataFrame assertions
package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/salesreport/internal/dataframe"
	"github.com/paveg/salesreport/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 8
)

// SalesColumns lists the columns of the standard sales table in file order.
var SalesColumns = []string{
	"CustomerID", "Gender", "Age", "Country", "PaymentMethod", "Product",
	"DeliveryTimeDays", "Quantity", "OrderID", "Category", "Warehouse",
	"Supplier", "Views", "AdSource", "Clicks", "ReturnStatus", "Rating",
}

// TestMemoryContext provides a checked memory allocator.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every allocation made through the context was freed.
func (tmc *TestMemoryContext) Release() {
	tmc.tb.Helper()
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a leak-checking allocator for tests.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
}

// WithNulls blanks AdSource on every fourth row starting at row 1 and Rating
// on every eighth row starting at row 7.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// sale is one row of the base sample; rows cycle through it.
type sale struct {
	gender, country, payment, product      string
	age, delivery, quantity, views, clicks int64
	category, warehouse, supplier          string
	adSource, status                       string
	rating                                 float64
}

var baseSales = []sale{
	{"F", "Germany", "Card", "Laptop", 34, 3, 2, 120, 14, "Electronics", "Berlin", "SupplierA", "Google", "Returned", 4.5},
	{"M", "France", "PayPal", "Mouse", 45, 2, 5, 80, 9, "Accessories", "Paris", "SupplierB", "Facebook", "Not Returned", 3.8},
	{"F", "Germany", "Card", "Desk", 29, 5, 1, 60, 4, "Furniture", "Berlin", "SupplierA", "TV", "Not Returned", 5.0},
	{"M", "Spain", "Cash", "Laptop", 52, 4, 3, 150, 20, "Electronics", "Madrid", "SupplierC", "Google", "Not Returned", 4.2},
	{"F", "France", "Card", "Mouse", 38, 1, 4, 90, 11, "Accessories", "Paris", "SupplierB", "Instagram", "Returned", 5.0},
	{"M", "Spain", "PayPal", "Chair", 41, 6, 2, 70, 6, "Furniture", "Madrid", "SupplierC", "TV", "Not Returned", 3.5},
	{"F", "Germany", "Cash", "Monitor", 23, 2, 6, 200, 25, "Electronics", "Berlin", "SupplierA", "Facebook", "Returned", 4.8},
	{"M", "France", "Card", "Keyboard", 60, 3, 1, 40, 3, "Accessories", "Paris", "SupplierB", "Google", "Not Returned", 4.0},
}

// CreateSalesDataFrame creates the standard sales table with every input
// column. With the default eight rows:
//
//   - Quantity by Product: Laptop 5, Mouse 9, Desk 1, Chair 2, Monitor 6, Keyboard 1
//   - Quantity by Category: Electronics 11, Accessories 10, Furniture 3
//   - Returned rows: 0, 4 and 6 (SupplierA 8 of 9, SupplierB 4 of 10, SupplierC 0 of 5)
//   - Maximum Rating 5.0 on rows 2 (Desk) and 4 (Mouse)
func CreateSalesDataFrame(allocator memory.Allocator, opts ...TestDataFrameOption) *dataframe.DataFrame {
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	n := cfg.rowCount
	var (
		customerIDs, genders, countries, payments, products = make([]string, n), make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		orderIDs, categories, warehouses, suppliers         = make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		adSources, statuses                                 = make([]string, n), make([]string, n)
		ages, deliveries, quantities, views, clicks         = make([]int64, n), make([]int64, n), make([]int64, n), make([]int64, n), make([]int64, n)
		ratings                                             = make([]float64, n)
		adSourceValid, ratingValid                          = make([]bool, n), make([]bool, n)
	)

	for i := range n {
		s := baseSales[i%len(baseSales)]
		customerIDs[i] = fmt.Sprintf("C%03d", i+1)
		orderIDs[i] = fmt.Sprintf("O%04d", 1001+i)
		genders[i], countries[i], payments[i], products[i] = s.gender, s.country, s.payment, s.product
		categories[i], warehouses[i], suppliers[i] = s.category, s.warehouse, s.supplier
		adSources[i], statuses[i] = s.adSource, s.status
		ages[i], deliveries[i], quantities[i] = s.age, s.delivery, s.quantity
		views[i], clicks[i], ratings[i] = s.views, s.clicks, s.rating

		adSourceValid[i] = !cfg.includeNulls || i%4 != 1
		ratingValid[i] = !cfg.includeNulls || i%8 != 7
	}

	return dataframe.NewWithAllocator(allocator,
		series.New("CustomerID", customerIDs, allocator),
		series.New("Gender", genders, allocator),
		series.New("Age", ages, allocator),
		series.New("Country", countries, allocator),
		series.New("PaymentMethod", payments, allocator),
		series.New("Product", products, allocator),
		series.New("DeliveryTimeDays", deliveries, allocator),
		series.New("Quantity", quantities, allocator),
		series.New("OrderID", orderIDs, allocator),
		series.New("Category", categories, allocator),
		series.New("Warehouse", warehouses, allocator),
		series.New("Supplier", suppliers, allocator),
		series.New("Views", views, allocator),
		series.NewNullable("AdSource", adSources, adSourceValid, allocator),
		series.New("Clicks", clicks, allocator),
		series.New("ReturnStatus", statuses, allocator),
		series.NewNullable("Rating", ratings, ratingValid, allocator),
	)
}

// WriteSalesCSV writes the standard sales table to dir/name as CSV, with
// nulls as empty cells, and returns the file path.
func WriteSalesCSV(tb testing.TB, dir, name string, opts ...TestDataFrameOption) string {
	tb.Helper()

	df := CreateSalesDataFrame(memory.NewGoAllocator(), opts...)
	defer df.Release()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(tb, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(tb, w.Write(df.Columns()))
	for row := range df.Len() {
		record := make([]string, 0, df.Width())
		for _, column := range df.Columns() {
			col, _ := df.Column(column)
			record = append(record, col.GetAsString(row))
		}
		require.NoError(tb, w.Write(record))
	}
	w.Flush()
	require.NoError(tb, w.Error())
	return path
}

// AssertDataFrameHasColumns verifies that a DataFrame has exactly the
// expected columns, in order.
func AssertDataFrameHasColumns(t *testing.T, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Equal(t, expectedColumns, df.Columns(), "columns should match")
}

// AssertColumnStrings verifies the rendered values of a column, with nulls
// rendered as the empty string.
func AssertColumnStrings(t *testing.T, df *dataframe.DataFrame, column string, expected []string) {
	t.Helper()

	col, ok := df.Column(column)
	require.True(t, ok, "DataFrame should have column %s", column)

	actual := make([]string, col.Len())
	for i := range actual {
		actual[i] = col.GetAsString(i)
	}
	assert.Equal(t, expected, actual, "column %s values should match", column)
}
