// Package dataframe provides the in-memory columnar table the report
// pipeline reads from. Columns are Arrow arrays; a DataFrame is never
// mutated in place, every transformation returns a new DataFrame that holds
// its own references to the underlying arrays.
package dataframe

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/salesreport/internal/errors"
	"github.com/paveg/salesreport/internal/series"
)

// ISeries is one named column. Implementations own an Arrow array and are
// released by the DataFrame that holds them.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	Array() arrow.Array
	IsNull(index int) bool
	NullCount() int
	GetAsString(index int) string
	String() string
	Release()
}

// DataFrame represents a table of data with typed columns
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
	mem     memory.Allocator
}

// ColumnNulls is the null count of one column.
type ColumnNulls struct {
	Column string
	Nulls  int
}

// New creates a new DataFrame from a slice of ISeries. The DataFrame takes
// ownership of the series.
func New(series ...ISeries) *DataFrame {
	return NewWithAllocator(memory.NewGoAllocator(), series...)
}

// NewWithAllocator is New with the allocator used for the arrays of every
// frame derived from this one.
func NewWithAllocator(mem memory.Allocator, series ...ISeries) *DataFrame {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(series))

	for _, s := range series {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &DataFrame{
		columns: columns,
		order:   order,
		mem:     mem,
	}
}

// Allocator returns the allocator derived frames allocate from.
func (df *DataFrame) Allocator() memory.Allocator {
	return df.mem
}

func (df *DataFrame) derive(series ...ISeries) *DataFrame {
	return NewWithAllocator(df.mem, series...)
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	series, exists := df.columns[name]
	return series, exists
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Require returns a schema error naming the first absent column.
func (df *DataFrame) Require(op string, names ...string) error {
	for _, name := range names {
		if !df.HasColumn(name) {
			return errors.NewColumnNotFoundError(op, name)
		}
	}
	return nil
}

// Project returns a new DataFrame holding only the named columns, in the
// order given. The projection keeps its own references to the column data,
// so releasing either frame leaves the other intact.
func (df *DataFrame) Project(names ...string) (*DataFrame, error) {
	if err := df.Require("Project", names...); err != nil {
		return nil, err
	}

	projected := make([]ISeries, 0, len(names))
	for _, name := range names {
		projected = append(projected, shareSeries(name, df.columns[name]))
	}
	return df.derive(projected...), nil
}

// WithColumn returns a new DataFrame where s replaces the column of the same
// name, or is appended when no such column exists. The new frame takes
// ownership of s.
func (df *DataFrame) WithColumn(s ISeries) *DataFrame {
	result := make([]ISeries, 0, len(df.order)+1)
	replaced := false
	for _, name := range df.order {
		if name == s.Name() {
			result = append(result, s)
			replaced = true
			continue
		}
		result = append(result, shareSeries(name, df.columns[name]))
	}
	if !replaced {
		result = append(result, s)
	}
	return df.derive(result...)
}

// FillNull returns a new DataFrame in which every null of the given string
// column is replaced by value, and the number of substituted entries.
func (df *DataFrame) FillNull(column, value string) (*DataFrame, int, error) {
	values, valid, err := df.Strings("FillNull", column)
	if err != nil {
		return nil, 0, err
	}

	filled := 0
	for i, ok := range valid {
		if !ok {
			values[i] = value
			filled++
		}
	}

	s := series.New(column, values, df.mem)
	return df.WithColumn(s), filled, nil
}

// NullCounts reports the number of null entries per column, in column order.
func (df *DataFrame) NullCounts() []ColumnNulls {
	counts := make([]ColumnNulls, 0, len(df.order))
	for _, name := range df.order {
		counts = append(counts, ColumnNulls{Column: name, Nulls: df.columns[name].NullCount()})
	}
	return counts
}

// ColumnKinds splits the columns into categorical (string) and numerical
// (integer or floating point) names, each in column order. Boolean columns
// belong to neither set.
func (df *DataFrame) ColumnKinds() (categorical, numerical []string) {
	categorical = []string{}
	numerical = []string{}
	for _, name := range df.order {
		switch {
		case isStringType(df.columns[name].DataType()):
			categorical = append(categorical, name)
		case isNumericType(df.columns[name].DataType()):
			numerical = append(numerical, name)
		}
	}
	return categorical, numerical
}

// Strings returns the values of a string column together with its validity.
// A column of any type holding only nulls reads as all null.
func (df *DataFrame) Strings(op, column string) ([]string, []bool, error) {
	s, ok := df.columns[column]
	if !ok {
		return nil, nil, errors.NewColumnNotFoundError(op, column)
	}
	arr := s.Array()
	defer arr.Release()

	typed, ok := arr.(*array.String)
	if !ok {
		if allNull(arr) {
			return make([]string, arr.Len()), make([]bool, arr.Len()), nil
		}
		return nil, nil, errors.NewColumnTypeError(op, column, "a string column")
	}

	values := make([]string, typed.Len())
	valid := make([]bool, typed.Len())
	for i := range values {
		if typed.IsValid(i) {
			values[i] = typed.Value(i)
			valid[i] = true
		}
	}
	return values, valid, nil
}

// Float64s returns the values of a numeric column widened to float64,
// together with its validity. A column without a single value has no type
// to check and reads as all null.
func (df *DataFrame) Float64s(op, column string) ([]float64, []bool, error) {
	s, ok := df.columns[column]
	if !ok {
		return nil, nil, errors.NewColumnNotFoundError(op, column)
	}
	arr := s.Array()
	defer arr.Release()
	if !isNumericType(arr.DataType()) {
		if allNull(arr) {
			return make([]float64, arr.Len()), make([]bool, arr.Len()), nil
		}
		return nil, nil, errors.NewColumnTypeError(op, column, "numeric")
	}

	values := make([]float64, arr.Len())
	valid := make([]bool, arr.Len())
	for i := range values {
		values[i], valid[i] = numericValue(arr, i)
	}
	return values, valid, nil
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}

	for _, name := range df.order {
		series := df.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, series.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// Release releases all underlying Arrow memory
func (df *DataFrame) Release() {
	for _, series := range df.columns {
		series.Release()
	}
}

// shareSeries wraps the array of s in a new series that holds its own
// reference.
func shareSeries(name string, s ISeries) ISeries {
	arr := s.Array()
	defer arr.Release()

	switch arr.(type) {
	case *array.String:
		return series.FromArray[string](name, arr)
	case *array.Int64:
		return series.FromArray[int64](name, arr)
	case *array.Float64:
		return series.FromArray[float64](name, arr)
	case *array.Boolean:
		return series.FromArray[bool](name, arr)
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}
}

// allNull reports whether arr holds no value. A CSV column whose cells are
// all blank loads as string; an empty table has no values at all.
func allNull(arr arrow.Array) bool {
	return arr.NullN() == arr.Len()
}

func isStringType(dt arrow.DataType) bool {
	return dt.ID() == arrow.STRING
}

func isNumericType(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT64, arrow.FLOAT64:
		return true
	default:
		return false
	}
}

// numericValue extracts a numeric value as float64 from an Arrow array
func numericValue(arr arrow.Array, idx int) (float64, bool) {
	if arr.IsNull(idx) {
		return 0, false
	}
	switch typedArr := arr.(type) {
	case *array.Int64:
		return float64(typedArr.Value(idx)), true
	case *array.Float64:
		return typedArr.Value(idx), true
	default:
		return 0, false
	}
}
