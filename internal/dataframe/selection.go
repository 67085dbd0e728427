package dataframe

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/salesreport/internal/series"
)

// WhereEquals returns the rows whose string column equals value. Null
// entries never match.
func (df *DataFrame) WhereEquals(column, value string) (*roaring.Bitmap, error) {
	values, valid, err := df.Strings("WhereEquals", column)
	if err != nil {
		return nil, err
	}

	rows := roaring.New()
	for i, v := range values {
		if valid[i] && v == value {
			rows.Add(uint32(i)) //nolint:gosec // row counts fit in uint32
		}
	}
	return rows, nil
}

// WhereFloatEquals returns the rows whose numeric column equals value.
func (df *DataFrame) WhereFloatEquals(column string, value float64) (*roaring.Bitmap, error) {
	values, valid, err := df.Float64s("WhereFloatEquals", column)
	if err != nil {
		return nil, err
	}

	rows := roaring.New()
	for i, v := range values {
		if valid[i] && v == value {
			rows.Add(uint32(i)) //nolint:gosec // row counts fit in uint32
		}
	}
	return rows, nil
}

// Filter materializes the selected rows into a new DataFrame, keeping row
// order. Rows outside [0, Len) are ignored.
func (df *DataFrame) Filter(rows *roaring.Bitmap) *DataFrame {
	indices := make([]int, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		idx := int(it.Next())
		if idx < df.Len() {
			indices = append(indices, idx)
		}
	}

	filtered := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		filtered = append(filtered, takeSeries(name, df.columns[name], indices, df.mem))
	}
	return df.derive(filtered...)
}

// takeSeries copies the given rows of s, preserving nulls.
func takeSeries(name string, s ISeries, indices []int, mem memory.Allocator) ISeries {
	arr := s.Array()
	defer arr.Release()

	valid := make([]bool, len(indices))
	for i, idx := range indices {
		valid[i] = arr.IsValid(idx)
	}

	switch typedArr := arr.(type) {
	case *array.String:
		return series.NewNullable(name, takeValues[string](typedArr, indices), valid, mem)
	case *array.Int64:
		return series.NewNullable(name, takeValues[int64](typedArr, indices), valid, mem)
	case *array.Float64:
		return series.NewNullable(name, takeValues[float64](typedArr, indices), valid, mem)
	case *array.Boolean:
		return series.NewNullable(name, takeValues[bool](typedArr, indices), valid, mem)
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}
}

type valueArray[T any] interface {
	arrow.Array
	Value(i int) T
}

func takeValues[T any](arr valueArray[T], indices []int) []T {
	values := make([]T, len(indices))
	for i, idx := range indices {
		if arr.IsValid(idx) {
			values[i] = arr.Value(idx)
		}
	}
	return values
}
