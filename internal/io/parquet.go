package io

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paveg/salesreport/internal/dataframe"
	"github.com/paveg/salesreport/internal/series"
)

// Read reads Parquet data and returns a DataFrame.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	pqReader, err := file.NewParquetReader(r.reader)
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	return r.arrowTableToDataFrame(table)
}

// arrowTableToDataFrame converts an Arrow table to a DataFrame.
func (r *ParquetReader) arrowTableToDataFrame(table arrow.Table) (*dataframe.DataFrame, error) {
	schema := table.Schema()
	seriesList := make([]dataframe.ISeries, 0, table.NumCols())

	for i := range int(table.NumCols()) {
		field := schema.Field(i)
		s, err := r.chunkedToSeries(field.Name, field.Type, table.Column(i).Data())
		if err != nil {
			for _, built := range seriesList {
				built.Release()
			}
			return nil, fmt.Errorf("converting column %s: %w", field.Name, err)
		}
		seriesList = append(seriesList, s)
	}

	return dataframe.NewWithAllocator(r.mem, seriesList...), nil
}

// chunkedToSeries flattens every chunk of a column into one series, widening
// narrower integer and float types to int64 and float64.
func (r *ParquetReader) chunkedToSeries(
	name string, dataType arrow.DataType, chunked *arrow.Chunked,
) (dataframe.ISeries, error) {
	n := chunked.Len()
	valid := make([]bool, 0, n)
	for _, chunk := range chunked.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			valid = append(valid, chunk.IsValid(i))
		}
	}

	//nolint:exhaustive // Only handling supported types
	switch dataType.ID() {
	case arrow.INT64, arrow.INT32, arrow.INT16, arrow.INT8, arrow.UINT32, arrow.UINT16, arrow.UINT8:
		values := make([]int64, 0, n)
		for _, chunk := range chunked.Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				values = append(values, intAt(chunk, i))
			}
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case arrow.FLOAT32:
		values := make([]float32, 0, n)
		for _, chunk := range chunked.Chunks() {
			values = append(values, chunk.(*array.Float32).Float32Values()...)
		}
		return series.NewFloat(name, values, valid, r.mem), nil
	case arrow.FLOAT64:
		values := make([]float64, 0, n)
		for _, chunk := range chunked.Chunks() {
			values = append(values, chunk.(*array.Float64).Float64Values()...)
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case arrow.STRING, arrow.LARGE_STRING:
		values := make([]string, 0, n)
		for _, chunk := range chunked.Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				values = append(values, chunk.ValueStr(i))
			}
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	case arrow.BOOL:
		values := make([]bool, 0, n)
		for _, chunk := range chunked.Chunks() {
			typed := chunk.(*array.Boolean)
			for i := 0; i < typed.Len(); i++ {
				values = append(values, typed.Value(i))
			}
		}
		return series.NewNullable(name, values, valid, r.mem), nil
	default:
		return nil, fmt.Errorf("unsupported Arrow type: %s", dataType)
	}
}

func intAt(arr arrow.Array, i int) int64 {
	switch typed := arr.(type) {
	case *array.Int64:
		return typed.Value(i)
	case *array.Int32:
		return int64(typed.Value(i))
	case *array.Int16:
		return int64(typed.Value(i))
	case *array.Int8:
		return int64(typed.Value(i))
	case *array.Uint32:
		return int64(typed.Value(i))
	case *array.Uint16:
		return int64(typed.Value(i))
	case *array.Uint8:
		return int64(typed.Value(i))
	default:
		return 0
	}
}
