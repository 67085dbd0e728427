// Package io loads the sales dataset into a DataFrame.
//
// This package includes readers for the supported input formats, with
// automatic type inference and null handling. The primary implementation is
// CSV; Parquet files are read through Arrow's pqarrow bridge.
//
// Key components:
//   - DataReader interface for pluggable input formats
//   - CSVReader with per-column type inference (empty cells are nulls)
//   - ParquetReader preserving the file's schema and validity
//   - Load, which picks a reader from the file extension
//
// Memory management: every DataFrame returned here owns Arrow memory and
// must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/paveg/salesreport/internal/dataframe"
)

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// NullValues are cell contents treated as missing, besides the empty cell
	NullValues []string
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:        ',',
		Comment:          0,
		Header:           true,
		SkipInitialSpace: false,
		NullValues:       []string{"NA", "N/A", "NaN", "null", "NULL"},
	}
}

// CSVReader reads CSV data and converts it to DataFrames
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetReader reads Parquet data and converts it to DataFrames
type ParquetReader struct {
	reader parquet.ReaderAtSeeker
	mem    memory.Allocator
}

// NewParquetReader creates a new Parquet reader
func NewParquetReader(reader parquet.ReaderAtSeeker, mem memory.Allocator) *ParquetReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &ParquetReader{
		reader: reader,
		mem:    mem,
	}
}
