package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paveg/salesreport/internal/dataframe"
	"github.com/paveg/salesreport/internal/series"
)

const (
	// Boolean string constants
	trueStr  = "true"
	falseStr = "false"

	boolType   = "bool"
	intType    = "int"
	floatType  = "float"
	stringType = "string"
)

// errNoHeader is returned for input without a single record.
var errNoHeader = errors.New("no header row")

// Read reads CSV data and returns a DataFrame
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, errNoHeader
	}

	var headers []string
	var dataRows [][]string

	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		// Generate default column names
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	// Transpose data to work with columns
	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := 0; i < numCols; i++ {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			columns[i][j] = row[i]
		}
	}

	seriesList := make([]dataframe.ISeries, 0, numCols)
	for i, header := range headers {
		seriesList = append(seriesList, r.createSeriesFromStrings(strings.TrimSpace(header), columns[i]))
	}

	return dataframe.NewWithAllocator(r.mem, seriesList...), nil
}

// createSeriesFromStrings creates a series from string data, inferring the appropriate type
func (r *CSVReader) createSeriesFromStrings(name string, data []string) dataframe.ISeries {
	valid := make([]bool, len(data))
	for i, value := range data {
		valid[i] = !r.isNull(value)
	}

	switch r.inferDataType(data, valid) {
	case boolType:
		values := make([]bool, len(data))
		for i, value := range data {
			values[i] = valid[i] && strings.EqualFold(value, trueStr)
		}
		return series.NewNullable(name, values, valid, r.mem)
	case intType:
		values := make([]int64, len(data))
		for i, value := range data {
			if valid[i] {
				values[i], _ = strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			}
		}
		return series.NewNullable(name, values, valid, r.mem)
	case floatType:
		values := make([]float64, len(data))
		for i, value := range data {
			if valid[i] {
				values[i], _ = strconv.ParseFloat(strings.TrimSpace(value), 64)
			}
		}
		return series.NewNullable(name, values, valid, r.mem)
	default:
		values := make([]string, len(data))
		for i, value := range data {
			if valid[i] {
				values[i] = value
			}
		}
		return series.NewNullable(name, values, valid, r.mem)
	}
}

// isNull reports whether a cell is missing.
func (r *CSVReader) isNull(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	for _, null := range r.options.NullValues {
		if trimmed == null {
			return true
		}
	}
	return false
}

// inferDataType determines the most appropriate data type for the given
// string data, looking only at non-null cells
func (r *CSVReader) inferDataType(data []string, valid []bool) string {
	canBeInt := true
	canBeFloat := true
	canBeBool := true
	hasNonEmptyValue := false

	for i, value := range data {
		if !valid[i] {
			continue
		}
		hasNonEmptyValue = true
		value = strings.TrimSpace(value)

		if canBeBool {
			lower := strings.ToLower(value)
			if lower != trueStr && lower != falseStr {
				canBeBool = false
			}
		}

		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}

		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}

		if !canBeBool && !canBeInt && !canBeFloat {
			break
		}
	}

	// An all-null column stays string; numeric readers accept it as all null.
	if !hasNonEmptyValue {
		return stringType
	}

	// Return the most specific type
	if canBeBool {
		return boolType
	}
	if canBeInt {
		return intType
	}
	if canBeFloat {
		return floatType
	}
	return stringType
}
