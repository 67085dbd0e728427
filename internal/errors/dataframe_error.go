// Package errors provides the standardized error type used across the report
// pipeline. Every failure carries the operation that produced it, the column
// or path it concerns and a Kind that callers match with errors.Is.
package errors

import (
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindDataLoad marks an unreadable or unparseable input file.
	KindDataLoad Kind = iota + 1
	// KindSchema marks a required column that is absent from the table.
	KindSchema
	// KindRender marks a chart or workbook that could not be written.
	KindRender
	// KindConfig marks an invalid configuration.
	KindConfig
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindDataLoad:
		return "DataLoadError"
	case KindSchema:
		return "SchemaError"
	case KindRender:
		return "RenderError"
	case KindConfig:
		return "ConfigError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DataFrameError represents standardized errors across all pipeline operations
type DataFrameError struct {
	Kind    Kind   // Failure class, matched by errors.Is
	Op      string // Operation name (e.g., "Load", "Project", "GroupBy")
	Column  string // Column name if applicable
	Path    string // File path if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var msg string
	switch {
	case e.Column != "":
		msg = fmt.Sprintf("%s: %s operation failed on column '%s': %s", e.Kind, e.Op, e.Column, e.Message)
	case e.Path != "":
		msg = fmt.Sprintf("%s: %s operation failed on '%s': %s", e.Kind, e.Op, e.Path, e.Message)
	default:
		msg = fmt.Sprintf("%s: %s operation failed: %s", e.Kind, e.Op, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is matches kind sentinels (errors without Op) by Kind alone, and full
// errors by Kind, Op, Column and Message.
func (e *DataFrameError) Is(target error) bool {
	df, ok := target.(*DataFrameError)
	if !ok {
		return false
	}
	if df.Op == "" {
		return e.Kind == df.Kind
	}
	return e.Kind == df.Kind && e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
}

// Kind sentinels for errors.Is.
var (
	ErrDataLoad = &DataFrameError{Kind: KindDataLoad}
	ErrSchema   = &DataFrameError{Kind: KindSchema}
	ErrRender   = &DataFrameError{Kind: KindRender}
	ErrConfig   = &DataFrameError{Kind: KindConfig}
)

// NewDataLoadError creates an error for input files that cannot be read or parsed
func NewDataLoadError(op, path string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindDataLoad,
		Op:      op,
		Path:    path,
		Message: "cannot load data",
		Cause:   cause,
	}
}

// NewColumnNotFoundError creates a schema error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindSchema,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewColumnTypeError creates a schema error for a column of the wrong type
func NewColumnTypeError(op, column, want string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindSchema,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("column is not %s", want),
	}
}

// NewRenderError creates an error for artifacts that could not be written
func NewRenderError(op, path string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindRender,
		Op:      op,
		Path:    path,
		Message: "cannot write artifact",
		Cause:   cause,
	}
}

// NewConfigError creates an error for invalid configuration
func NewConfigError(op, message string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindConfig,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}
