package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/paveg/salesreport/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestDataFrameError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.DataFrameError
		expected string
	}{
		{
			name:     "Error with column",
			err:      errors.NewColumnNotFoundError("Project", "Rating"),
			expected: "SchemaError: Project operation failed on column 'Rating': column does not exist",
		},
		{
			name:     "Error with path and cause",
			err:      errors.NewDataLoadError("Load", "sales.csv", stderrors.New("no such file")),
			expected: "DataLoadError: Load operation failed on 'sales.csv': cannot load data: no such file",
		},
		{
			name:     "Error without column or path",
			err:      errors.NewConfigError("Validate", "top must be positive", nil),
			expected: "ConfigError: Validate operation failed: top must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataFrameError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := errors.NewRenderError("SaveChart", "out/age.png", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestDataFrameError_IsKind(t *testing.T) {
	loadErr := errors.NewDataLoadError("Load", "x.csv", nil)
	schemaErr := errors.NewColumnNotFoundError("GroupBy", "Supplier")

	assert.ErrorIs(t, loadErr, errors.ErrDataLoad)
	assert.NotErrorIs(t, loadErr, errors.ErrSchema)
	assert.ErrorIs(t, schemaErr, errors.ErrSchema)

	wrapped := fmt.Errorf("analyzing returns: %w", schemaErr)
	assert.ErrorIs(t, wrapped, errors.ErrSchema)
}

func TestDataFrameError_IsExact(t *testing.T) {
	err1 := errors.NewColumnNotFoundError("Project", "Age")
	err2 := errors.NewColumnNotFoundError("Project", "Age")
	err3 := errors.NewColumnNotFoundError("GroupBy", "Age")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.False(t, err1.Is(stderrors.New("different error")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "DataLoadError", errors.KindDataLoad.String())
	assert.Equal(t, "SchemaError", errors.KindSchema.String())
	assert.Equal(t, "RenderError", errors.KindRender.String())
	assert.Equal(t, "ConfigError", errors.KindConfig.String())
	assert.Equal(t, "Kind(0)", errors.Kind(0).String())
}
