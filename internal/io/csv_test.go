package io_test

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/salesreport/internal/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("reads simple CSV with headers", func(t *testing.T) {
		csvData := `OrderID,Product,Quantity,Rating
O-1,Mouse,3,4.5
O-2,Laptop,1,5
O-3,Desk,2,3.5`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 3, df.Len())
		assert.Equal(t, 4, df.Width())
		assert.Equal(t, []string{"OrderID", "Product", "Quantity", "Rating"}, df.Columns())

		productCol, exists := df.Column("Product")
		require.True(t, exists)
		productArray := productCol.Array()
		defer productArray.Release()
		assert.Equal(t, "Mouse", productArray.(*array.String).Value(0))

		quantityCol, exists := df.Column("Quantity")
		require.True(t, exists)
		assert.Equal(t, arrow.PrimitiveTypes.Int64, quantityCol.DataType())

		ratingCol, exists := df.Column("Rating")
		require.True(t, exists)
		assert.Equal(t, arrow.PrimitiveTypes.Float64, ratingCol.DataType())
	})

	t.Run("reads CSV without headers", func(t *testing.T) {
		csvData := `Mouse,3
Laptop,1`

		options := io.DefaultCSVOptions()
		options.Header = false

		reader := io.NewCSVReader(strings.NewReader(csvData), options, mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 2, df.Len())
		assert.Equal(t, []string{"column_0", "column_1"}, df.Columns())
	})

	t.Run("empty cells become nulls", func(t *testing.T) {
		csvData := `AdSource,Views,Rating
,5,4.0
TV,7,
NA,3,2.5`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		adSource, _ := df.Column("AdSource")
		assert.Equal(t, 2, adSource.NullCount())
		assert.True(t, adSource.IsNull(0))
		assert.Equal(t, "TV", adSource.GetAsString(1))
		assert.True(t, adSource.IsNull(2))

		rating, _ := df.Column("Rating")
		assert.Equal(t, arrow.PrimitiveTypes.Float64, rating.DataType())
		assert.Equal(t, 1, rating.NullCount())

		views, _ := df.Column("Views")
		assert.Equal(t, 0, views.NullCount())
	})

	t.Run("infers types from non-null cells", func(t *testing.T) {
		csvData := `Age,Clicks,Gift,Gender
34,,true,F
,12.5,,M
51,3,false,`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		age, _ := df.Column("Age")
		assert.Equal(t, arrow.PrimitiveTypes.Int64, age.DataType())
		clicks, _ := df.Column("Clicks")
		assert.Equal(t, arrow.PrimitiveTypes.Float64, clicks.DataType())
		gift, _ := df.Column("Gift")
		assert.Equal(t, arrow.FixedWidthTypes.Boolean, gift.DataType())
		gender, _ := df.Column("Gender")
		assert.Equal(t, arrow.BinaryTypes.String, gender.DataType())
	})

	t.Run("all-null column is a string column", func(t *testing.T) {
		csvData := `Product,Coupon
Mouse,
Desk,`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		coupon, _ := df.Column("Coupon")
		assert.Equal(t, arrow.BinaryTypes.String, coupon.DataType())
		assert.Equal(t, 2, coupon.NullCount())
	})

	t.Run("header only", func(t *testing.T) {
		reader := io.NewCSVReader(strings.NewReader("Product,Quantity\n"), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 0, df.Len())
		assert.Equal(t, []string{"Product", "Quantity"}, df.Columns())
	})

	t.Run("empty input is an error", func(t *testing.T) {
		reader := io.NewCSVReader(strings.NewReader(""), io.DefaultCSVOptions(), mem)
		_, err := reader.Read()
		assert.Error(t, err)
	})
}
