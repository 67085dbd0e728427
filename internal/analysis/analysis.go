// Package analysis computes the sales reports. Every analyzer receives the
// table it works on and returns its results; nothing is shared between
// steps except what the caller passes along.
package analysis

import (
	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/dataframe"
)

var log = logging.MustGetLogger("analysis")

// Column names of the input schema.
const (
	ColCustomerID       = "CustomerID"
	ColGender           = "Gender"
	ColAge              = "Age"
	ColCountry          = "Country"
	ColPaymentMethod    = "PaymentMethod"
	ColProduct          = "Product"
	ColDeliveryTimeDays = "DeliveryTimeDays"
	ColQuantity         = "Quantity"
	ColOrderID          = "OrderID"
	ColCategory         = "Category"
	ColWarehouse        = "Warehouse"
	ColSupplier         = "Supplier"
	ColViews            = "Views"
	ColAdSource         = "AdSource"
	ColClicks           = "Clicks"
	ColReturnStatus     = "ReturnStatus"
	ColRating           = "Rating"
)

// CustomerColumns are the columns of the customer projection.
var CustomerColumns = []string{
	ColCustomerID, ColGender, ColAge, ColCountry, ColPaymentMethod,
	ColProduct, ColDeliveryTimeDays, ColQuantity,
}

// SalesColumns are the columns of the sales projection.
var SalesColumns = []string{
	ColOrderID, ColProduct, ColCategory, ColWarehouse, ColSupplier,
	ColViews, ColAdSource, ColClicks, ColReturnStatus, ColRating, ColQuantity,
}

// CorrelationColumns are the numeric columns of the correlation matrix.
var CorrelationColumns = []string{ColClicks, ColQuantity, ColViews, ColRating}

// Options tunes the analyzers.
type Options struct {
	TopN                int    // entries kept by the ranked product reports
	HistogramBins       int    // bins of the age histogram
	ReturnedStatus      string // ReturnStatus value that marks a returned row
	AdSourcePlaceholder string // substitute for missing AdSource values
}

// DefaultOptions returns the options the reports use unless configured.
func DefaultOptions() Options {
	return Options{
		TopN:                5,
		HistogramBins:       20,
		ReturnedStatus:      "Returned",
		AdSourcePlaceholder: "unknown",
	}
}

// CustomerView projects the customer columns out of the loaded table.
func CustomerView(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	return df.Project(CustomerColumns...)
}

// SalesView projects the sales columns out of the loaded table and replaces
// missing AdSource values with the placeholder. It also returns how many
// values were substituted. The loaded table is left untouched.
func SalesView(df *dataframe.DataFrame, placeholder string) (*dataframe.DataFrame, int, error) {
	projected, err := df.Project(SalesColumns...)
	if err != nil {
		return nil, 0, err
	}
	defer projected.Release()

	filled, n, err := projected.FillNull(ColAdSource, placeholder)
	if err != nil {
		return nil, 0, err
	}
	log.Debugf("filled %d missing %s values with %q", n, ColAdSource, placeholder)
	return filled, n, nil
}
