package analysis

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/paveg/salesreport/internal/dataframe"
)

// ReturnsReport holds the return analysis of the sales projection.
type ReturnsReport struct {
	Returned       *roaring.Bitmap        // rows flagged as returned
	ByProduct      *dataframe.Aggregation // returned Quantity, descending, at most TopN
	ByCategory     *dataframe.Aggregation // returned Quantity, descending
	RateBySupplier *dataframe.Aggregation // percent, natural supplier order
	BySupplier     *dataframe.CrossTab    // row counts by Supplier and ReturnStatus
	ByWarehouse    *dataframe.CrossTab    // row counts by Warehouse and ReturnStatus
}

// AnalyzeReturns selects the returned rows and derives the returned Quantity
// rankings, the return rate per supplier and the status counts used by the
// count plots.
func AnalyzeReturns(sales *dataframe.DataFrame, opts Options) (*ReturnsReport, error) {
	if err := sales.Require("AnalyzeReturns",
		ColReturnStatus, ColProduct, ColCategory, ColSupplier, ColWarehouse, ColQuantity); err != nil {
		return nil, err
	}

	rows, err := sales.WhereEquals(ColReturnStatus, opts.ReturnedStatus)
	if err != nil {
		return nil, err
	}
	returned := sales.Filter(rows)
	defer returned.Release()
	log.Debugf("%d of %d rows have %s %q", returned.Len(), sales.Len(), ColReturnStatus, opts.ReturnedStatus)

	byProduct, err := rankedSum(returned, ColProduct, opts.TopN)
	if err != nil {
		return nil, err
	}
	byCategory, err := rankedSum(returned, ColCategory, -1)
	if err != nil {
		return nil, err
	}

	rate, err := returnRate(sales, returned, ColSupplier)
	if err != nil {
		return nil, err
	}

	bySupplier, err := sales.CrossCount(ColSupplier, ColReturnStatus)
	if err != nil {
		return nil, err
	}
	byWarehouse, err := sales.CrossCount(ColWarehouse, ColReturnStatus)
	if err != nil {
		return nil, err
	}

	return &ReturnsReport{
		Returned:       rows,
		ByProduct:      byProduct,
		ByCategory:     byCategory,
		RateBySupplier: rate,
		BySupplier:     bySupplier,
		ByWarehouse:    byWarehouse,
	}, nil
}

// returnRate is 100 × returned Quantity / total Quantity per key. Every key
// of the full table is present; keys without returns, or with a zero total,
// get 0.
func returnRate(all, returned *dataframe.DataFrame, key string) (*dataframe.Aggregation, error) {
	totalGroups, err := all.GroupBy(key)
	if err != nil {
		return nil, err
	}
	totals, err := totalGroups.Sum(ColQuantity)
	if err != nil {
		return nil, err
	}

	returnedGroups, err := returned.GroupBy(key)
	if err != nil {
		return nil, err
	}
	returnedTotals, err := returnedGroups.Sum(ColQuantity)
	if err != nil {
		return nil, err
	}

	return returnedTotals.Ratio(totals, 100, "ReturnRate"), nil
}
