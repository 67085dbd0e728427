package analysis

import "github.com/paveg/salesreport/internal/dataframe"

// CustomerReport holds the customer-side chart data.
type CustomerReport struct {
	QuantityByCountry *dataframe.Aggregation  // natural country order
	QuantityByGender  []dataframe.GroupValues // Quantity samples per Gender
	Ages              []float64               // non-null ages
	HistogramBins     int
}

// AnalyzeCustomers computes total Quantity by Country, the Quantity samples
// per Gender and the age distribution of the customer projection.
func AnalyzeCustomers(customers *dataframe.DataFrame, opts Options) (*CustomerReport, error) {
	if err := customers.Require("AnalyzeCustomers", ColCountry, ColGender, ColAge, ColQuantity); err != nil {
		return nil, err
	}

	byCountry, err := customers.GroupBy(ColCountry)
	if err != nil {
		return nil, err
	}
	countryTotals, err := byCountry.Sum(ColQuantity)
	if err != nil {
		return nil, err
	}

	byGender, err := customers.GroupBy(ColGender)
	if err != nil {
		return nil, err
	}
	genderSamples, err := byGender.Collect(ColQuantity)
	if err != nil {
		return nil, err
	}

	ages, valid, err := customers.Float64s("AnalyzeCustomers", ColAge)
	if err != nil {
		return nil, err
	}

	log.Debugf("customer report: %d countries, %d genders", countryTotals.Len(), len(genderSamples))
	return &CustomerReport{
		QuantityByCountry: countryTotals,
		QuantityByGender:  genderSamples,
		Ages:              compact(ages, valid),
		HistogramBins:     opts.HistogramBins,
	}, nil
}

// compact keeps the valid values, in order.
func compact(values []float64, valid []bool) []float64 {
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if valid[i] {
			out = append(out, v)
		}
	}
	return out
}
