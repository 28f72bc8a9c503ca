package costs

import (
	"fmt"
	"hash/fnv"

	"github.com/gridtools/griddata/internal/pkg/funcdata"
)

// TimeSeriesKey names a time-varying data series held outside this model.
// The model only carries the reference; resolution happens in whatever store
// owns the series.
type TimeSeriesKey struct {
	name string
}

func NewTimeSeriesKey(name string) TimeSeriesKey {
	return TimeSeriesKey{name: name}
}

func (k TimeSeriesKey) Name() string { return k.name }

func (k TimeSeriesKey) String() string {
	return fmt.Sprintf("time_series(%s)", k.name)
}

// FuelCost is the fuel-to-currency conversion of a FuelCurve: either a fixed
// scalar price or a reference to a named time series.
type FuelCost struct {
	value  float64
	key    TimeSeriesKey
	series bool
}

// FuelPrice wraps a fixed scalar price.
func FuelPrice(value float64) FuelCost {
	return FuelCost{value: value}
}

// FuelPriceTimeSeries wraps a time-series reference.
func FuelPriceTimeSeries(key TimeSeriesKey) FuelCost {
	return FuelCost{key: key, series: true}
}

// Scalar returns the fixed price, or false when the cost is a time-series
// reference.
func (f FuelCost) Scalar() (float64, bool) {
	if f.series {
		return 0, false
	}
	return f.value, true
}

// TimeSeries returns the series reference, or false when the cost is a
// fixed scalar.
func (f FuelCost) TimeSeries() (TimeSeriesKey, bool) {
	if !f.series {
		return TimeSeriesKey{}, false
	}
	return f.key, true
}

func (f FuelCost) String() string {
	if f.series {
		return f.key.String()
	}
	return funcdata.FormatFloat(f.value)
}

func (f FuelCost) hash() uint64 {
	h := fnv.New64a()
	if f.series {
		h.Write([]byte{1})
		h.Write([]byte(f.key.name))
	} else {
		v := f.value
		if v == 0 {
			// collapse -0 so equal costs hash equal
			v = 0
		}
		h.Write([]byte{0})
		h.Write([]byte(funcdata.FormatFloat(v)))
	}
	return h.Sum64()
}
