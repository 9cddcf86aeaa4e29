package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"powercap-metrics/internal/domain"
)

// Description holds descriptive statistics of a sample.
type Description struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe computes count, mean, median, population standard deviation,
// min and max. An empty sample yields a zero Description.
func Describe(values []float64) Description {
	if len(values) == 0 {
		return Description{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d := Description{
		Count:  len(values),
		Median: median(sorted),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
	d.Mean, d.StdDev = stat.PopMeanStdDev(values, nil)

	return d
}

// median averages the two middle samples of an even-sized sorted slice.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return stat.Mean(sorted[mid-1:mid+1], nil)
	}
	return sorted[mid]
}

// RollingMean returns the centered moving average over window samples.
// Positions without a full window are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || window > len(values) {
		return out
	}

	// Even windows take one extra sample before the center.
	offset := window / 2
	for start := 0; start+window <= len(values); start++ {
		out[start+offset] = stat.Mean(values[start:start+window], nil)
	}
	return out
}

// DiffPoint is one sample of the difference between two series.
type DiffPoint struct {
	Timestamp string
	Value     float64
}

// Difference joins a and b on identical timestamps and returns a-b in the
// order of a. Duplicate timestamps in b match their first occurrence.
func Difference(a, b domain.DeviceSeries) []DiffPoint {
	lookup := make(map[string]float64, len(b.Points))
	for _, point := range b.Points {
		if _, ok := lookup[point.Timestamp]; !ok {
			lookup[point.Timestamp] = point.Value
		}
	}

	var out []DiffPoint
	for _, point := range a.Points {
		other, ok := lookup[point.Timestamp]
		if !ok {
			continue
		}
		out = append(out, DiffPoint{Timestamp: point.Timestamp, Value: point.Value - other})
	}
	return out
}

// Elapsed returns, for every point, the seconds since the first point.
// Points with unparsable timestamps are dropped together with their value.
func Elapsed(points []domain.SeriesPoint) (seconds, values []float64) {
	var origin time.Time
	for _, point := range points {
		ts, err := domain.ParseTimestamp(point.Timestamp)
		if err != nil {
			continue
		}
		if origin.IsZero() {
			origin = ts
		}
		seconds = append(seconds, ts.Sub(origin).Seconds())
		values = append(values, point.Value)
	}
	return seconds, values
}
