package grouper

import (
	"math"
	"sort"
	"time"

	"powercap-metrics/internal/domain"
)

// Options selects the ordering and derived fields of a grouping run.
type Options struct {
	// SortByTimestamp stably sorts every series chronologically. When false
	// the series keep source order.
	SortByTimestamp bool
	// IncludeAbs attaches |value| to every point alongside the signed value.
	IncludeAbs bool
}

// Result is the grouped output. Series are ordered by the first appearance of
// their device id in the input.
type Result struct {
	Series  []domain.DeviceSeries
	Skipped int
}

// DeviceIDs returns the device ids in output order.
func (r Result) DeviceIDs() []string {
	ids := make([]string, len(r.Series))
	for i, series := range r.Series {
		ids[i] = series.DeviceID
	}
	return ids
}

// Lookup returns the series of the given device.
func (r Result) Lookup(deviceID string) (domain.DeviceSeries, bool) {
	for _, series := range r.Series {
		if series.DeviceID == deviceID {
			return series, true
		}
	}
	return domain.DeviceSeries{}, false
}

// Records returns the number of points over all series.
func (r Result) Records() int {
	total := 0
	for _, series := range r.Series {
		total += len(series.Points)
	}
	return total
}

// Group splits records into one series per device id. Records without a
// device id, a timestamp or a value are counted in Skipped and left out.
// The input slice is not modified.
func Group(records []domain.MeasurementRecord, opts Options) Result {
	var (
		result Result
		index  = make(map[string]int)
	)

	for _, record := range records {
		if !record.Valid() {
			result.Skipped++
			continue
		}

		point := domain.SeriesPoint{
			Timestamp: *record.Timestamp,
			Value:     *record.Value,
		}
		if opts.IncludeAbs {
			abs := math.Abs(point.Value)
			point.ValueAbs = &abs
		}

		id := *record.DeviceID
		pos, ok := index[id]
		if !ok {
			pos = len(result.Series)
			index[id] = pos
			result.Series = append(result.Series, domain.DeviceSeries{DeviceID: id})
		}
		result.Series[pos].Points = append(result.Series[pos].Points, point)
	}

	if opts.SortByTimestamp {
		for i := range result.Series {
			SortChronologically(result.Series[i].Points)
		}
	}

	return result
}

// GroupOneDevice returns the points of targetID with every value replaced by
// its absolute value, in source order.
func GroupOneDevice(records []domain.MeasurementRecord, targetID string) []domain.SeriesPoint {
	var points []domain.SeriesPoint
	for _, record := range records {
		if !record.Valid() || *record.DeviceID != targetID {
			continue
		}
		points = append(points, domain.SeriesPoint{
			Timestamp: *record.Timestamp,
			Value:     math.Abs(*record.Value),
		})
	}
	return points
}

// SortChronologically stably sorts points by timestamp. Parsed instants are
// compared when every timestamp parses, raw strings otherwise.
func SortChronologically(points []domain.SeriesPoint) {
	instants := make([]time.Time, len(points))
	parsed := true
	for i, point := range points {
		ts, err := domain.ParseTimestamp(point.Timestamp)
		if err != nil {
			parsed = false
			break
		}
		instants[i] = ts
	}

	if !parsed {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp < points[j].Timestamp
		})
		return
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return instants[order[i]].Before(instants[order[j]])
	})

	sorted := make([]domain.SeriesPoint, len(points))
	for i, idx := range order {
		sorted[i] = points[idx]
	}
	copy(points, sorted)
}
