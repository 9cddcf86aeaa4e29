package grouper

import (
	"time"

	"powercap-metrics/internal/application/stats"
	"powercap-metrics/internal/domain"
)

// Summary describes one device series.
type Summary struct {
	DeviceID       string
	Records        int
	FirstTimestamp string
	LastTimestamp  string
	Duration       time.Duration
	Power          stats.Description
}

// Summarize computes the summary of a single series. FirstTimestamp and
// LastTimestamp follow series order; Duration spans the earliest and latest
// parsable instants.
func Summarize(series domain.DeviceSeries) Summary {
	summary := Summary{
		DeviceID: series.DeviceID,
		Records:  len(series.Points),
		Power:    stats.Describe(series.Values()),
	}
	if len(series.Points) == 0 {
		return summary
	}

	summary.FirstTimestamp = series.Points[0].Timestamp
	summary.LastTimestamp = series.Points[len(series.Points)-1].Timestamp

	var earliest, latest time.Time
	for _, point := range series.Points {
		ts, err := domain.ParseTimestamp(point.Timestamp)
		if err != nil {
			continue
		}
		if earliest.IsZero() || ts.Before(earliest) {
			earliest = ts
		}
		if latest.IsZero() || ts.After(latest) {
			latest = ts
		}
	}
	if !earliest.IsZero() {
		summary.Duration = latest.Sub(earliest)
	}

	return summary
}

// SummarizeAll summarizes every series of a result in output order.
func SummarizeAll(series []domain.DeviceSeries) []Summary {
	summaries := make([]Summary, len(series))
	for i, s := range series {
		summaries[i] = Summarize(s)
	}
	return summaries
}
