package plotting

import (
	"github.com/shopspring/decimal"

	"powercap-metrics/internal/domain"
)

var thousand = decimal.NewFromInt(1000)

// LimitsNotes returns the legend annotations for a device config. A zero or
// absent limit is left out.
func LimitsNotes(limits domain.PowerLimits) []string {
	var notes []string
	if label := PackageLabel(limits); label != "" {
		notes = append(notes, label)
	}
	if limits.DRAMWatts != nil && *limits.DRAMWatts > 0 {
		notes = append(notes, "DRAM: "+roundHalfEven(decimal.NewFromFloat(*limits.DRAMWatts), 0)+"W")
	}
	return notes
}

// PackageLabel formats the package limit, or returns "" when unknown.
func PackageLabel(limits domain.PowerLimits) string {
	if limits.PackageWatts == nil || *limits.PackageWatts == 0 {
		return ""
	}
	return "Package: " + roundHalfEven(decimal.NewFromFloat(*limits.PackageWatts), 0) + "W"
}

// TimeWindowLabel formats a time window in ms below one second and in
// seconds above. It returns "" when unknown. The microsecond count is used
// when present so that ties round on the exact value.
func TimeWindowLabel(window domain.TimeWindow) string {
	var ms decimal.Decimal
	switch {
	case window.Microseconds != nil:
		ms = decimal.New(*window.Microseconds, -3)
	case window.Milliseconds != nil:
		ms = decimal.NewFromFloat(*window.Milliseconds)
	default:
		return ""
	}
	if ms.IsZero() {
		return ""
	}
	if ms.LessThan(thousand) {
		return "TW: " + roundHalfEven(ms, 1) + " ms"
	}
	return "TW: " + roundHalfEven(ms.Div(thousand), 2) + " s"
}

func roundHalfEven(d decimal.Decimal, places int32) string {
	return d.RoundBank(places).StringFixed(places)
}
