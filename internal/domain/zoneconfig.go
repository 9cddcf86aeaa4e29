package domain

// PowerLimits carries the long-term power limits read from a device config
// dump. A nil field means the value was not found.
type PowerLimits struct {
	PackageWatts *float64
	DRAMWatts    *float64
}

// TimeWindow carries the long-term time window of the first package zone.
type TimeWindow struct {
	Microseconds *int64
	Milliseconds *float64
}
