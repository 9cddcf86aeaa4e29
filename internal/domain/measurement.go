package domain

import "encoding/json"

// MeasurementRecord is one raw entry of a metrics log. The three required
// fields are nullable so that a missing key and a zero value stay distinct.
type MeasurementRecord struct {
	DeviceID  *string
	Timestamp *string
	Value     *float64

	// Extra keeps every other key of the source object untouched.
	Extra map[string]json.RawMessage
}

// Valid reports whether the record carries a non-empty device id, a
// non-empty timestamp and a value.
func (r MeasurementRecord) Valid() bool {
	if r.DeviceID == nil || *r.DeviceID == "" {
		return false
	}
	if r.Timestamp == nil || *r.Timestamp == "" {
		return false
	}
	return r.Value != nil
}

// SeriesPoint is a single (timestamp, value) sample of a device series.
type SeriesPoint struct {
	Timestamp string
	Value     float64
	// ValueAbs is only set when the absolute value was requested.
	ValueAbs *float64
}

// DeviceSeries holds the ordered samples of one device. It is never empty
// when produced by the grouper.
type DeviceSeries struct {
	DeviceID string
	Points   []SeriesPoint
}

// Values returns the sample values in series order.
func (s DeviceSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, point := range s.Points {
		values[i] = point.Value
	}
	return values
}

// NewRecord builds a record with all required fields present.
func NewRecord(deviceID, timestamp string, value float64) MeasurementRecord {
	return MeasurementRecord{
		DeviceID:  &deviceID,
		Timestamp: &timestamp,
		Value:     &value,
	}
}
