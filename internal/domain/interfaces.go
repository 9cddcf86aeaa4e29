package domain

import "context"

// RecordSource loads raw measurement records from a metrics file.
type RecordSource interface {
	Load(ctx context.Context, path string) ([]MeasurementRecord, error)
}

// WrittenFile describes one CSV file produced for a device.
type WrittenFile struct {
	Path     string
	DeviceID string
	Records  int
	Bytes    int64
}

// SeriesWriter persists grouped series as flat files.
type SeriesWriter interface {
	// WritePowerMetrics writes timestamp,power_watt files into dir.
	WritePowerMetrics(dir string, series []DeviceSeries) ([]WrittenFile, error)
	// WriteDeviceSplit writes timestamp,device_id,value,value_abs files next to base.
	WriteDeviceSplit(base string, series []DeviceSeries) ([]WrittenFile, error)
}

// SeriesReader loads previously written power metrics files.
type SeriesReader interface {
	ReadPowerMetricsDir(dir string) ([]DeviceSeries, error)
}

// RunRecorder receives counters describing a run.
type RunRecorder interface {
	RecordsLoaded(n int)
	RecordsSkipped(n int)
	FileWritten(kind string)
	FileFailed()
	ChartRendered(format string)
	ConfigWarning()
}
