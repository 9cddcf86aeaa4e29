package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gosimple/slug"

	"powercap-metrics/internal/domain"
)

const (
	// PowerMetricsSuffix ends every file written by WritePowerMetrics.
	PowerMetricsSuffix = "_power_metrics.csv"

	fallbackName = "device"
)

var (
	powerMetricsHeader = []string{"timestamp", "power_watt"}
	deviceSplitHeader  = []string{"timestamp", "device_id", "value", "value_abs"}
)

// Store writes and reads per-device CSV files.
type Store struct{}

// New creates a CSV store.
func New() *Store {
	return &Store{}
}

// WritePowerMetrics writes one <device>_power_metrics.csv per series into
// dir, creating it when needed. Files already written are returned together
// with the first error.
func (s *Store) WritePowerMetrics(dir string, series []domain.DeviceSeries) ([]domain.WrittenFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csvstore: create dir: %w", err)
	}

	names := fileNames(series)
	written := make([]domain.WrittenFile, 0, len(series))
	for i, item := range series {
		path := filepath.Join(dir, names[i]+PowerMetricsSuffix)
		file, err := writeFile(path, item, powerMetricsHeader, func(point domain.SeriesPoint) []string {
			return []string{point.Timestamp, formatFloat(point.Value)}
		})
		if err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}

// WriteDeviceSplit writes one <base>_<device>.csv per series. value_abs falls
// back to |value| when the series was grouped without it.
func (s *Store) WriteDeviceSplit(base string, series []domain.DeviceSeries) ([]domain.WrittenFile, error) {
	names := fileNames(series)
	written := make([]domain.WrittenFile, 0, len(series))
	for i, item := range series {
		deviceID := item.DeviceID
		path := base + "_" + names[i] + ".csv"
		file, err := writeFile(path, item, deviceSplitHeader, func(point domain.SeriesPoint) []string {
			abs := math.Abs(point.Value)
			if point.ValueAbs != nil {
				abs = *point.ValueAbs
			}
			return []string{point.Timestamp, deviceID, formatFloat(point.Value), formatFloat(abs)}
		})
		if err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}

// FileName turns a device id into a file name component. Ids that are
// already slugs are kept as is.
func FileName(deviceID string) string {
	if slug.IsSlug(deviceID) {
		return deviceID
	}
	if name := slug.Make(deviceID); name != "" {
		return name
	}
	return fallbackName
}

// fileNames gives every series its own file name component. Ids that collide
// after slugging get a -2, -3, ... suffix in input order.
func fileNames(series []domain.DeviceSeries) []string {
	names := make([]string, len(series))
	used := make(map[string]bool, len(series))
	for i, item := range series {
		base := FileName(item.DeviceID)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func writeFile(path string, series domain.DeviceSeries, header []string, row func(domain.SeriesPoint) []string) (domain.WrittenFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return domain.WrittenFile{}, fmt.Errorf("csvstore: create %s: %w", path, err)
	}
	defer file.Close()

	counter := &countingWriter{w: file}
	writer := csv.NewWriter(counter)
	if err := writer.Write(header); err != nil {
		return domain.WrittenFile{}, fmt.Errorf("csvstore: write %s: %w", path, err)
	}
	for _, point := range series.Points {
		if err := writer.Write(row(point)); err != nil {
			return domain.WrittenFile{}, fmt.Errorf("csvstore: write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.WrittenFile{}, fmt.Errorf("csvstore: flush %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return domain.WrittenFile{}, fmt.Errorf("csvstore: close %s: %w", path, err)
	}

	return domain.WrittenFile{
		Path:     path,
		DeviceID: series.DeviceID,
		Records:  len(series.Points),
		Bytes:    counter.n,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

var _ domain.SeriesWriter = (*Store)(nil)
