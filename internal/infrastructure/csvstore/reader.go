package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"powercap-metrics/internal/domain"
)

// ReadPowerMetricsDir loads every *_power_metrics.csv file in dir, ordered by
// file name. The device id is the file name without the suffix.
func (s *Store) ReadPowerMetricsDir(dir string) ([]domain.DeviceSeries, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+PowerMetricsSuffix))
	if err != nil {
		return nil, fmt.Errorf("csvstore: list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("csvstore: %s: %w", dir, domain.ErrNoData)
	}
	sort.Strings(paths)

	series := make([]domain.DeviceSeries, 0, len(paths))
	for _, path := range paths {
		item, err := s.ReadPowerMetricsFile(path)
		if err != nil {
			return nil, err
		}
		if len(item.Points) == 0 {
			continue
		}
		series = append(series, item)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("csvstore: %s: %w", dir, domain.ErrNoData)
	}
	return series, nil
}

// ReadPowerMetricsFile loads a single timestamp,power_watt file.
func (s *Store) ReadPowerMetricsFile(path string) (domain.DeviceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.DeviceSeries{}, fmt.Errorf("csvstore: open: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(powerMetricsHeader)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.DeviceSeries{}, &domain.MalformedInputError{Source: path, Reason: "empty file"}
		}
		return domain.DeviceSeries{}, &domain.MalformedInputError{Source: path, Reason: "invalid header", Err: err}
	}
	if header[0] != powerMetricsHeader[0] || header[1] != powerMetricsHeader[1] {
		return domain.DeviceSeries{}, &domain.MalformedInputError{
			Source: path,
			Reason: fmt.Sprintf("unexpected header %q", strings.Join(header, ",")),
		}
	}

	series := domain.DeviceSeries{
		DeviceID: strings.TrimSuffix(filepath.Base(path), PowerMetricsSuffix),
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.DeviceSeries{}, &domain.MalformedInputError{Source: path, Reason: "invalid row", Err: err}
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return domain.DeviceSeries{}, &domain.MalformedInputError{Source: path, Reason: "invalid power value", Err: err}
		}
		series.Points = append(series.Points, domain.SeriesPoint{Timestamp: row[0], Value: value})
	}
	return series, nil
}

var _ domain.SeriesReader = (*Store)(nil)
