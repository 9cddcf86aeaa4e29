package plotting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"powercap-metrics/internal/application/grouper"
	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/infrastructure/chart"
)

// DefaultFormats are written for the per-device report charts.
var DefaultFormats = []string{"pdf", "png"}

// Logger defines the logging behaviour required by the plotting use-cases.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Renderer draws a figure into one or more files.
type Renderer interface {
	Render(path string, fig chart.Figure) error
	RenderFormats(base string, formats []string, fig chart.Figure) ([]string, error)
}

// ConfigLoader reads device config dumps. It never fails.
type ConfigLoader interface {
	PowerLimits(path string) domain.PowerLimits
	TimeWindow(path string) domain.TimeWindow
}

// Service builds the report charts.
type Service struct {
	source   domain.RecordSource
	reader   domain.SeriesReader
	configs  ConfigLoader
	renderer Renderer
	logger   Logger
}

// New creates the plotting service. logger may be nil.
func New(source domain.RecordSource, reader domain.SeriesReader, configs ConfigLoader, renderer Renderer, logger Logger) *Service {
	return &Service{
		source:   source,
		reader:   reader,
		configs:  configs,
		renderer: renderer,
		logger:   logger,
	}
}

// loadSeries reads a JSON metrics file or a directory of power metrics CSV
// files. The series come back sorted chronologically.
func (s *Service) loadSeries(ctx context.Context, input string) ([]domain.DeviceSeries, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("plotting: input: %w", err)
	}

	var series []domain.DeviceSeries
	if info.IsDir() {
		series, err = s.reader.ReadPowerMetricsDir(input)
		if err != nil {
			return nil, fmt.Errorf("plotting: read %s: %w", input, err)
		}
		for i := range series {
			grouper.SortChronologically(series[i].Points)
		}
	} else {
		records, err := s.source.Load(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("plotting: load %s: %w", input, err)
		}
		result := grouper.Group(records, grouper.Options{SortByTimestamp: true})
		if result.Skipped > 0 {
			s.warn("records skipped", "path", input, "skipped", result.Skipped)
		}
		series = result.Series
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("plotting: %s: %w", input, domain.ErrNoData)
	}
	return series, nil
}

// requireFiles reports every path that does not exist.
func requireFiles(paths ...string) error {
	var missing []error
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, fmt.Errorf("plotting: required file: %w", err))
		}
	}
	return errors.Join(missing...)
}

// withSuffix inserts suffix before the extension of path.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func (s *Service) info(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, args...)
}

func (s *Service) warn(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, args...)
}
