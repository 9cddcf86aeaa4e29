package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"powercap-metrics/internal/application/batch"
	"powercap-metrics/internal/application/grouper"
	"powercap-metrics/internal/domain"
)

const (
	KindPowerMetrics = "power_metrics"
	KindDeviceSplit  = "device_split"
)

// Logger defines the logging behaviour required by the converter.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Service turns metrics logs into per-device CSV files.
type Service struct {
	source   domain.RecordSource
	writer   domain.SeriesWriter
	runner   *batch.Runner
	logger   Logger
	recorder domain.RunRecorder
}

// New creates a converter. logger and recorder may be nil.
func New(source domain.RecordSource, writer domain.SeriesWriter, runner *batch.Runner, logger Logger, recorder domain.RunRecorder) *Service {
	if runner == nil {
		runner = batch.New(nil, recorder)
	}
	return &Service{
		source:   source,
		writer:   writer,
		runner:   runner,
		logger:   logger,
		recorder: recorder,
	}
}

// ExtractResult describes a power metrics extraction.
type ExtractResult struct {
	Files     []domain.WrittenFile
	Summaries []grouper.Summary
	Skipped   int
}

// ExtractPowerMetrics writes one timestamp,power_watt file per device into
// outputDir, each sorted chronologically.
func (s *Service) ExtractPowerMetrics(ctx context.Context, input, outputDir string) (ExtractResult, error) {
	result, err := s.load(ctx, input, grouper.Options{SortByTimestamp: true})
	if err != nil {
		return ExtractResult{}, err
	}

	files, err := s.writer.WritePowerMetrics(outputDir, result.Series)
	s.countWritten(KindPowerMetrics, files)
	if err != nil {
		return ExtractResult{Files: files, Skipped: result.Skipped}, fmt.Errorf("converter: extract: %w", err)
	}

	return ExtractResult{
		Files:     files,
		Summaries: grouper.SummarizeAll(result.Series),
		Skipped:   result.Skipped,
	}, nil
}

// SplitResult describes the split of one metrics file.
type SplitResult struct {
	Input   string
	Files   []domain.WrittenFile
	Skipped int
}

// SplitFile writes <input without extension>_<device>.csv files with signed
// and absolute values, keeping the source order of each device.
func (s *Service) SplitFile(ctx context.Context, input string) (SplitResult, error) {
	result, err := s.load(ctx, input, grouper.Options{IncludeAbs: true})
	if err != nil {
		return SplitResult{Input: input}, err
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	files, err := s.writer.WriteDeviceSplit(base, result.Series)
	s.countWritten(KindDeviceSplit, files)
	if err != nil {
		return SplitResult{Input: input, Files: files, Skipped: result.Skipped}, fmt.Errorf("converter: split: %w", err)
	}

	return SplitResult{Input: input, Files: files, Skipped: result.Skipped}, nil
}

// SplitDirectory splits every <prefix>*.json file of dir in name order. A
// failing file does not stop the others.
func (s *Service) SplitDirectory(ctx context.Context, dir, prefix string) ([]SplitResult, batch.Report, error) {
	paths, err := batch.Discover(dir, prefix, ".json")
	if err != nil {
		return nil, batch.Report{}, fmt.Errorf("converter: split dir: %w", err)
	}
	if len(paths) == 0 {
		s.warn("no metrics files found", "dir", dir, "prefix", prefix)
	}
	return s.SplitFiles(ctx, paths)
}

// SplitFiles splits each path in order, moving on after a failing file.
func (s *Service) SplitFiles(ctx context.Context, paths []string) ([]SplitResult, batch.Report, error) {
	var results []SplitResult
	report, err := s.runner.Run(ctx, paths, func(ctx context.Context, path string) error {
		result, err := s.SplitFile(ctx, path)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return results, report, fmt.Errorf("converter: split: %w", err)
	}
	return results, report, nil
}

func (s *Service) load(ctx context.Context, input string, opts grouper.Options) (grouper.Result, error) {
	records, err := s.source.Load(ctx, input)
	if err != nil {
		return grouper.Result{}, fmt.Errorf("converter: load %s: %w", input, err)
	}

	result := grouper.Group(records, opts)
	if s.recorder != nil {
		s.recorder.RecordsLoaded(len(records))
		s.recorder.RecordsSkipped(result.Skipped)
	}
	if result.Skipped > 0 {
		s.warn("records skipped", "path", input, "skipped", result.Skipped)
	}
	if len(result.Series) == 0 {
		s.warn("no usable records", "path", input)
	}
	s.info("records grouped", "path", input, "records", len(records), "devices", len(result.Series))
	return result, nil
}

func (s *Service) countWritten(kind string, files []domain.WrittenFile) {
	for _, file := range files {
		if s.recorder != nil {
			s.recorder.FileWritten(kind)
		}
		s.info("csv written", "path", file.Path, "device_id", file.DeviceID, "records", file.Records, "bytes", file.Bytes)
	}
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
