package plotting

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"powercap-metrics/internal/application/grouper"
	"powercap-metrics/internal/application/stats"
	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/infrastructure/chart"
)

// Experiment pairs a metrics log with the device config dump of the same run.
type Experiment struct {
	Name        string
	MetricsPath string
	ConfigPath  string
}

func (e Experiment) label() string {
	if e.Name != "" {
		return e.Name
	}
	base := filepath.Base(e.MetricsPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DeviceRequest configures the per-device report charts.
type DeviceRequest struct {
	DeviceID    string
	Experiments []Experiment
	// OutputBase is the chart path without extension.
	OutputBase string
	Formats    []string
}

func (r DeviceRequest) formats() []string {
	if len(r.Formats) == 0 {
		return DefaultFormats
	}
	return r.Formats
}

func (r DeviceRequest) requiredFiles() []string {
	paths := make([]string, 0, 2*len(r.Experiments))
	for _, exp := range r.Experiments {
		paths = append(paths, exp.MetricsPath)
	}
	for _, exp := range r.Experiments {
		paths = append(paths, exp.ConfigPath)
	}
	return paths
}

// DeviceResult lists the charts written and the config read per experiment.
type DeviceResult struct {
	Charts      []string
	Limits      []domain.PowerLimits
	TimeWindows []domain.TimeWindow
}

type experimentCurve struct {
	seconds []float64
	watts   []float64
}

// DevicePower renders one device across experiments: a stacked chart with
// one panel per experiment annotated with its power limits, and a combined
// chart overlaying every run.
func (s *Service) DevicePower(ctx context.Context, req DeviceRequest) (DeviceResult, error) {
	curves, err := s.loadCurves(ctx, req)
	if err != nil {
		return DeviceResult{}, err
	}

	result := DeviceResult{Limits: make([]domain.PowerLimits, len(req.Experiments))}
	stacked := chart.Figure{RowHeight: chart.DefaultRowHeight * 2 / 3}
	combined := chart.Panel{XLabel: "Time (s)", YLabel: "Power (W)", YFromZero: true}

	for i, exp := range req.Experiments {
		limits := s.configs.PowerLimits(exp.ConfigPath)
		result.Limits[i] = limits

		stacked.Panels = append(stacked.Panels, chart.Panel{
			Title:     exp.label(),
			YLabel:    "Power (W)",
			YFromZero: true,
			Lines:     []chart.Line{{X: curves[i].seconds, Y: curves[i].watts, Color: i}},
			Notes:     LimitsNotes(limits),
		})

		label := PackageLabel(limits)
		if label == "" {
			label = exp.label()
		}
		combined.Lines = append(combined.Lines, chart.Line{Label: label, X: curves[i].seconds, Y: curves[i].watts, Color: i})
	}
	stacked.Panels[len(stacked.Panels)-1].XLabel = "Time (s)"

	separate, err := s.renderFormats(req.OutputBase+"_separate", req.formats(), stacked)
	result.Charts = append(result.Charts, separate...)
	if err != nil {
		return result, err
	}

	overlay, err := s.renderFormats(req.OutputBase+"_combined", req.formats(), chart.Figure{Panels: []chart.Panel{combined}})
	result.Charts = append(result.Charts, overlay...)
	if err != nil {
		return result, err
	}
	return result, nil
}

// TimeWindowComparison overlays one device across experiments, labelling each
// run with the package-0 long-term time window.
func (s *Service) TimeWindowComparison(ctx context.Context, req DeviceRequest) (DeviceResult, error) {
	curves, err := s.loadCurves(ctx, req)
	if err != nil {
		return DeviceResult{}, err
	}

	result := DeviceResult{TimeWindows: make([]domain.TimeWindow, len(req.Experiments))}
	panel := chart.Panel{XLabel: "Time (s)", YLabel: "Power (W)", YFromZero: true}

	for i, exp := range req.Experiments {
		window := s.configs.TimeWindow(exp.ConfigPath)
		result.TimeWindows[i] = window

		label := TimeWindowLabel(window)
		if label == "" {
			label = exp.label()
		}
		panel.Lines = append(panel.Lines, chart.Line{Label: label, X: curves[i].seconds, Y: curves[i].watts, Color: i})
	}

	charts, err := s.renderFormats(req.OutputBase, req.formats(), chart.Figure{Panels: []chart.Panel{panel}})
	result.Charts = charts
	if err != nil {
		return result, err
	}
	return result, nil
}

// loadCurves checks every input up front, then loads the absolute power of
// the device for each experiment with time relative to its first sample.
func (s *Service) loadCurves(ctx context.Context, req DeviceRequest) ([]experimentCurve, error) {
	if len(req.Experiments) == 0 {
		return nil, fmt.Errorf("plotting: no experiments: %w", domain.ErrNoData)
	}
	if err := requireFiles(req.requiredFiles()...); err != nil {
		return nil, err
	}

	curves := make([]experimentCurve, 0, len(req.Experiments))
	for _, exp := range req.Experiments {
		records, err := s.source.Load(ctx, exp.MetricsPath)
		if err != nil {
			return nil, fmt.Errorf("plotting: load %s: %w", exp.MetricsPath, err)
		}

		points := grouper.GroupOneDevice(records, req.DeviceID)
		if len(points) == 0 {
			s.warn("device not found", "path", exp.MetricsPath, "device_id", req.DeviceID)
		}
		seconds, watts := stats.Elapsed(points)
		s.info("device series loaded", "path", exp.MetricsPath, "device_id", req.DeviceID, "records", len(points))
		curves = append(curves, experimentCurve{seconds: seconds, watts: watts})
	}
	return curves, nil
}

func (s *Service) renderFormats(base string, formats []string, fig chart.Figure) ([]string, error) {
	paths, err := s.renderer.RenderFormats(base, formats, fig)
	if err != nil {
		return paths, fmt.Errorf("plotting: render %s: %w", base, err)
	}
	for _, path := range paths {
		s.info("chart written", "path", path)
	}
	return paths, nil
}
