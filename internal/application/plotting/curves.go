package plotting

import (
	"context"
	"fmt"

	"powercap-metrics/internal/application/grouper"
	"powercap-metrics/internal/application/stats"
	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/infrastructure/chart"
)

const defaultTitle = "Power per device"

// CurvesRequest configures PowerCurves.
type CurvesRequest struct {
	// Input is a JSON metrics file or a directory of power metrics CSV files.
	Input string
	// Output is the main chart path. Statistics and comparison charts are
	// written next to it with _stats and _comparison suffixes.
	Output     string
	Title      string
	Statistics bool
	Comparison bool
	// Window is the rolling mean size, in samples.
	Window int
	Bins   int
}

// CurvesResult lists the charts written and the per-device summaries.
type CurvesResult struct {
	Charts    []string
	Summaries []grouper.Summary
}

// PowerCurves renders the power of every device over time.
func (s *Service) PowerCurves(ctx context.Context, req CurvesRequest) (CurvesResult, error) {
	series, err := s.loadSeries(ctx, req.Input)
	if err != nil {
		return CurvesResult{}, err
	}

	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	result := CurvesResult{Summaries: grouper.SummarizeAll(series)}
	for _, summary := range result.Summaries {
		s.info("device loaded", "device_id", summary.DeviceID, "records", summary.Records,
			"min_watts", summary.Power.Min, "max_watts", summary.Power.Max)
	}

	panel := curvesPanel(series)
	panel.Title = title
	if err := s.render(req.Output, chart.Figure{Panels: []chart.Panel{panel}}); err != nil {
		return result, err
	}
	result.Charts = append(result.Charts, req.Output)

	if req.Statistics {
		path := withSuffix(req.Output, "_stats")
		if err := s.render(path, StatisticsFigure(series, req.Window)); err != nil {
			return result, err
		}
		result.Charts = append(result.Charts, path)
	}

	if req.Comparison {
		path := withSuffix(req.Output, "_comparison")
		if err := s.render(path, ComparisonFigure(series, req.Bins)); err != nil {
			return result, err
		}
		result.Charts = append(result.Charts, path)
	}

	return result, nil
}

// StatisticsFigure stacks the raw curves with their rolling mean above the
// difference between the first two devices.
func StatisticsFigure(series []domain.DeviceSeries, window int) chart.Figure {
	top := chart.Panel{
		Title:    fmt.Sprintf("Power with rolling mean (%d samples)", window),
		YLabel:   "Power (W)",
		TimeAxis: true,
	}
	for i, item := range series {
		x, y, timeAxis := axisValues(item.Points)
		top.TimeAxis = top.TimeAxis && timeAxis
		top.Lines = append(top.Lines,
			chart.Line{Label: item.DeviceID, X: x, Y: y, Color: i},
			chart.Line{X: x, Y: stats.RollingMean(y, window), Color: i, Dashed: true},
		)
	}

	fig := chart.Figure{Panels: []chart.Panel{top}}
	if len(series) < 2 {
		fig.Panels[0].XLabel = "Time"
		return fig
	}

	first, second := series[0], series[1]
	diff := stats.Difference(first, second)
	points := make([]domain.SeriesPoint, len(diff))
	for i, d := range diff {
		points[i] = domain.SeriesPoint{Timestamp: d.Timestamp, Value: d.Value}
	}
	x, y, timeAxis := axisValues(points)

	bottom := chart.Panel{
		Title:    fmt.Sprintf("Power difference: %s - %s", first.DeviceID, second.DeviceID),
		XLabel:   "Time",
		YLabel:   "Difference (W)",
		TimeAxis: timeAxis,
		Lines:    []chart.Line{{X: x, Y: y, Color: 3}},
	}
	if len(x) > 0 {
		bottom.Lines = append(bottom.Lines, chart.Line{
			X:      []float64{x[0], x[len(x)-1]},
			Y:      []float64{0, 0},
			Color:  4,
			Dashed: true,
		})
	}
	fig.Panels = append(fig.Panels, bottom)
	return fig
}

// ComparisonFigure lays out curves, histograms, box plots and a statistics
// table on a two by two grid.
func ComparisonFigure(series []domain.DeviceSeries, bins int) chart.Figure {
	curves := curvesPanel(series)
	curves.Title = "Power consumption"
	curves.XLabel = ""

	hist := chart.Panel{Title: "Power distribution", XLabel: "Power (W)", YLabel: "Frequency"}
	boxes := chart.Panel{Title: "Statistics per device", YLabel: "Power (W)"}
	table := chart.Panel{Title: "Summary", Table: []string{"device  mean  median  std  min  max"}}

	for _, item := range series {
		values := item.Values()
		hist.Histograms = append(hist.Histograms, chart.Histogram{Label: item.DeviceID, Values: values, Bins: bins})
		boxes.Boxes = append(boxes.Boxes, chart.Box{Label: item.DeviceID, Values: values})

		d := stats.Describe(values)
		table.Table = append(table.Table, fmt.Sprintf("%s  %.1f  %.1f  %.1f  %.1f  %.1f",
			item.DeviceID, d.Mean, d.Median, d.StdDev, d.Min, d.Max))
	}

	return chart.Figure{
		Panels:  []chart.Panel{curves, hist, boxes, table},
		Columns: 2,
		Width:   2 * chart.DefaultWidth,
	}
}

func curvesPanel(series []domain.DeviceSeries) chart.Panel {
	panel := chart.Panel{XLabel: "Time", YLabel: "Power (W)", TimeAxis: true}
	for i, item := range series {
		x, y, timeAxis := axisValues(item.Points)
		panel.TimeAxis = panel.TimeAxis && timeAxis
		panel.Lines = append(panel.Lines, chart.Line{Label: item.DeviceID, X: x, Y: y, Color: i})
	}
	if !panel.TimeAxis {
		panel.XLabel = "Sample"
	}
	return panel
}

// axisValues maps points to Unix seconds when every timestamp parses, and to
// sample indexes otherwise.
func axisValues(points []domain.SeriesPoint) (x, y []float64, timeAxis bool) {
	x = make([]float64, len(points))
	y = make([]float64, len(points))
	timeAxis = true
	for i, point := range points {
		y[i] = point.Value
		ts, err := domain.ParseTimestamp(point.Timestamp)
		if err != nil {
			timeAxis = false
			continue
		}
		x[i] = float64(ts.UnixNano()) / 1e9
	}
	if !timeAxis {
		for i := range x {
			x[i] = float64(i)
		}
	}
	return x, y, timeAxis
}

func (s *Service) render(path string, fig chart.Figure) error {
	if err := s.renderer.Render(path, fig); err != nil {
		return fmt.Errorf("plotting: render %s: %w", path, err)
	}
	s.info("chart written", "path", path)
	return nil
}
