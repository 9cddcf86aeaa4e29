package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"powercap-metrics/internal/application/batch"
	"powercap-metrics/internal/application/converter"
	"powercap-metrics/internal/application/plotting"
)

type command func(ctx context.Context, app *application, args []string, out io.Writer) error

var commands = map[string]command{
	"extract":      runExtract,
	"split":        runSplit,
	"plot":         runPlot,
	"device-power": runDevicePower,
	"timewindow":   runTimeWindow,
}

var (
	defaultPowerRuns = []plotting.Experiment{
		{MetricsPath: "metrics_powercap_lille_chirop_0001.json", ConfigPath: "id_0001.txt"},
		{MetricsPath: "metrics_powercap_lille_chirop_0002.json", ConfigPath: "id_0002.txt"},
		{MetricsPath: "metrics_powercap_lille_chirop_0003.json", ConfigPath: "id_0003.txt"},
	}
	defaultTimeWindowRuns = []plotting.Experiment{
		{MetricsPath: "metrics_powercap_lille_chirop_0002.json", ConfigPath: "id_0002.txt"},
		{MetricsPath: "metrics_powercap_lille_chirop_0004.json", ConfigPath: "id_0004.txt"},
		{MetricsPath: "metrics_powercap_lille_chirop_0005.json", ConfigPath: "id_0005.txt"},
	}
)

func runExtract(ctx context.Context, app *application, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	input := fs.String("input", app.Config.MetricsInput, "JSON metrics log")
	outputDir := fs.String("out", app.Config.CSVOutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := app.Converter.ExtractPowerMetrics(ctx, *input, *outputDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d files written to %s (%d records skipped)\n", len(result.Files), *outputDir, result.Skipped)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tRECORDS\tFROM\tTO\tMIN (W)\tMAX (W)\tMEAN (W)")
	for _, summary := range result.Summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
			summary.DeviceID, summary.Records, summary.FirstTimestamp, summary.LastTimestamp,
			summary.Power.Min, summary.Power.Max, summary.Power.Mean)
	}
	return tw.Flush()
}

func runSplit(ctx context.Context, app *application, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	dir := fs.String("dir", ".", "directory scanned when no file is given")
	prefix := fs.String("prefix", app.Config.PowercapPrefix, "file name prefix of the metrics logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		results []converter.SplitResult
		report  batch.Report
		err     error
	)
	if fs.NArg() > 0 {
		results, report, err = app.Converter.SplitFiles(ctx, fs.Args())
	} else {
		results, report, err = app.Converter.SplitDirectory(ctx, *dir, *prefix)
	}

	fmt.Fprintf(out, "%d files written from %d inputs (%d failed)\n", countSplit(results), len(report.Processed), len(report.Failed))
	return firstErr(err, report.Err())
}

func runPlot(ctx context.Context, app *application, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	input := fs.String("input", "", "JSON metrics log or power metrics CSV directory")
	output := fs.String("out", "power_curves.png", "chart path, format from the extension")
	title := fs.String("title", "", "chart title")
	withStats := fs.Bool("stats", false, "also render the rolling mean and difference chart")
	withComparison := fs.Bool("comparison", false, "also render the histogram and box plot chart")
	window := fs.Int("window", app.Config.RollingWindow, "rolling mean window, in samples")
	bins := fs.Int("bins", app.Config.HistogramBins, "histogram bins")
	if err := fs.Parse(args); err != nil {
		return err
	}

	source := *input
	if source == "" {
		source = defaultPlotInput(app)
	}

	result, err := app.Plotter.PowerCurves(ctx, plotting.CurvesRequest{
		Input:      source,
		Output:     *output,
		Title:      *title,
		Statistics: *withStats,
		Comparison: *withComparison,
		Window:     *window,
		Bins:       *bins,
	})
	for _, path := range result.Charts {
		fmt.Fprintf(out, "chart written: %s\n", path)
	}
	for _, summary := range result.Summaries {
		fmt.Fprintf(out, "%s: %.1fW - %.1fW (mean %.1fW)\n",
			summary.DeviceID, summary.Power.Min, summary.Power.Max, summary.Power.Mean)
	}
	return err
}

func runDevicePower(ctx context.Context, app *application, args []string, out io.Writer) error {
	req, err := parseDeviceRequest("device-power", app, args, "chirop5_power", defaultPowerRuns)
	if err != nil {
		return err
	}

	result, err := app.Plotter.DevicePower(ctx, req)
	for i, limits := range result.Limits {
		fmt.Fprintf(out, "%s: package=%s dram=%s\n", req.Experiments[i].MetricsPath,
			formatOptional(limits.PackageWatts, "W"), formatOptional(limits.DRAMWatts, "W"))
	}
	printCharts(out, result.Charts)
	return err
}

func runTimeWindow(ctx context.Context, app *application, args []string, out io.Writer) error {
	req, err := parseDeviceRequest("timewindow", app, args, "chirop5_timewindow_comparison", defaultTimeWindowRuns)
	if err != nil {
		return err
	}

	result, err := app.Plotter.TimeWindowComparison(ctx, req)
	for i, window := range result.TimeWindows {
		fmt.Fprintf(out, "%s: time window=%s\n", req.Experiments[i].MetricsPath, formatOptional(window.Milliseconds, " ms"))
	}
	printCharts(out, result.Charts)
	return err
}

func parseDeviceRequest(name string, app *application, args []string, defaultBase string, defaults []plotting.Experiment) (plotting.DeviceRequest, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	device := fs.String("device", app.Config.TargetDevice, "device id to plot")
	base := fs.String("out", defaultBase, "output path without extension")
	formats := fs.String("formats", strings.Join(plotting.DefaultFormats, ","), "comma separated output formats")

	var runs []plotting.Experiment
	fs.Func("run", "experiment as metrics.json,config.txt[,name] (repeatable)", func(value string) error {
		parts := strings.Split(value, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("expected metrics.json,config.txt[,name], got %q", value)
		}
		exp := plotting.Experiment{MetricsPath: parts[0], ConfigPath: parts[1]}
		if len(parts) == 3 {
			exp.Name = parts[2]
		}
		runs = append(runs, exp)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return plotting.DeviceRequest{}, err
	}
	if len(runs) == 0 {
		runs = defaults
	}

	return plotting.DeviceRequest{
		DeviceID:    *device,
		Experiments: runs,
		OutputBase:  *base,
		Formats:     splitList(*formats),
	}, nil
}

// defaultPlotInput prefers the configured metrics log and falls back to the
// CSV output directory.
func defaultPlotInput(app *application) string {
	if _, err := os.Stat(app.Config.MetricsInput); err == nil {
		return app.Config.MetricsInput
	}
	return app.Config.CSVOutputDir
}

func countSplit(results []converter.SplitResult) int {
	n := 0
	for _, result := range results {
		n += len(result.Files)
	}
	return n
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g%s", *v, unit)
}

func printCharts(out io.Writer, charts []string) {
	for _, path := range charts {
		fmt.Fprintf(out, "chart written: %s\n", path)
	}
}
