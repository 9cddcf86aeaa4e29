package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliMetrics = `[
	{"device_id": "chirop-5", "timestamp": "2024-01-01T00:00:01", "value": -12},
	{"device_id": "chirop-5", "timestamp": "2024-01-01T00:00:00", "value": -10},
	{"device_id": "chirop-6", "timestamp": "2024-01-01T00:00:00", "value": 4},
	{"device_id": "chirop-6"}
]`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("METRICS_TEXTFILE", filepath.Join(dir, "powermetrics.prom"))
	return dir
}

func TestRunWithoutCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: powermetrics")
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), `unknown command "frobnicate"`)
}

func TestRunExtract(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(input, []byte(cliMetrics), 0o644))
	output := filepath.Join(dir, "csv_output")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"extract", "-input", input, "-out", output}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "2 files written")
	assert.Contains(t, stdout.String(), "1 records skipped")
	assert.FileExists(t, filepath.Join(output, "chirop-5_power_metrics.csv"))
	assert.FileExists(t, filepath.Join(output, "chirop-6_power_metrics.csv"))

	textfile, err := os.ReadFile(filepath.Join(dir, "powermetrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(textfile), "powermetrics_records_loaded_total 4")
	assert.Contains(t, string(textfile), `powermetrics_files_written_total{kind="power_metrics"} 2`)
}

func TestRunExtractMalformedInput(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"device_id": "a"}`), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"extract", "-input", input, "-out", filepath.Join(dir, "out")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "malformed input")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestRunSplitDirectory(t *testing.T) {
	dir := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics_powercap_1.json"), []byte(cliMetrics), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics_powercap_2.json"), []byte(`null`), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"split", "-dir", dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "2 files written from 1 inputs (1 failed)")
	assert.FileExists(t, filepath.Join(dir, "metrics_powercap_1_chirop-5.csv"))
	assert.FileExists(t, filepath.Join(dir, "metrics_powercap_1_chirop-6.csv"))
}

func TestRunPlot(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(input, []byte(cliMetrics), 0o644))
	output := filepath.Join(dir, "curves.png")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"plot", "-input", input, "-out", output, "-stats", "-window", "2"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(dir, "curves_stats.png"))
	assert.Contains(t, stdout.String(), "chirop-5: -12.0W - -10.0W")
	assert.Contains(t, stdout.String(), "chirop-6: 4.0W - 4.0W")
}

func TestRunDevicePowerMissingFiles(t *testing.T) {
	dir := setupEnv(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"device-power",
		"-run", filepath.Join(dir, "a.json") + "," + filepath.Join(dir, "a.txt"),
		"-out", filepath.Join(dir, "out"),
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "a.json")
}

func TestRunTimeWindow(t *testing.T) {
	dir := setupEnv(t)
	metrics := filepath.Join(dir, "run.json")
	configDump := filepath.Join(dir, "id_0002.txt")
	require.NoError(t, os.WriteFile(metrics, []byte(cliMetrics), 0o644))
	require.NoError(t, os.WriteFile(configDump, []byte("name: package-0\nname: long_term\ntime_window_us: 2440000\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"timewindow",
		"-run", metrics + "," + configDump + ",baseline",
		"-out", filepath.Join(dir, "tw"),
		"-formats", "png",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "time window=2440 ms")
	assert.FileExists(t, filepath.Join(dir, "tw.png"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"pdf", "png"}, splitList(" pdf, ,png"))
	assert.Nil(t, splitList(""))
}
