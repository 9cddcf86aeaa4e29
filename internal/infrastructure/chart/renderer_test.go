package chart_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercap-metrics/internal/infrastructure/chart"
)

type formatRecorder struct {
	formats []string
}

func (f *formatRecorder) RecordsLoaded(int) {}
func (f *formatRecorder) RecordsSkipped(int) {}
func (f *formatRecorder) FileWritten(string) {}
func (f *formatRecorder) FileFailed() {}
func (f *formatRecorder) ChartRendered(format string) { f.formats = append(f.formats, format) }
func (f *formatRecorder) ConfigWarning() {}

func sampleFigure() chart.Figure {
	return chart.Figure{Panels: []chart.Panel{{
		Title:    "Power per device",
		XLabel:   "Time",
		YLabel:   "Power (W)",
		TimeAxis: true,
		Lines: []chart.Line{
			{Label: "chirop-5", X: []float64{1704067200, 1704067201, 1704067202}, Y: []float64{10, 12, 11}},
			{Label: "mean", X: []float64{1704067200, 1704067201, 1704067202}, Y: []float64{math.NaN(), 11, math.NaN()}, Color: 1, Dashed: true},
		},
		Notes: []string{"Package: 15W"},
	}}}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderWritesEachFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	recorder := &formatRecorder{}
	renderer := chart.NewRenderer(recorder)

	for _, name := range []string{"curves.png", "curves.pdf", "curves.svg"} {
		require.NoError(t, renderer.Render(filepath.Join(dir, name), sampleFigure()))
		assertNonEmptyFile(t, filepath.Join(dir, name))
	}
	assert.Equal(t, []string{"png", "pdf", "svg"}, recorder.formats)
}

func TestRenderGridWithMixedPanels(t *testing.T) {
	t.Parallel()

	values := []float64{10, 12, 11, 15, 9, 13}
	fig := chart.Figure{
		Columns: 2,
		Panels: []chart.Panel{
			{Title: "curves", Lines: []chart.Line{{Label: "a", X: []float64{0, 1, 2}, Y: []float64{1, 2, 3}}}},
			{Title: "histogram", Histograms: []chart.Histogram{{Label: "a", Values: values, Bins: 4}}},
			{Title: "boxes", Boxes: []chart.Box{{Label: "a", Values: values}, {Label: "empty"}}},
			{Title: "summary", Table: []string{"device  mean", "a  11.7"}},
			{Title: "odd panel", YFromZero: true},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "comparison.png")
	require.NoError(t, chart.NewRenderer(nil).Render(path, fig))
	assertNonEmptyFile(t, path)
}

func TestRenderFormats(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "chirop5_power_combined")

	paths, err := chart.NewRenderer(nil).RenderFormats(base, []string{"pdf", ".png"}, sampleFigure())

	require.NoError(t, err)
	assert.Equal(t, []string{base + ".pdf", base + ".png"}, paths)
	for _, path := range paths {
		assertNonEmptyFile(t, path)
	}
}

func TestRenderRejectsEmptyFigure(t *testing.T) {
	t.Parallel()

	err := chart.NewRenderer(nil).Render(filepath.Join(t.TempDir(), "x.png"), chart.Figure{})

	assert.ErrorIs(t, err, chart.ErrEmptyFigure)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.bmp")
	err := chart.NewRenderer(nil).Render(path, sampleFigure())

	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "png", chart.Format("out/curves.PNG"))
	assert.Equal(t, "pdf", chart.Format("a.b.pdf"))
	assert.Equal(t, "", chart.Format("noext"))
}

func TestColorCyclesPastPalette(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, chart.Color(0), chart.Color(1))
	assert.Equal(t, chart.Color(0), chart.Color(-3))
	assert.NotNil(t, chart.Color(12))
}
