package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"powercap-metrics/internal/domain"
)

const (
	DefaultWidth     = 7 * vg.Inch
	DefaultRowHeight = 4 * vg.Inch
	boxWidth         = 20
	timeFormat       = "15:04:05"
)

// ErrEmptyFigure is returned for a figure without panels.
var ErrEmptyFigure = errors.New("chart: figure has no panels")

var palette = []color.Color{
	color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff},
	color.RGBA{R: 0xa2, G: 0x3b, B: 0x72, A: 0xff},
	color.RGBA{R: 0xf1, G: 0x8f, B: 0x01, A: 0xff},
}

// Color returns the palette entry for i, cycling through plotutil colors past
// the report palette.
func Color(i int) color.Color {
	if i < 0 {
		i = 0
	}
	if i < len(palette) {
		return palette[i]
	}
	return plotutil.Color(i - len(palette))
}

// Renderer draws figures with gonum/plot. The file format follows the path
// extension: png, pdf, svg, eps, jpg or tif.
type Renderer struct {
	recorder domain.RunRecorder
}

// NewRenderer creates a renderer. recorder may be nil.
func NewRenderer(recorder domain.RunRecorder) *Renderer {
	return &Renderer{recorder: recorder}
}

// Render writes fig to path.
func (r *Renderer) Render(path string, fig Figure) error {
	if len(fig.Panels) == 0 {
		return ErrEmptyFigure
	}

	format := Format(path)
	rows, cols := fig.rows(), fig.columns()

	width := fig.Width
	if width == 0 {
		width = DefaultWidth
	}
	rowHeight := fig.RowHeight
	if rowHeight == 0 {
		rowHeight = DefaultRowHeight
	}

	grid := make([][]*plot.Plot, rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, cols)
		for j := range grid[i] {
			idx := i*cols + j
			if idx >= len(fig.Panels) {
				blank := plot.New()
				blank.HideAxes()
				grid[i][j] = blank
				continue
			}
			p, err := buildPlot(fig.Panels[idx])
			if err != nil {
				return fmt.Errorf("chart: panel %d: %w", idx, err)
			}
			grid[i][j] = p
		}
	}

	canvas, err := draw.NewFormattedCanvas(width, vg.Length(rows)*rowHeight, format)
	if err != nil {
		return fmt.Errorf("chart: %s: %w", path, err)
	}

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, draw.New(canvas))
	for i := range grid {
		for j := range grid[i] {
			grid[i][j].Draw(canvases[i][j])
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("chart: create dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := canvas.WriteTo(file); err != nil {
		return fmt.Errorf("chart: write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("chart: close %s: %w", path, err)
	}

	if r.recorder != nil {
		r.recorder.ChartRendered(format)
	}
	return nil
}

// RenderFormats writes fig once per format next to base, which carries no
// extension, and returns the written paths.
func (r *Renderer) RenderFormats(base string, formats []string, fig Figure) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + strings.TrimPrefix(format, ".")
		if err := r.Render(path, fig); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Format returns the lower-cased extension of path without the dot.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func buildPlot(panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Legend.Top = true

	if len(panel.Table) > 0 {
		return tablePlot(p, panel.Table)
	}

	p.Add(plotter.NewGrid())
	if panel.TimeAxis {
		p.X.Tick.Marker = plot.TimeTicks{Format: timeFormat}
	}

	for i, item := range panel.Lines {
		points := finitePoints(item.X, item.Y)
		if len(points) == 0 {
			continue
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", item.Label, err)
		}
		colorIdx := item.Color
		if colorIdx < 0 {
			colorIdx = i
		}
		line.Color = Color(colorIdx)
		line.Width = vg.Points(1.5)
		if item.Dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		if item.Label != "" {
			p.Legend.Add(item.Label, line)
		}
	}

	for i, item := range panel.Histograms {
		values := finiteValues(item.Values)
		if len(values) == 0 {
			continue
		}
		bins := item.Bins
		if bins < 1 {
			bins = 1
		}
		hist, err := plotter.NewHist(values, bins)
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", item.Label, err)
		}
		hist.FillColor = withAlpha(Color(i), 0x80)
		hist.Color = Color(i)
		p.Add(hist)
		if item.Label != "" {
			p.Legend.Add(item.Label, hist)
		}
	}

	if len(panel.Boxes) > 0 {
		names := make([]string, 0, len(panel.Boxes))
		for i, item := range panel.Boxes {
			values := finiteValues(item.Values)
			names = append(names, item.Label)
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(i), values)
			if err != nil {
				return nil, fmt.Errorf("box %q: %w", item.Label, err)
			}
			box.FillColor = withAlpha(Color(i), 0x80)
			p.Add(box)
		}
		p.NominalX(names...)
	}

	for _, note := range panel.Notes {
		p.Legend.Add(note)
	}

	if panel.YFromZero {
		p.Y.Min = 0
		if p.Y.Max <= 0 {
			p.Y.Max = 1
		}
	}
	return p, nil
}

func tablePlot(p *plot.Plot, rows []string) (*plot.Plot, error) {
	p.HideAxes()

	xys := make(plotter.XYs, len(rows))
	for i := range rows {
		xys[i] = plotter.XY{X: 0, Y: float64(len(rows) - i)}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: rows})
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	p.Add(labels)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, float64(len(rows)+1)
	return p, nil
}

func finitePoints(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	points := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(x[i]) && isFinite(y[i]) {
			points = append(points, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return points
}

func finiteValues(values []float64) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func withAlpha(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
