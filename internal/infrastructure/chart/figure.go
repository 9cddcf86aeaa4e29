package chart

import "gonum.org/v1/plot/vg"

// Figure is a grid of panels saved as one file.
type Figure struct {
	Panels []Panel
	// Columns defaults to 1, stacking panels vertically.
	Columns int
	Width   vg.Length
	// RowHeight is the height of a single grid row.
	RowHeight vg.Length
}

// Panel is one set of axes. A panel may mix lines, histograms and box plots,
// or hold a text table only.
type Panel struct {
	Title  string
	XLabel string
	YLabel string
	// TimeAxis renders X values, given as Unix seconds, as clock times.
	TimeAxis bool
	// YFromZero pins the bottom of the Y axis to zero.
	YFromZero bool

	Lines      []Line
	Histograms []Histogram
	Boxes      []Box
	// Notes are legend entries without a sample, used for annotations.
	Notes []string
	// Table turns the panel into a plain text block, one row per entry.
	Table []string
}

// Line is a polyline. Non-finite points are dropped when drawn.
type Line struct {
	Label  string
	X, Y   []float64
	Dashed bool
	// Color indexes the shared palette. Negative means the line position.
	Color int
}

type Histogram struct {
	Label  string
	Values []float64
	Bins   int
}

type Box struct {
	Label  string
	Values []float64
}

func (f Figure) columns() int {
	if f.Columns < 1 {
		return 1
	}
	return f.Columns
}

func (f Figure) rows() int {
	cols := f.columns()
	return (len(f.Panels) + cols - 1) / cols
}
