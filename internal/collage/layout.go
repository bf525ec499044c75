package collage

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lehigh-university-libraries/contactsheet/internal/bars"
)

// Layout is the fixed geometry of one collage. It is built once per collage
// and passed by value.
type Layout struct {
	Columns      int
	Rows         int
	CellWidth    int
	CellHeight   int
	BorderWidth  int
	BorderColor  color.NRGBA
	CellPadding  int
	OuterMargin  int
	RemoveBars   bool
	BarThreshold float64
	AutoOrient   bool // apply EXIF orientation while decoding
	Quality      int  // JPEG quality (1-100)
}

// DefaultLayout returns the contact-sheet defaults: five 250x350 columns, a
// 1px black grid, 10px white cell padding and a 30px white margin.
func DefaultLayout() Layout {
	return Layout{
		Columns:      5,
		Rows:         2,
		CellWidth:    250,
		CellHeight:   350,
		BorderWidth:  1,
		BorderColor:  color.NRGBA{A: 0xff},
		CellPadding:  10,
		OuterMargin:  30,
		RemoveBars:   true,
		BarThreshold: bars.DefaultThreshold,
		Quality:      95,
	}
}

// Validate checks that the layout describes a drawable grid.
func (l Layout) Validate() error {
	var errs []error
	if l.Columns < 1 {
		errs = append(errs, fmt.Errorf("columns must be at least 1, got %d", l.Columns))
	}
	if l.Rows < 1 {
		errs = append(errs, fmt.Errorf("rows must be at least 1, got %d", l.Rows))
	}
	if l.CellWidth < 1 || l.CellHeight < 1 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %dx%d", l.CellWidth, l.CellHeight))
	}
	if l.BorderWidth < 0 {
		errs = append(errs, fmt.Errorf("border width must not be negative, got %d", l.BorderWidth))
	}
	if l.OuterMargin < 0 {
		errs = append(errs, fmt.Errorf("outer margin must not be negative, got %d", l.OuterMargin))
	}
	if l.CellPadding < 0 {
		errs = append(errs, fmt.Errorf("cell padding must not be negative, got %d", l.CellPadding))
	} else if avail := l.Available(); avail.X < 1 || avail.Y < 1 {
		errs = append(errs, fmt.Errorf("cell padding %d leaves no room in a %dx%d cell", l.CellPadding, l.CellWidth, l.CellHeight))
	}
	if l.Quality < 1 || l.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be between 1 and 100, got %d", l.Quality))
	}
	return errors.Join(errs...)
}

// Capacity is the number of cells in the grid.
func (l Layout) Capacity() int {
	return l.Columns * l.Rows
}

// Available is the area inside a cell left for the image after padding.
func (l Layout) Available() image.Point {
	return image.Pt(l.CellWidth-2*l.CellPadding, l.CellHeight-2*l.CellPadding)
}

// GridSize is the bordered cell matrix, excluding the outer margin.
func (l Layout) GridSize() image.Point {
	return image.Pt(
		l.Columns*l.CellWidth+(l.Columns+1)*l.BorderWidth,
		l.Rows*l.CellHeight+(l.Rows+1)*l.BorderWidth,
	)
}

// CanvasSize is the output size: grid plus the margin on every side.
func (l Layout) CanvasSize() image.Point {
	g := l.GridSize()
	return image.Pt(g.X+2*l.OuterMargin, g.Y+2*l.OuterMargin)
}

// CellPosition returns the row-major row and column of the cell at index.
func (l Layout) CellPosition(index int) (row, col int) {
	return index / l.Columns, index % l.Columns
}

// CellOrigin returns the top-left corner of the cell at index, relative to
// the grid.
func (l Layout) CellOrigin(index int) image.Point {
	row, col := l.CellPosition(index)
	return image.Pt(
		l.BorderWidth+col*(l.CellWidth+l.BorderWidth),
		l.BorderWidth+row*(l.CellHeight+l.BorderWidth),
	)
}

// WithRowsFor returns a copy of l with just enough rows to hold count images.
func (l Layout) WithRowsFor(count int) Layout {
	l.Rows = RowsFor(count, l.Columns)
	return l
}

// RowsFor is ceil(count / cols), with a minimum of one row.
func RowsFor(count, cols int) int {
	if cols < 1 || count < 1 {
		return 1
	}
	return (count + cols - 1) / cols
}
