// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"github.com/paulmach/orb"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
	"github.com/threedi/beta-plugins-sub000/structures"
)

// Cell is one computational cell together with the DEM pixels it covers.
// Pixels are never modified after construction.
type Cell struct {
	ID   int
	BBox orb.Bound

	// Row and Column of the top-left pixel in the DEM pixel frame.
	Row, Column int
	Pixels      *structures.RectangularArrayFloat64

	// Empty is set when no pixel of the cell holds data.
	Empty bool

	// Neighbours per side, ordered west to east (Top, Bottom) or north to
	// south (Left, Right).
	Neighbours [4][]*Cell
}

// newCell converts a DEM window into cell pixels. Nodata pixels get the
// sentinel elevation, which lies above every valid pixel of the cell.
func newCell(id int, bbox orb.Bound, w *raster.Window, emptySentinel float64, opts Options) *Cell {
	c := &Cell{
		ID:     id,
		BBox:   bbox,
		Row:    w.Row,
		Column: w.Column,
		Pixels: structures.NewRectangularArrayFloat64(w.Rows, w.Columns, 0),
	}
	sentinel := emptySentinel
	if hi, ok := w.MaxValid(); ok {
		sentinel = hi + opts.MinObstacleHeight + opts.SearchPrecision
	} else {
		c.Empty = true
	}
	for row := 0; row < w.Rows; row++ {
		for col := 0; col < w.Columns; col++ {
			if z, ok := w.At(row, col); ok {
				c.Pixels.SetValue(row, col, z)
			} else {
				c.Pixels.SetValue(row, col, sentinel)
			}
		}
	}
	return c
}

func (c *Cell) Width() int  { return c.Pixels.GetColumns() }
func (c *Cell) Height() int { return c.Pixels.GetRows() }

// Min and Max are taken over all pixels, sentinels included.
func (c *Cell) Min() float64 { return c.Pixels.Min() }
func (c *Cell) Max() float64 { return c.Pixels.Max() }

// EdgePixels returns the pixels along one side: west to east for Top and
// Bottom, north to south for Left and Right. Profiles of abutting cells can
// therefore be concatenated in spatial order.
func (c *Cell) EdgePixels(side Side) []float64 {
	switch side {
	case Top:
		return c.Pixels.GetRowData(0)
	case Bottom:
		return c.Pixels.GetRowData(c.Height() - 1)
	case Left:
		return c.Pixels.GetColumnData(0)
	}
	return c.Pixels.GetColumnData(c.Width() - 1)
}

// edgePosition is the local position of the i-th pixel of a side profile.
func (c *Cell) edgePosition(side Side, i int) Position {
	switch side {
	case Top:
		return Position{Cell: c, Row: 0, Col: i}
	case Bottom:
		return Position{Cell: c, Row: c.Height() - 1, Col: i}
	case Left:
		return Position{Cell: c, Row: i, Col: 0}
	}
	return Position{Cell: c, Row: i, Col: c.Width() - 1}
}

// Maxima returns the local maxima along one side that rise at least
// minPeakProminence above the surrounding profile.
func (c *Cell) Maxima(side Side, minPeakProminence float64) []Position {
	if c.Empty {
		return nil
	}
	peaks := findPeaks(c.EdgePixels(side), minPeakProminence)
	ret := make([]Position, len(peaks))
	for i, p := range peaks {
		ret[i] = c.edgePosition(side, p)
	}
	return ret
}

// extent returns the half-open pixel rows and columns covered by the cell.
func (c *Cell) extent() (row0, col0, row1, col1 int) {
	return c.Row, c.Column, c.Row + c.Height(), c.Column + c.Width()
}

// locate returns on which side of c the cell n lies, if the two abut.
func (c *Cell) locate(n *Cell) (Side, bool) {
	r0, c0, r1, c1 := c.extent()
	nr0, nc0, nr1, nc1 := n.extent()
	rowsOverlap := maxInt(r0, nr0) < minInt(r1, nr1)
	colsOverlap := maxInt(c0, nc0) < minInt(c1, nc1)
	switch {
	case nc0 == c1 && rowsOverlap:
		return Right, true
	case nc1 == c0 && rowsOverlap:
		return Left, true
	case nr1 == r0 && colsOverlap:
		return Top, true
	case nr0 == r1 && colsOverlap:
		return Bottom, true
	}
	return 0, false
}

// Position is a pixel in the local frame of a cell.
type Position struct {
	Cell     *Cell
	Row, Col int
}

// Value is the (sentinel filled) elevation at the position.
func (p Position) Value() float64 {
	return p.Cell.Pixels.Value(p.Row, p.Col)
}

// Global returns the position in the DEM pixel frame.
func (p Position) Global() (row, col int) {
	return p.Cell.Row + p.Row, p.Cell.Column + p.Col
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
