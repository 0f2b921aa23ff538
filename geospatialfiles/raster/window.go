// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package raster

import "math"

// GeoTransform is the north-up affine mapping between pixel and map
// coordinates. PixelHeight is negative.
type GeoTransform struct {
	OriginX, PixelWidth  float64
	OriginY, PixelHeight float64
}

// ToPixel returns the fractional (column, row) of a map coordinate.
func (gt GeoTransform) ToPixel(x, y float64) (column, row float64) {
	return (x - gt.OriginX) / gt.PixelWidth, (y - gt.OriginY) / gt.PixelHeight
}

// ToGeo returns the map coordinate of a fractional pixel position. Pass
// column+0.5, row+0.5 for the centre of a pixel.
func (gt GeoTransform) ToGeo(column, row float64) (x, y float64) {
	return gt.OriginX + column*gt.PixelWidth, gt.OriginY + row*gt.PixelHeight
}

// PixelSize is the (square) pixel edge length.
func (gt GeoTransform) PixelSize() float64 {
	return math.Abs(gt.PixelWidth)
}

// Window is a block of pixels read from a raster. Each pixel either holds
// an elevation or is nodata; the raster's nodata value never leaks out.
type Window struct {
	Row, Column   int
	Rows, Columns int
	values        []float64
	valid         []bool
}

func newWindow(row, column, rows, columns int) *Window {
	return &Window{
		Row: row, Column: column,
		Rows: rows, Columns: columns,
		values: make([]float64, rows*columns),
		valid:  make([]bool, rows*columns),
	}
}

func (w *Window) set(row, column int, z float64) {
	w.values[row*w.Columns+column] = z
	w.valid[row*w.Columns+column] = true
}

// At returns the elevation at a window-local pixel and whether it holds data.
func (w *Window) At(row, column int) (float64, bool) {
	if row < 0 || row >= w.Rows || column < 0 || column >= w.Columns {
		return 0, false
	}
	i := row*w.Columns + column
	return w.values[i], w.valid[i]
}

// ValidCount returns the number of pixels holding data.
func (w *Window) ValidCount() int {
	n := 0
	for _, v := range w.valid {
		if v {
			n++
		}
	}
	return n
}

// MaxValid returns the highest elevation in the window, if any pixel holds data.
func (w *Window) MaxValid() (float64, bool) {
	found := false
	hi := -math.MaxFloat64
	for i, v := range w.valid {
		if v && w.values[i] > hi {
			hi = w.values[i]
			found = true
		}
	}
	return hi, found
}
