// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// March. 2015.

// Package structures holds the in-memory arrays and queues shared by the
// raster readers and the leak detector.
package structures

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var ArrayLengthError = errors.New("The data length does not match the array dimensions.")
var ArrayShapeError = errors.New("The block does not fit inside the array.")

// A rectangular shaped array (matrix) of float64 type, stored row-major.
// Reads outside the array return the nodata value.
type RectangularArrayFloat64 struct {
	data          []float64
	rows, columns int
	nodata        float64
}

func NewRectangularArrayFloat64(rows, columns int, nodata float64) *RectangularArrayFloat64 {
	r := RectangularArrayFloat64{rows: rows, columns: columns, nodata: nodata}
	r.data = make([]float64, rows*columns)
	return &r
}

// Returns the number of rows
func (r *RectangularArrayFloat64) GetRows() int {
	return r.rows
}

// Returns the number of columns
func (r *RectangularArrayFloat64) GetColumns() int {
	return r.columns
}

// Retrives an individual cell value in the matrix.
func (r *RectangularArrayFloat64) Value(row, column int) float64 {
	if column >= 0 && column < r.columns && row >= 0 && row < r.rows {
		return r.data[row*r.columns+column]
	}
	return r.nodata
}

// Sets an individual cell value in the matrix.
func (r *RectangularArrayFloat64) SetValue(row, column int, value float64) {
	if column >= 0 && column < r.columns && row >= 0 && row < r.rows {
		r.data[row*r.columns+column] = value
	} // else do nothing, the cell is outside the bounds of the matrix
}

// Returns a copy of an entire row of values.
func (r *RectangularArrayFloat64) GetRowData(row int) []float64 {
	values := make([]float64, r.columns)
	copy(values, r.data[row*r.columns:(row+1)*r.columns])
	return values
}

// Returns a copy of an entire column of values, top to bottom.
func (r *RectangularArrayFloat64) GetColumnData(column int) []float64 {
	values := make([]float64, r.rows)
	for row := 0; row < r.rows; row++ {
		values[row] = r.data[row*r.columns+column]
	}
	return values
}

// Initializes all cells with a constant value.
func (r *RectangularArrayFloat64) InitializeWithConstant(value float64) {
	for i := range r.data {
		r.data[i] = value
	}
}

// Sets the data based on an existing array.
func (r *RectangularArrayFloat64) InitializeWithData(values []float64) error {
	if len(values) != r.rows*r.columns {
		return ArrayLengthError
	}
	r.data = values
	return nil
}

// Paste copies the whole of src into r with its top-left corner at (row, column).
func (r *RectangularArrayFloat64) Paste(src *RectangularArrayFloat64, row, column int) error {
	if row < 0 || column < 0 || row+src.rows > r.rows || column+src.columns > r.columns {
		return ArrayShapeError
	}
	for i := 0; i < src.rows; i++ {
		dst := r.data[(row+i)*r.columns+column : (row+i)*r.columns+column+src.columns]
		copy(dst, src.data[i*src.columns:(i+1)*src.columns])
	}
	return nil
}

// Data exposes the backing slice. Callers must not modify it.
func (r *RectangularArrayFloat64) Data() []float64 {
	return r.data
}

func (r *RectangularArrayFloat64) Min() float64 {
	return floats.Min(r.data)
}

func (r *RectangularArrayFloat64) Max() float64 {
	return floats.Max(r.data)
}

// Flat index of a row/column pair.
func (r *RectangularArrayFloat64) Index(row, column int) int {
	return row*r.columns + column
}

// A rectangular shaped array (matrix) of bool type, used as a mask.
type RectangularArrayBool struct {
	data          []bool
	rows, columns int
}

func NewRectangularArrayBool(rows, columns int) *RectangularArrayBool {
	return &RectangularArrayBool{rows: rows, columns: columns, data: make([]bool, rows*columns)}
}

func (r *RectangularArrayBool) GetRows() int {
	return r.rows
}

func (r *RectangularArrayBool) GetColumns() int {
	return r.columns
}

// Retrives an individual cell value; false outside the matrix.
func (r *RectangularArrayBool) Value(row, column int) bool {
	if column >= 0 && column < r.columns && row >= 0 && row < r.rows {
		return r.data[row*r.columns+column]
	}
	return false
}

func (r *RectangularArrayBool) SetValue(row, column int, value bool) {
	if column >= 0 && column < r.columns && row >= 0 && row < r.rows {
		r.data[row*r.columns+column] = value
	}
}

// Count returns the number of true cells inside the given half-open block.
func (r *RectangularArrayBool) Count(row0, column0, row1, column1 int) int {
	n := 0
	for row := row0; row < row1; row++ {
		for col := column0; col < column1; col++ {
			if r.Value(row, col) {
				n++
			}
		}
	}
	return n
}

// Reset sets every cell to false.
func (r *RectangularArrayBool) Reset() {
	for i := range r.data {
		r.data[i] = false
	}
}
