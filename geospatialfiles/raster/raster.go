// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// Nov. 2014.

// Package raster provides read access to single band elevation rasters in
// several common geospatial formats, including windowed reads in which
// nodata is reported explicitly rather than as a magic value.
package raster

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

type rasterData interface {
	FileName() string
	Rows() int
	Columns() int
	North() float64
	South() float64
	East() float64
	West() float64
	RasterType() RasterType
	NoData() float64
	Value(index int) float64
	Data() ([]float64, error)
	GetRasterConfig() *RasterConfig
}

// Raster is a read-only, fully loaded single band raster.
type Raster struct {
	Rows, Columns            int
	NumberofCells            int
	North, South, East, West float64
	NoDataValue              float64
	FileName                 string
	FileExtension            string
	RasterFormat             RasterType
	rd                       rasterData
	minimumValue             float64
	maximumValue             float64
}

type RasterConfig struct {
	NoDataValue            float64
	RasterFormat           RasterType
	CoordinateRefSystemWKT string
	EPSGCode               int
	ZUnits                 string
	XYUnits                string
}

func (h RasterConfig) String() string {
	var buffer bytes.Buffer
	buffer.WriteString("Raster Configuration:\n")
	s := reflect.ValueOf(&h).Elem()
	typeOfT := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		str := fmt.Sprintf("%s %s = %v\n", typeOfT.Field(i).Name, f.Type(), f.Interface())
		buffer.WriteString(str)
	}
	return buffer.String()
}

func NewDefaultRasterConfig() *RasterConfig {
	var rc RasterConfig
	rc.NoDataValue = -32768.0
	rc.RasterFormat = RT_UnknownRaster
	rc.ZUnits = "not specified"
	rc.XYUnits = "not specified"
	return &rc
}

// CreateRasterFromFile opens and loads a raster. If a config is given and
// names a RasterFormat, the extension is not consulted.
func CreateRasterFromFile(fileName string, config ...RasterConfig) (*Raster, error) {
	var r Raster
	var err error
	r.FileName = fileName
	r.FileExtension = strings.ToLower(filepath.Ext(r.FileName))

	if _, err = os.Stat(fileName); err != nil {
		return nil, errors.Wrapf(FileDoesNotExistError, "opening %s", fileName)
	}

	rt := RT_UnknownRaster
	if len(config) > 0 {
		// only the last config is used
		rt = config[len(config)-1].RasterFormat
	}
	if rt == RT_UnknownRaster {
		if rt, err = DetermineRasterFormat(fileName); err != nil {
			return nil, errors.Wrapf(err, "opening %s", fileName)
		}
	}
	r.RasterFormat = rt

	if r.rd, err = r.getRasterData(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	if err = setVariablesFromRasterData(&r, r.rd); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	return &r, nil
}

// NewRasterFromData wraps an in-memory row-major slice as a Raster.
func NewRasterFromData(rows, columns int, north, south, east, west, nodata float64, values []float64) (*Raster, error) {
	if rows <= 0 || columns <= 0 || len(values) != rows*columns {
		return nil, DataSetError
	}
	if north <= south || east <= west {
		return nil, RasterInitializationError
	}
	rd := &memoryRaster{
		rows: rows, columns: columns,
		north: north, south: south, east: east, west: west,
		nodata: nodata,
		data:   values,
	}
	var r Raster
	r.RasterFormat = RT_MemoryRaster
	r.rd = rd
	if err := setVariablesFromRasterData(&r, rd); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Raster) getRasterData() (rasterData, error) {
	switch r.RasterFormat {
	case RT_ArcGisBinaryRaster:
		myArcRaster := new(arcGisBinaryRaster)
		return myArcRaster, myArcRaster.SetFileName(r.FileName)

	case RT_ArcGisAsciiRaster:
		myArcRaster := new(arcGisAsciiRaster)
		return myArcRaster, myArcRaster.SetFileName(r.FileName)

	case RT_GdalRaster:
		return newGdalRaster(r.FileName)
	}
	return nil, UnsupportedRasterFormatError
}

// Retrives an individual pixel value in the grid; nodata outside.
func (r *Raster) Value(row, column int) float64 {
	if column >= 0 && column < r.Columns && row >= 0 && row < r.Rows {
		return r.rd.Value(row*r.Columns + column)
	}
	return r.NoDataValue
}

// Size returns the number of rows and columns.
func (r *Raster) Size() (rows, columns int) {
	return r.Rows, r.Columns
}

// IsNoData reports whether z is the nodata value (or NaN).
func (r *Raster) IsNoData(z float64) bool {
	return z == r.NoDataValue || math.IsNaN(z)
}

// Returns the data as a slice of float64 values
func (r *Raster) Data() ([]float64, error) {
	return r.rd.Data()
}

// Gets the raster config
func (r *Raster) GetRasterConfig() *RasterConfig {
	return r.rd.GetRasterConfig()
}

// GetMinimumValue returns the lowest valid value, ignoring nodata.
func (r *Raster) GetMinimumValue() float64 {
	return r.minimumValue
}

// GetMaximumValue returns the highest valid value, ignoring nodata.
func (r *Raster) GetMaximumValue() float64 {
	return r.maximumValue
}

func (r *Raster) GetCellSizeX() float64 {
	return (r.East - r.West) / float64(r.Columns)
}

func (r *Raster) GetCellSizeY() float64 {
	return (r.North - r.South) / float64(r.Rows)
}

// GeoTransform returns the affine pixel/coordinate mapping of the raster.
func (r *Raster) GeoTransform() GeoTransform {
	return GeoTransform{
		OriginX:     r.West,
		PixelWidth:  r.GetCellSizeX(),
		OriginY:     r.North,
		PixelHeight: -r.GetCellSizeY(),
	}
}

// ReadWindow reads a block of pixels with its top-left corner at (row,
// column). The block may extend partly or wholly beyond the raster; such
// pixels are reported as nodata.
func (r *Raster) ReadWindow(row, column, rows, columns int) *Window {
	w := newWindow(row, column, rows, columns)
	for i := 0; i < rows; i++ {
		rr := row + i
		if rr < 0 || rr >= r.Rows {
			continue
		}
		for j := 0; j < columns; j++ {
			cc := column + j
			if cc < 0 || cc >= r.Columns {
				continue
			}
			z := r.rd.Value(rr*r.Columns + cc)
			if !r.IsNoData(z) {
				w.set(i, j, z)
			}
		}
	}
	return w
}

// set's the Raster's public variables based on a RasterData
func setVariablesFromRasterData(r *Raster, rd rasterData) error {
	r.Columns = rd.Columns()
	r.Rows = rd.Rows()
	r.North = rd.North()
	r.South = rd.South()
	r.East = rd.East()
	r.West = rd.West()
	r.NoDataValue = rd.NoData()
	r.NumberofCells = r.Rows * r.Columns
	if r.Rows <= 0 || r.Columns <= 0 {
		return FileIsNotProperlyFormated
	}
	if math.Abs(r.GetCellSizeX()-r.GetCellSizeY()) > 1e-9*math.Max(1, r.GetCellSizeX()) {
		return NonSquarePixelsError
	}

	r.minimumValue = math.MaxFloat64
	r.maximumValue = -math.MaxFloat64
	for i := 0; i < r.NumberofCells; i++ {
		z := rd.Value(i)
		if r.IsNoData(z) {
			continue
		}
		if z < r.minimumValue {
			r.minimumValue = z
		}
		if z > r.maximumValue {
			r.maximumValue = z
		}
	}
	return nil
}

type memoryRaster struct {
	rows, columns            int
	north, south, east, west float64
	nodata                   float64
	data                     []float64
}

func (m *memoryRaster) FileName() string        { return "" }
func (m *memoryRaster) Rows() int               { return m.rows }
func (m *memoryRaster) Columns() int            { return m.columns }
func (m *memoryRaster) North() float64          { return m.north }
func (m *memoryRaster) South() float64          { return m.south }
func (m *memoryRaster) East() float64           { return m.east }
func (m *memoryRaster) West() float64           { return m.west }
func (m *memoryRaster) RasterType() RasterType  { return RT_MemoryRaster }
func (m *memoryRaster) NoData() float64         { return m.nodata }
func (m *memoryRaster) Value(index int) float64 { return m.data[index] }
func (m *memoryRaster) Data() ([]float64, error) {
	return m.data, nil
}
func (m *memoryRaster) GetRasterConfig() *RasterConfig {
	rc := NewDefaultRasterConfig()
	rc.NoDataValue = m.nodata
	rc.RasterFormat = RT_MemoryRaster
	return rc
}
