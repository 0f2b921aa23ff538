// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// Nov. 2014.

package raster

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Used to read an ArcGIS ASCII raster file.
type arcGisAsciiRaster struct {
	fileName string
	data     []float64
	header   arcGisHeader
	config   *RasterConfig
}

// Set the file name of this ArcGIS ASCII raster file and read it.
func (r *arcGisAsciiRaster) SetFileName(value string) error {
	r.config = NewDefaultRasterConfig()
	r.config.RasterFormat = RT_ArcGisAsciiRaster
	r.fileName = value
	if _, err := os.Stat(r.fileName); err != nil {
		return FileDoesNotExistError
	}
	if err := r.ReadFile(); err != nil {
		return err
	}
	r.config.NoDataValue = r.header.nodata
	return nil
}

func (r *arcGisAsciiRaster) FileName() string       { return r.fileName }
func (r *arcGisAsciiRaster) RasterType() RasterType { return RT_ArcGisAsciiRaster }
func (r *arcGisAsciiRaster) Rows() int              { return r.header.rows }
func (r *arcGisAsciiRaster) Columns() int           { return r.header.columns }
func (r *arcGisAsciiRaster) North() float64         { return r.header.north }
func (r *arcGisAsciiRaster) South() float64         { return r.header.south }
func (r *arcGisAsciiRaster) East() float64          { return r.header.east }
func (r *arcGisAsciiRaster) West() float64          { return r.header.west }
func (r *arcGisAsciiRaster) NoData() float64        { return r.header.nodata }

// Retrieves the raster config
func (r *arcGisAsciiRaster) GetRasterConfig() *RasterConfig {
	return r.config
}

// Returns the data as a slice of float64 values
func (r *arcGisAsciiRaster) Data() ([]float64, error) {
	return r.data, nil
}

// Returns the value within data
func (r *arcGisAsciiRaster) Value(index int) float64 {
	return r.data[index]
}

// Reads the file
func (r *arcGisAsciiRaster) ReadFile() error {
	if r.fileName == "" {
		return FileReadingError
	}
	f, err := os.Open(r.fileName)
	if err != nil {
		return FileOpeningError
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	lineNum := 0
	cellNum := 0
	inHeader := true
	for scanner.Scan() {
		lineNum++
		s := strings.Fields(scanner.Text())
		if len(s) == 0 {
			continue
		}
		if inHeader {
			if _, err := strconv.ParseFloat(s[0], 64); err != nil {
				if err := r.header.parseLine(s); err != nil {
					return errors.Wrapf(err, "header line %d", lineNum)
				}
				continue
			}
			// first data line
			inHeader = false
			if err := r.header.finish(); err != nil {
				return err
			}
			r.data = make([]float64, r.header.numCells)
		}
		for _, v := range s {
			if cellNum >= len(r.data) {
				return errors.Wrapf(FileIsNotProperlyFormated, "line %d: more values than %d rows x %d columns", lineNum, r.header.rows, r.header.columns)
			}
			z, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrapf(FileIsNotProperlyFormated, "line %d: %v", lineNum, err)
			}
			r.data[cellNum] = z
			cellNum++
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(FileReadingError, err.Error())
	}
	if inHeader || cellNum != r.header.numCells {
		return errors.Wrapf(FileIsNotProperlyFormated, "read %d of %d values", cellNum, r.header.numCells)
	}
	return nil
}

// arcGisHeader is the keyword header shared by the ArcGIS ASCII grid and the
// .hdr file of the ArcGIS binary grid.
type arcGisHeader struct {
	rows           int
	columns        int
	numCells       int
	nodata         float64
	cellSize       float64
	north          float64
	south          float64
	east           float64
	west           float64
	cellCornerMode bool
	msbFirst       bool

	xll, yll       float64
	hasX, hasY     bool
	hasCellSize    bool
	hasRowsColumns int
}

func (h *arcGisHeader) parseLine(s []string) error {
	if len(s) < 2 {
		return FileIsNotProperlyFormated
	}
	key := strings.ToLower(s[0])
	val := s[len(s)-1]
	var err error
	switch key {
	case "ncols":
		h.columns, err = strconv.Atoi(val)
		h.hasRowsColumns++
	case "nrows":
		h.rows, err = strconv.Atoi(val)
		h.hasRowsColumns++
	case "nodata_value", "nodata":
		h.nodata, err = strconv.ParseFloat(val, 64)
	case "cellsize":
		h.cellSize, err = strconv.ParseFloat(val, 64)
		h.hasCellSize = true
	case "xllcorner", "xllcenter":
		h.xll, err = strconv.ParseFloat(val, 64)
		h.hasX = true
		h.cellCornerMode = key == "xllcorner"
	case "yllcorner", "yllcenter":
		h.yll, err = strconv.ParseFloat(val, 64)
		h.hasY = true
	case "byteorder":
		h.msbFirst = strings.Contains(strings.ToLower(val), "msb")
	default:
		// unknown keywords are ignored
	}
	if err != nil {
		return errors.Wrapf(FileIsNotProperlyFormated, "%s: %v", key, err)
	}
	return nil
}

// finish validates the header and sets the North, East, South, and West coordinates.
func (h *arcGisHeader) finish() error {
	if h.hasRowsColumns < 2 || !h.hasX || !h.hasY || !h.hasCellSize || h.rows <= 0 || h.columns <= 0 || h.cellSize <= 0 {
		return errors.Wrap(FileIsNotProperlyFormated, "incomplete header")
	}
	h.numCells = h.rows * h.columns
	west, south := h.xll, h.yll
	if !h.cellCornerMode {
		west -= 0.5 * h.cellSize
		south -= 0.5 * h.cellSize
	}
	h.west = west
	h.south = south
	h.east = west + float64(h.columns)*h.cellSize
	h.north = south + float64(h.rows)*h.cellSize
	return nil
}
