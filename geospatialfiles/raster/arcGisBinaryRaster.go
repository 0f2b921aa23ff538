// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// Nov. 2014.

package raster

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Used to read an ArcGIS binary raster (.flt with a .hdr header) file.
type arcGisBinaryRaster struct {
	dataFile   string
	headerFile string
	data       []float32
	header     arcGisHeader
	config     *RasterConfig
}

// Set the file name of this ArcGIS binary raster and read it. Either the
// .flt or the .hdr file may be given.
func (r *arcGisBinaryRaster) SetFileName(value string) error {
	r.config = NewDefaultRasterConfig()
	r.config.RasterFormat = RT_ArcGisBinaryRaster

	ext := filepath.Ext(value)
	base := strings.TrimSuffix(value, ext)
	r.dataFile = base + ".flt"
	r.headerFile = base + ".hdr"
	for _, fn := range []string{r.dataFile, r.headerFile} {
		if _, err := os.Stat(fn); err != nil {
			return errors.Wrap(FileDoesNotExistError, fn)
		}
	}
	if err := r.ReadFile(); err != nil {
		return err
	}
	r.config.NoDataValue = r.header.nodata
	return nil
}

func (r *arcGisBinaryRaster) FileName() string       { return r.dataFile }
func (r *arcGisBinaryRaster) RasterType() RasterType { return RT_ArcGisBinaryRaster }
func (r *arcGisBinaryRaster) Rows() int              { return r.header.rows }
func (r *arcGisBinaryRaster) Columns() int           { return r.header.columns }
func (r *arcGisBinaryRaster) North() float64         { return r.header.north }
func (r *arcGisBinaryRaster) South() float64         { return r.header.south }
func (r *arcGisBinaryRaster) East() float64          { return r.header.east }
func (r *arcGisBinaryRaster) West() float64          { return r.header.west }
func (r *arcGisBinaryRaster) NoData() float64        { return r.header.nodata }

func (r *arcGisBinaryRaster) GetRasterConfig() *RasterConfig {
	return r.config
}

// Returns the data as a slice of float64 values
func (r *arcGisBinaryRaster) Data() ([]float64, error) {
	values := make([]float64, len(r.data))
	for i, v := range r.data {
		values[i] = float64(v)
	}
	return values, nil
}

func (r *arcGisBinaryRaster) Value(index int) float64 {
	return float64(r.data[index])
}

func (r *arcGisBinaryRaster) ReadFile() error {
	if err := r.readHeaderFile(); err != nil {
		return errors.Wrap(err, "ArcGIS binary raster header file not read properly")
	}

	f, err := os.Open(r.dataFile)
	if err != nil {
		return FileOpeningError
	}
	defer f.Close()

	var byteOrder binary.ByteOrder = binary.LittleEndian
	if r.header.msbFirst {
		byteOrder = binary.BigEndian
	}
	r.data = make([]float32, r.header.numCells)
	if err = binary.Read(bufio.NewReader(f), byteOrder, &r.data); err != nil {
		return errors.Wrapf(FileReadingError, "%s: %v", r.dataFile, err)
	}
	return nil
}

func (r *arcGisBinaryRaster) readHeaderFile() error {
	f, err := os.Open(r.headerFile)
	if err != nil {
		return FileOpeningError
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.Fields(scanner.Text())
		if len(s) == 0 {
			continue
		}
		if err := r.header.parseLine(s); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	// the data file holds float32 values, so compare against the rounded nodata
	r.header.nodata = float64(float32(r.header.nodata))
	return r.header.finish()
}
