// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

//go:build gdal

package raster

import (
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/pkg/errors"
)

const gdalAvailable = true

var registerOnce sync.Once

// Used to read any single band raster GDAL can open (GeoTIFF, VRT, ...).
// The first band is loaded in full; the dataset handle is closed afterwards
// so the raster can be shared between goroutines.
type gdalRaster struct {
	fileName                 string
	rows, columns            int
	north, south, east, west float64
	nodata                   float64
	data                     []float64
	config                   *RasterConfig
}

func newGdalRaster(fileName string) (rasterData, error) {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(FileOpeningError, err.Error())
	}
	defer ds.Close()

	structure := ds.Structure()
	if structure.NBands < 1 {
		return nil, FileIsNotProperlyFormated
	}
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, errors.Wrap(FileIsNotProperlyFormated, err.Error())
	}
	if gt[2] != 0 || gt[4] != 0 || gt[5] >= 0 {
		return nil, errors.Wrap(UnsupportedRasterFormatError, "only north-up rasters are supported")
	}

	r := &gdalRaster{
		fileName: fileName,
		rows:     structure.SizeY,
		columns:  structure.SizeX,
		west:     gt[0],
		north:    gt[3],
		config:   NewDefaultRasterConfig(),
	}
	r.east = r.west + float64(r.columns)*gt[1]
	r.south = r.north + float64(r.rows)*gt[5]

	band := ds.Bands()[0]
	if nd, ok := band.NoData(); ok {
		r.nodata = nd
	} else {
		r.nodata = r.config.NoDataValue
	}
	r.config.NoDataValue = r.nodata
	r.config.RasterFormat = RT_GdalRaster
	r.config.CoordinateRefSystemWKT = ds.Projection()

	r.data = make([]float64, r.rows*r.columns)
	if err = band.Read(0, 0, r.data, r.columns, r.rows); err != nil {
		return nil, errors.Wrap(FileReadingError, err.Error())
	}
	return r, nil
}

func (r *gdalRaster) FileName() string       { return r.fileName }
func (r *gdalRaster) RasterType() RasterType { return RT_GdalRaster }
func (r *gdalRaster) Rows() int              { return r.rows }
func (r *gdalRaster) Columns() int           { return r.columns }
func (r *gdalRaster) North() float64         { return r.north }
func (r *gdalRaster) South() float64         { return r.south }
func (r *gdalRaster) East() float64          { return r.east }
func (r *gdalRaster) West() float64          { return r.west }
func (r *gdalRaster) NoData() float64        { return r.nodata }
func (r *gdalRaster) Value(index int) float64 {
	return r.data[index]
}
func (r *gdalRaster) Data() ([]float64, error) {
	return r.data, nil
}
func (r *gdalRaster) GetRasterConfig() *RasterConfig {
	return r.config
}
