// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

//go:build !gdal

package raster

const gdalAvailable = false

func newGdalRaster(fileName string) (rasterData, error) {
	return nil, UnsupportedRasterFormatError
}
