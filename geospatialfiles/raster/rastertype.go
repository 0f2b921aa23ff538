// Copyright 2014 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Originally created by John Lindsay<jlindsay@uoguelph.ca>, Nov. 2014.

package raster

import (
	"path/filepath"
	"strings"
)

// RasterType is used to specify a data format of a raster file
type RasterType int

// Integer constants used to specify each of the supported raster formats
const (
	RT_UnknownRaster RasterType = iota
	RT_ArcGisBinaryRaster
	RT_ArcGisAsciiRaster
	RT_GdalRaster
	RT_MemoryRaster
)

var rasterTypeList = []string{
	"UnknownRaster",
	"ArcGisBinaryRaster",
	"ArcGisAsciiRaster",
	"GdalRaster",
	"MemoryRaster",
}

// String returns the English name of the RasterType ("ArcGisBinaryRaster", "ArcGisAsciiRaster", ...).
func (rt RasterType) String() string {
	if int(rt) < 0 || int(rt) >= len(rasterTypeList) {
		return rasterTypeList[0]
	}
	return rasterTypeList[rt]
}

var rasterExtensionList = [][]string{
	{},
	{".flt", ".hdr"},
	{".asc", ".txt"},
	{".tif", ".tiff", ".vrt", ".img"},
	{},
}

// Returns a list of the file extensions associated with a particular raster format.
func (rt RasterType) GetExtensions() []string {
	if int(rt) < 0 || int(rt) >= len(rasterExtensionList) {
		return nil
	}
	return rasterExtensionList[rt]
}

func IsSupportedRasterFileExtension(fileName string) bool {
	rt, err := DetermineRasterFormat(fileName)
	return err == nil && rt != RT_UnknownRaster
}

// Attempts to determine the raster format from the filename. GDAL formats
// are only reported when the binary was built with the gdal tag.
func DetermineRasterFormat(fileName string) (RasterType, error) {
	fileExtension := strings.ToLower(filepath.Ext(fileName))
	for i, extensions := range rasterExtensionList {
		for _, ext := range extensions {
			if fileExtension != ext {
				continue
			}
			rt := RasterType(i)
			if rt == RT_GdalRaster && !gdalAvailable {
				return RT_UnknownRaster, UnsupportedRasterFormatError
			}
			return rt, nil
		}
	}
	return RT_UnknownRaster, UnsupportedRasterFormatError
}

// ListAllSupportedRasterFormats returns the names of the formats that can be
// read from file in this build.
func ListAllSupportedRasterFormats() []string {
	var ret []string
	for i, val := range rasterTypeList {
		if len(rasterExtensionList[i]) == 0 {
			continue
		}
		if RasterType(i) == RT_GdalRaster && !gdalAvailable {
			continue
		}
		ret = append(ret, val)
	}
	return ret
}

func GetMapOfFormatsAndExtensions() map[string][]string {
	m := make(map[string][]string)
	for _, name := range ListAllSupportedRasterFormats() {
		for i, val := range rasterTypeList {
			if val == name {
				m[val] = rasterExtensionList[i]
			}
		}
	}
	return m
}
