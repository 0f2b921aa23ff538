// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEdges(t *testing.T) {
	dem := ridgeIn56()
	g := nineCells(dem)
	res := runDetector(t, dem, g, testOptions())

	var buf bytes.Buffer
	require.NoError(t, res.WriteEdges(&buf))
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, orb.LineString{{10, 20}, {20, 20}}, f.Geometry)
	assert.Equal(t, 56, f.Properties.MustInt("from_cell"))
	assert.Equal(t, 66, f.Properties.MustInt("to_cell"))
	assert.Equal(t, 11, f.Properties.MustInt("flowline_id"))
	assert.InDelta(t, 5.0, f.Properties.MustFloat64("crest_level"), 0.001)
	assert.Equal(t, 0.0, f.Properties.MustFloat64("exchange_level"))
}

func TestWriteObstacles(t *testing.T) {
	dem := ridgeIn56()
	res := runDetector(t, dem, nineCells(dem), testOptions())

	var buf bytes.Buffer
	require.NoError(t, res.WriteObstacles(&buf))
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	// found by the pair below cell 56, from its left to its right side
	f := fc.Features[0]
	assert.Equal(t, orb.LineString{{10.5, 17.5}, {19.5, 17.5}}, f.Geometry)
	assert.Equal(t, "46-56", f.Properties.MustString("pair"))
	assert.Equal(t, 56, f.Properties.MustInt("from_cell"))
	assert.Equal(t, []interface{}{11.0}, f.Properties["flowline_ids"])
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "edge 1-2: no maxima on the top side",
		Warning{Edge: EdgeKey{1, 2}, Message: "no maxima on the top side"}.String())
	assert.Equal(t, "cell 7: cell holds no elevation data",
		Warning{Cell: 7, Message: "cell holds no elevation data"}.String())
}
