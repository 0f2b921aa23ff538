package gridadmin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gridJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"type": "cell", "id": 2},
     "geometry": {"type": "Polygon", "coordinates": [[[4,0],[8,0],[8,4],[4,4],[4,0]]]}},
    {"type": "Feature", "properties": {"type": "cell", "id": 1},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,4],[0,4],[0,0]]]}},
    {"type": "Feature", "properties": {"type": "flowline", "id": 10, "line": [1, 2], "kind": "2d", "dpumax": 1.25},
     "geometry": {"type": "LineString", "coordinates": [[2,2],[6,2]]}},
    {"type": "Feature", "properties": {"type": "flowline", "id": 11, "line": [2, 1], "kind": "2d_open_water", "dpumax": null},
     "geometry": null},
    {"type": "Feature", "properties": {"type": "flowline", "id": 12, "line": [1, 2], "kind": "1d2d"},
     "geometry": null}
  ]
}`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(gridJSON))
	require.NoError(t, err)

	require.Len(t, g.Cells, 2)
	assert.Equal(t, 1, g.Cells[0].ID, "cells are sorted by id")
	assert.Equal(t, orb.Bound{Min: orb.Point{4, 0}, Max: orb.Point{8, 4}}, g.Cells[1].BBox)

	require.Len(t, g.Flowlines, 2, "1d2d flowline is skipped")
	assert.Equal(t, Flowline{ID: 10, Start: 1, End: 2, Kind: "2d", ExchangeLevel: 1.25, HasExchangeLevel: true}, g.Flowlines[0])
	assert.False(t, g.Flowlines[1].HasExchangeLevel)

	byID := g.CellsByID()
	assert.Contains(t, byID, 2)
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "grid.geojson")
	require.NoError(t, os.WriteFile(fn, []byte(gridJSON), 0o644))
	g, err := Load(fn)
	require.NoError(t, err)
	assert.Len(t, g.Cells, 2)

	_, err = Load(filepath.Join(t.TempDir(), "none.geojson"))
	assert.Error(t, err)
}

func TestParseRejectsMalformedFeatures(t *testing.T) {
	cases := map[string]struct {
		json string
		want error
	}{
		"cell without id": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":"cell"},
			 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`,
			ErrMalformedCell,
		},
		"triangle cell": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":"cell","id":1},
			 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[0.5,1],[0,0]]]}}]}`,
			ErrMalformedCell,
		},
		"duplicate cell": {
			`{"type":"FeatureCollection","features":[
			 {"type":"Feature","properties":{"type":"cell","id":1},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
			 {"type":"Feature","properties":{"type":"cell","id":1},"geometry":{"type":"Polygon","coordinates":[[[1,0],[2,0],[2,1],[1,1],[1,0]]]}}]}`,
			ErrDuplicateCell,
		},
		"flowline with one cell": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":"flowline","id":1,"line":[3]},"geometry":null}]}`,
			ErrMalformedFlowline,
		},
		"flowline with text dpumax": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":"flowline","id":1,"line":[3,4],"dpumax":"high"},"geometry":null}]}`,
			ErrMalformedFlowline,
		},
		"numeric feature type": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":1,"id":1},
			 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`,
			ErrMalformedFeature,
		},
		"numeric flowline kind": {
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"type":"flowline","id":1,"line":[3,4],"kind":7},"geometry":null}]}`,
			ErrMalformedFlowline,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.json))
			require.Error(t, err)
			assert.Equal(t, tc.want, errors.Cause(err))
		})
	}
}
