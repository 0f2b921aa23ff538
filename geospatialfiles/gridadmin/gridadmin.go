// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package gridadmin reads the computational grid of a 3Di model: the 2D
// cells with their bounding boxes and the flowlines connecting them.
//
// The grid is exchanged as a GeoJSON FeatureCollection. Cells are
// rectangular Polygon features with properties {"type": "cell", "id": n}.
// Flowlines are features (any geometry, usually a LineString between cell
// centres) with properties {"type": "flowline", "id": n, "line": [a, b],
// "kind": "2d", "dpumax": z}. dpumax is optional and may be null.
package gridadmin

import (
	"math"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

var ErrMalformedCell = errors.New("malformed cell feature")
var ErrMalformedFlowline = errors.New("malformed flowline feature")
var ErrDuplicateCell = errors.New("duplicate cell id")
var ErrMalformedFeature = errors.New("malformed grid feature")

// Flowline kinds that connect two 2D open water cells.
var OpenWaterKinds = map[string]bool{
	"2d":            true,
	"2d_open_water": true,
}

// Cell is one computational cell.
type Cell struct {
	ID   int
	BBox orb.Bound
}

// Flowline is the connection between two cells. ExchangeLevel is only
// meaningful when HasExchangeLevel is set.
type Flowline struct {
	ID               int
	Start, End       int
	Kind             string
	ExchangeLevel    float64
	HasExchangeLevel bool
}

// Grid holds the cells and the open water flowlines of a model.
type Grid struct {
	Cells     []Cell
	Flowlines []Flowline
}

// Load reads a grid from a GeoJSON file.
func Load(fileName string) (*Grid, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading grid %s", fileName)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing grid %s", fileName)
	}
	return g, nil
}

// Parse decodes a grid FeatureCollection. Flowlines of kinds other than the
// open water kinds are skipped.
func Parse(data []byte) (*Grid, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding feature collection")
	}
	g := &Grid{}
	seen := make(map[int]bool)
	for i, f := range fc.Features {
		kind, err := stringProperty(f.Properties, "type", "")
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedFeature, "feature %d: %v", i, err)
		}
		switch kind {
		case "cell":
			c, err := parseCell(f)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			if seen[c.ID] {
				return nil, errors.Wrapf(ErrDuplicateCell, "feature %d: id %d", i, c.ID)
			}
			seen[c.ID] = true
			g.Cells = append(g.Cells, c)
		case "flowline":
			fl, err := parseFlowline(f)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			if OpenWaterKinds[fl.Kind] {
				g.Flowlines = append(g.Flowlines, fl)
			}
		}
	}
	sort.Slice(g.Cells, func(a, b int) bool { return g.Cells[a].ID < g.Cells[b].ID })
	return g, nil
}

// CellsByID indexes the cells of the grid.
func (g *Grid) CellsByID() map[int]Cell {
	m := make(map[int]Cell, len(g.Cells))
	for _, c := range g.Cells {
		m[c.ID] = c
	}
	return m
}

func parseCell(f *geojson.Feature) (Cell, error) {
	id, err := intProperty(f.Properties, "id")
	if err != nil {
		return Cell{}, errors.Wrap(ErrMalformedCell, err.Error())
	}
	poly, ok := f.Geometry.(orb.Polygon)
	if !ok || len(poly) == 0 || len(poly[0]) < 4 {
		return Cell{}, errors.Wrapf(ErrMalformedCell, "cell %d: geometry must be a rectangular polygon", id)
	}
	b := poly.Bound()
	for _, p := range poly[0] {
		if (p[0] != b.Min[0] && p[0] != b.Max[0]) || (p[1] != b.Min[1] && p[1] != b.Max[1]) {
			return Cell{}, errors.Wrapf(ErrMalformedCell, "cell %d: polygon is not an axis aligned rectangle", id)
		}
	}
	if b.Max[0] <= b.Min[0] || b.Max[1] <= b.Min[1] {
		return Cell{}, errors.Wrapf(ErrMalformedCell, "cell %d: empty bounding box", id)
	}
	return Cell{ID: id, BBox: b}, nil
}

func parseFlowline(f *geojson.Feature) (Flowline, error) {
	var fl Flowline
	var err error
	if fl.ID, err = intProperty(f.Properties, "id"); err != nil {
		return fl, errors.Wrap(ErrMalformedFlowline, err.Error())
	}
	line, ok := f.Properties["line"].([]interface{})
	if !ok || len(line) != 2 {
		return fl, errors.Wrapf(ErrMalformedFlowline, "flowline %d: line must hold two cell ids", fl.ID)
	}
	ids := make([]int, 2)
	for i, v := range line {
		z, ok := v.(float64)
		if !ok || z != math.Trunc(z) {
			return fl, errors.Wrapf(ErrMalformedFlowline, "flowline %d: cell id %v is not an integer", fl.ID, v)
		}
		ids[i] = int(z)
	}
	fl.Start, fl.End = ids[0], ids[1]
	if fl.Start == fl.End {
		return fl, errors.Wrapf(ErrMalformedFlowline, "flowline %d connects cell %d to itself", fl.ID, fl.Start)
	}
	if fl.Kind, err = stringProperty(f.Properties, "kind", "2d"); err != nil {
		return fl, errors.Wrapf(ErrMalformedFlowline, "flowline %d: %v", fl.ID, err)
	}

	switch v := f.Properties["dpumax"].(type) {
	case nil:
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			fl.ExchangeLevel = v
			fl.HasExchangeLevel = true
		}
	default:
		return fl, errors.Wrapf(ErrMalformedFlowline, "flowline %d: dpumax %v is not a number", fl.ID, v)
	}
	return fl, nil
}

// stringProperty returns def when the property is absent or null.
func stringProperty(p geojson.Properties, key, def string) (string, error) {
	switch v := p[key].(type) {
	case nil:
		return def, nil
	case string:
		return v, nil
	default:
		return "", errors.Errorf("property %q = %v is not a string", key, v)
	}
}

func intProperty(p geojson.Properties, key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, errors.Errorf("missing property %q", key)
	}
	z, ok := v.(float64)
	if !ok || z != math.Trunc(z) {
		return 0, errors.Errorf("property %q = %v is not an integer", key, v)
	}
	return int(z), nil
}
