// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/gridadmin"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
)

// Surface is the DEM as seen by the detector. *raster.Raster satisfies it.
// Implementations must allow concurrent reads or be read before the
// detector starts; the topology reads every window once, up front.
type Surface interface {
	ReadWindow(row, column, rows, columns int) *raster.Window
	GeoTransform() raster.GeoTransform
	Size() (rows, columns int)
}

// Tolerance, in pixels, for a bounding box coordinate to count as lying on
// a pixel boundary.
const alignTolerance = 1e-6

// Topology is the cell and edge graph of the part of the grid under analysis.
type Topology struct {
	gt       raster.GeoTransform
	cells    map[int]*Cell
	cellIDs  []int
	edges    []*Edge
	edgeMap  map[EdgeKey]*Edge
	sides    map[int]*[4][]*Edge
	warnings []Warning

	// set once a detector has attached obstacles to the edges
	analysed bool
}

// NewTopology builds cells for the requested ids and for every cell joined
// to one of them by a flowline, and one edge per flowline between cells of
// that set. An empty cellIDs selects the whole grid.
func NewTopology(cellIDs []int, dem Surface, grid *gridadmin.Grid, opts Options) (*Topology, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	records := grid.CellsByID()
	if len(cellIDs) == 0 {
		for _, c := range grid.Cells {
			cellIDs = append(cellIDs, c.ID)
		}
	}

	requested := make(map[int]bool, len(cellIDs))
	for _, id := range cellIDs {
		if _, ok := records[id]; !ok {
			return nil, errors.Wrapf(ErrUnknownCell, "requested cell %d", id)
		}
		requested[id] = true
	}
	extended := make(map[int]bool, len(requested))
	for id := range requested {
		extended[id] = true
	}
	for _, fl := range grid.Flowlines {
		for _, id := range []int{fl.Start, fl.End} {
			if _, ok := records[id]; !ok {
				return nil, errors.Wrapf(ErrUnknownCell, "flowline %d references cell %d", fl.ID, id)
			}
		}
		if requested[fl.Start] || requested[fl.End] {
			extended[fl.Start] = true
			extended[fl.End] = true
		}
	}

	t := &Topology{
		gt:      dem.GeoTransform(),
		cells:   make(map[int]*Cell, len(extended)),
		edgeMap: make(map[EdgeKey]*Edge),
		sides:   make(map[int]*[4][]*Edge),
	}
	for id := range extended {
		t.cellIDs = append(t.cellIDs, id)
	}
	sort.Ints(t.cellIDs)

	if err := t.buildCells(dem, records, opts); err != nil {
		return nil, err
	}
	t.resolveNeighbours()
	if err := t.buildEdges(grid.Flowlines); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Topology) buildCells(dem Surface, records map[int]gridadmin.Cell, opts Options) error {
	rows, columns := dem.Size()
	windows := make([]*raster.Window, len(t.cellIDs))
	demMax, found := 0.0, false
	for i, id := range t.cellIDs {
		r, c, nr, nc, err := pixelWindow(t.gt, records[id].BBox)
		if err != nil {
			return errors.Wrapf(err, "cell %d", id)
		}
		if r >= rows || c >= columns || r+nr <= 0 || c+nc <= 0 {
			return errors.Wrapf(ErrNoOverlap, "cell %d", id)
		}
		windows[i] = dem.ReadWindow(r, c, nr, nc)
		if hi, ok := windows[i].MaxValid(); ok && (!found || hi > demMax) {
			demMax, found = hi, true
		}
	}
	emptySentinel := demMax + opts.MinObstacleHeight + opts.SearchPrecision
	for i, id := range t.cellIDs {
		c := newCell(id, records[id].BBox, windows[i], emptySentinel, opts)
		if c.Empty {
			t.warnings = append(t.warnings, Warning{Cell: id, Message: "cell holds no elevation data"})
		}
		t.cells[id] = c
	}
	return nil
}

// pixelWindow converts a bounding box into the DEM pixel frame.
func pixelWindow(gt raster.GeoTransform, b orb.Bound) (row, column, rows, columns int, err error) {
	c0, r0 := gt.ToPixel(b.Min[0], b.Max[1])
	c1, r1 := gt.ToPixel(b.Max[0], b.Min[1])
	v := [4]float64{r0, c0, r1, c1}
	var px [4]int
	for i, f := range v {
		px[i] = int(math.Round(f))
		if math.Abs(f-float64(px[i])) > alignTolerance {
			return 0, 0, 0, 0, errors.Wrapf(ErrMisaligned, "bounds %v", b)
		}
	}
	return px[0], px[1], px[2] - px[0], px[3] - px[1], nil
}

// resolveNeighbours links cells that abut and overlap along the shared side.
func (t *Topology) resolveNeighbours() {
	byLeft := make(map[int][]*Cell)
	byTop := make(map[int][]*Cell)
	for _, id := range t.cellIDs {
		c := t.cells[id]
		byLeft[c.Column] = append(byLeft[c.Column], c)
		byTop[c.Row] = append(byTop[c.Row], c)
	}
	for _, id := range t.cellIDs {
		c := t.cells[id]
		for _, n := range byLeft[c.Column+c.Width()] {
			if side, ok := c.locate(n); ok && side == Right {
				c.Neighbours[Right] = append(c.Neighbours[Right], n)
				n.Neighbours[Left] = append(n.Neighbours[Left], c)
			}
		}
		for _, n := range byTop[c.Row+c.Height()] {
			if side, ok := c.locate(n); ok && side == Bottom {
				c.Neighbours[Bottom] = append(c.Neighbours[Bottom], n)
				n.Neighbours[Top] = append(n.Neighbours[Top], c)
			}
		}
	}
	for _, c := range t.cells {
		for side := range c.Neighbours {
			ns := c.Neighbours[side]
			if Side(side).Horizontal() {
				sort.Slice(ns, func(a, b int) bool { return ns[a].Column < ns[b].Column })
			} else {
				sort.Slice(ns, func(a, b int) bool { return ns[a].Row < ns[b].Row })
			}
		}
	}
}

func (t *Topology) buildEdges(flowlines []gridadmin.Flowline) error {
	for _, fl := range flowlines {
		a, b := t.cells[fl.Start], t.cells[fl.End]
		if a == nil || b == nil {
			continue
		}
		side, ok := a.locate(b)
		if !ok {
			return errors.Wrapf(ErrNotAdjacent, "flowline %d between cells %d and %d", fl.ID, a.ID, b.ID)
		}
		ref, neigh, loc := normalise(a, b, side)
		key := EdgeKey{From: ref.ID, To: neigh.ID}
		if _, dup := t.edgeMap[key]; dup {
			t.warnings = append(t.warnings, Warning{Edge: key, Message: fmt.Sprintf("duplicate flowline %d ignored", fl.ID)})
			continue
		}
		e := &Edge{Key: key, FlowlineID: fl.ID, Reference: ref, Neighbour: neigh, Location: loc}
		e.Start, e.End = t.boundary(e)
		if fl.HasExchangeLevel {
			e.ExchangeLevel = fl.ExchangeLevel
			e.ExchangeFromGrid = true
		} else {
			e.ExchangeLevel = e.deriveExchangeLevel()
			t.warnings = append(t.warnings, Warning{Edge: key, Message: "no exchange level on flowline, derived from DEM"})
		}
		t.edgeMap[key] = e
		t.edges = append(t.edges, e)
		t.sideEdges(ref)[loc] = append(t.sideEdges(ref)[loc], e)
		t.sideEdges(neigh)[loc.Opposite()] = append(t.sideEdges(neigh)[loc.Opposite()], e)
	}
	sort.Slice(t.edges, func(i, j int) bool {
		a, b := t.edges[i].Key, t.edges[j].Key
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	for _, s := range t.sides {
		for side := range s {
			es := s[side]
			sort.Slice(es, func(i, j int) bool { return edgeOrder(es[i]) < edgeOrder(es[j]) })
		}
	}
	return nil
}

func (t *Topology) sideEdges(c *Cell) *[4][]*Edge {
	s, ok := t.sides[c.ID]
	if !ok {
		s = new([4][]*Edge)
		t.sides[c.ID] = s
	}
	return s
}

// edgeOrder sorts the edges on one side of a cell along that side.
func edgeOrder(e *Edge) int {
	lo, _ := e.overlap()
	return lo
}

// normalise orders two abutting cells so that the reference is the left or
// bottom one and the neighbour lies at its Top or Right.
func normalise(a, b *Cell, side Side) (ref, neigh *Cell, loc Side) {
	switch side {
	case Top, Right:
		return a, b, side
	}
	return b, a, side.Opposite()
}

// boundary returns the shared segment of the edge from low to high coordinate.
func (t *Topology) boundary(e *Edge) (start, end orb.Point) {
	lo, hi := e.overlap()
	r := e.Reference
	if e.Location == Top {
		x0, y := t.gt.ToGeo(float64(lo), float64(r.Row))
		x1, _ := t.gt.ToGeo(float64(hi), float64(r.Row))
		return orb.Point{x0, y}, orb.Point{x1, y}
	}
	x, y0 := t.gt.ToGeo(float64(r.Column+r.Width()), float64(hi))
	_, y1 := t.gt.ToGeo(float64(r.Column+r.Width()), float64(lo))
	return orb.Point{x, y0}, orb.Point{x, y1}
}

// Cells returns the cells ordered by id.
func (t *Topology) Cells() []*Cell {
	ret := make([]*Cell, len(t.cellIDs))
	for i, id := range t.cellIDs {
		ret[i] = t.cells[id]
	}
	return ret
}

// Cell returns the cell with the given id or nil.
func (t *Topology) Cell(id int) *Cell {
	return t.cells[id]
}

// Edges returns the edges ordered by key.
func (t *Topology) Edges() []*Edge {
	return t.edges
}

// Edge returns the edge between two cells in either order, or nil.
func (t *Topology) Edge(a, b int) *Edge {
	if e, ok := t.edgeMap[EdgeKey{From: a, To: b}]; ok {
		return e
	}
	return t.edgeMap[EdgeKey{From: b, To: a}]
}

// EdgesOnSide returns the edges on one side of a cell, ordered along it.
func (t *Topology) EdgesOnSide(c *Cell, side Side) []*Edge {
	if s, ok := t.sides[c.ID]; ok {
		return s[side]
	}
	return nil
}

// GeoTransform of the DEM the cells were read from.
func (t *Topology) GeoTransform() raster.GeoTransform {
	return t.gt
}

// Warnings raised while building the topology.
func (t *Topology) Warnings() []Warning {
	return t.warnings
}
