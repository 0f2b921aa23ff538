// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/threedi/beta-plugins-sub000/structures"
)

// CellPair is the merged elevation surface of two abutting cells. The
// reference cell is the left or bottom one; the neighbour lies at its Top or
// Right. Pixels of the merged bounding rectangle covered by neither cell
// hold a fill value below every real pixel.
type CellPair struct {
	Reference, Neighbour *Cell
	Location             Side
	Edge                 *Edge

	topo *Topology
	opts Options

	// top-left of the merged array in the DEM pixel frame
	row, column int
	pixels      *structures.RectangularArrayFloat64
	lowest      float64
	aligned     [4]bool

	search *crestSearch
}

// NewCellPair merges two cells joined by an edge of the topology. The cells
// may be given in either order.
func NewCellPair(a, b *Cell, topo *Topology, opts Options) (*CellPair, error) {
	side, ok := a.locate(b)
	if !ok {
		return nil, errors.Wrapf(ErrNotAdjacent, "cells %d and %d", a.ID, b.ID)
	}
	ref, neigh, loc := normalise(a, b, side)
	edge := topo.Edge(ref.ID, neigh.ID)
	if edge == nil {
		return nil, errors.Wrapf(ErrNotAdjacent, "no flowline between cells %d and %d", ref.ID, neigh.ID)
	}
	p := &CellPair{Reference: ref, Neighbour: neigh, Location: loc, Edge: edge, topo: topo, opts: opts}

	rr0, rc0, rr1, rc1 := ref.extent()
	nr0, nc0, nr1, nc1 := neigh.extent()
	p.aligned[Top] = rr0 == nr0
	p.aligned[Bottom] = rr1 == nr1
	p.aligned[Left] = rc0 == nc0
	p.aligned[Right] = rc1 == nc1

	p.row, p.column = minInt(rr0, nr0), minInt(rc0, nc0)
	rows, columns := maxInt(rr1, nr1)-p.row, maxInt(rc1, nc1)-p.column

	p.lowest = math.Min(ref.Min(), neigh.Min())
	p.pixels = structures.NewRectangularArrayFloat64(rows, columns, p.fill())
	p.pixels.InitializeWithConstant(p.fill())
	for _, c := range []*Cell{ref, neigh} {
		r, col := p.shift(c)
		if err := p.pixels.Paste(c.Pixels, r, col); err != nil {
			return nil, errors.Wrapf(err, "merging cell %d", c.ID)
		}
	}
	p.search = newCrestSearch(p.pixels)
	return p, nil
}

// fill is the padding value. It lies below the lowest real pixel, so padding
// never forms a ridge nor joins two ridge points.
func (p *CellPair) fill() float64 {
	return math.Min(-p.lowest, p.lowest-1)
}

// shift is the offset from the local frame of c to the merged frame.
func (p *CellPair) shift(c *Cell) (row, column int) {
	return c.Row - p.row, c.Column - p.column
}

// ToMerged converts a cell position into a merged array index pair.
func (p *CellPair) ToMerged(pos Position) (row, column int) {
	r, c := p.shift(pos.Cell)
	return pos.Row + r, pos.Col + c
}

// FromMerged converts a merged array position into the local frame of the
// pair cell that covers it. ok is false on padding.
func (p *CellPair) FromMerged(row, column int) (Position, bool) {
	for _, c := range []*Cell{p.Reference, p.Neighbour} {
		r, col := p.shift(c)
		lr, lc := row-r, column-col
		if lr >= 0 && lr < c.Height() && lc >= 0 && lc < c.Width() {
			return Position{Cell: c, Row: lr, Col: lc}, true
		}
	}
	return Position{}, false
}

// Pixels is the merged elevation array. Callers must not modify it.
func (p *CellPair) Pixels() *structures.RectangularArrayFloat64 {
	return p.pixels
}

// SearchSides returns the two sides of the pair parallel to the direction of
// flow across the edge. A ridge reaching both of them blocks that flow.
func (p *CellPair) SearchSides() (Side, Side) {
	if p.Location == Right {
		return Top, Bottom
	}
	return Left, Right
}

// Maxima returns the ridge maxima along one side of the pair, unfiltered.
// Where both cells share the side their profiles are searched as one.
func (p *CellPair) Maxima(side Side) []Position {
	prom := p.opts.PeakProminence()
	var first, second *Cell
	if p.Location == Right {
		first, second = p.Reference, p.Neighbour
	} else {
		first, second = p.Neighbour, p.Reference
	}
	var ret []Position
	if p.aligned[side] {
		a, b := first.EdgePixels(side), second.EdgePixels(side)
		profile := append(append(make([]float64, 0, len(a)+len(b)), a...), b...)
		for _, i := range findPeaks(profile, prom) {
			if i < len(a) {
				ret = append(ret, first.edgePosition(side, i))
			} else {
				ret = append(ret, second.edgePosition(side, i-len(a)))
			}
		}
	} else {
		ret = append(first.Maxima(side, prom), second.Maxima(side, prom)...)
	}
	// a fully nodata cell only holds sentinel pixels
	kept := ret[:0]
	for _, pos := range ret {
		if !pos.Cell.Empty {
			kept = append(kept, pos)
		}
	}
	return kept
}

// candidateEdges are the edges a ridge found by this pair may belong to.
func (p *CellPair) candidateEdges() []*Edge {
	ret := []*Edge{p.Edge}
	ret = append(ret, p.topo.EdgesOnSide(p.Reference, p.Location.Opposite())...)
	return append(ret, p.topo.EdgesOnSide(p.Neighbour, p.Location)...)
}

// significantMaxima drops maxima that do not rise clearly above the lowest
// exchange level of the candidate edges.
func (p *CellPair) significantMaxima(side Side) []Position {
	lowest := math.Inf(1)
	for _, e := range p.candidateEdges() {
		lowest = math.Min(lowest, e.ExchangeLevel)
	}
	threshold := p.opts.significance(lowest)
	var ret []Position
	for _, pos := range p.Maxima(side) {
		if pos.Value() > threshold {
			ret = append(ret, pos)
		}
	}
	return ret
}

// CrestLevel returns the level at which the two ridge points become
// disconnected and the highest level known to still connect them. ok is
// false when the lower of the two points does not stand out above the
// lowest pixel of the pair.
func (p *CellPair) CrestLevel(from, to Position) (crest, connectedAt float64, ok bool) {
	fv, tv := from.Value(), to.Value()
	if math.Min(fv, tv)-p.lowest <= p.opts.SearchPrecision {
		return 0, 0, false
	}
	fi, ti := p.index(from), p.index(to)
	if p.opts.CrestMethod == CrestPriorityFlood {
		crest = p.search.widestPath(fi, ti)
		return crest, crest, true
	}
	crest, connectedAt = p.search.bisect(fi, ti, p.lowest, p.opts.SearchPrecision)
	return crest, connectedAt, true
}

func (p *CellPair) index(pos Position) int {
	r, c := p.ToMerged(pos)
	return p.pixels.Index(r, c)
}

// FindObstacles pairs every maximum on one search side with every maximum
// on the other and returns the resulting obstacles with the edges they
// belong to. No edge is modified.
func (p *CellPair) FindObstacles() ([]*Obstacle, []Warning) {
	var warnings []Warning
	lhs, rhs := p.SearchSides()
	fromMaxima, toMaxima := p.significantMaxima(lhs), p.significantMaxima(rhs)
	for _, m := range []struct {
		side Side
		n    int
	}{{lhs, len(fromMaxima)}, {rhs, len(toMaxima)}} {
		if m.n == 0 {
			warnings = append(warnings, Warning{Edge: p.Edge.Key, Message: fmt.Sprintf("no maxima on the %v side", m.side)})
		}
	}

	var mask *structures.RectangularArrayBool
	var obstacles []*Obstacle
	for _, from := range fromMaxima {
		for _, to := range toMaxima {
			crest, connectedAt, ok := p.CrestLevel(from, to)
			if !ok {
				continue
			}
			var edges []*Edge
			if from.Cell != to.Cell {
				edges = []*Edge{p.Edge}
			} else {
				if mask == nil {
					mask = structures.NewRectangularArrayBool(p.pixels.GetRows(), p.pixels.GetColumns())
				} else {
					mask.Reset()
				}
				p.search.fill(p.index(from), connectedAt, mask)
				edges = p.assign(from.Cell, mask)
			}
			o := &Obstacle{
				CrestLevel: crest,
				From:       from,
				To:         to,
				FromEdges:  p.topo.EdgesOnSide(from.Cell, lhs),
				ToEdges:    p.topo.EdgesOnSide(to.Cell, rhs),
				Pair:       p.Edge.Key,
			}
			for _, e := range edges {
				if crest > p.opts.significance(e.ExchangeLevel) {
					o.Edges = append(o.Edges, e)
				}
			}
			if len(o.Edges) > 0 {
				obstacles = append(obstacles, o)
			}
		}
	}
	return obstacles, warnings
}

// assign picks the edges of an obstacle lying within one cell. The half of
// the cell holding most of the flooded ridge decides: the half next to the
// pair edge (ties included) selects the pair edge, the other half the edges
// on the far side of the cell.
func (p *CellPair) assign(c *Cell, mask *structures.RectangularArrayBool) []*Edge {
	r, col := p.shift(c)
	w, h := c.Width(), c.Height()
	var near, far int
	var farSide Side
	if p.Location == Right {
		left := mask.Count(r, col, r+h, col+w/2)
		right := mask.Count(r, col+w-w/2, r+h, col+w)
		if c == p.Reference {
			near, far, farSide = right, left, Left
		} else {
			near, far, farSide = left, right, Right
		}
	} else {
		top := mask.Count(r, col, r+h/2, col+w)
		bottom := mask.Count(r+h-h/2, col, r+h, col+w)
		if c == p.Reference {
			near, far, farSide = top, bottom, Bottom
		} else {
			near, far, farSide = bottom, top, Top
		}
	}
	if near >= far {
		return []*Edge{p.Edge}
	}
	return p.topo.EdgesOnSide(c, farSide)
}
