// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"fmt"

	"github.com/paulmach/orb"
)

// EdgeKey identifies an edge by its two cell ids, left or bottom cell first.
type EdgeKey struct {
	From, To int
}

func (k EdgeKey) String() string { return fmt.Sprintf("%d-%d", k.From, k.To) }

// Edge is the flow connection across the shared boundary of two cells.
type Edge struct {
	Key        EdgeKey
	FlowlineID int

	// Reference is the left or bottom cell, Neighbour lies at Location
	// (Right or Top) of it.
	Reference, Neighbour *Cell
	Location             Side

	// Shared boundary in map coordinates, from low to high coordinate.
	Start, End orb.Point

	ExchangeLevel    float64
	ExchangeFromGrid bool

	obstacles []*Obstacle
}

// AddObstacle appends an obstacle. Obstacles are never removed.
func (e *Edge) AddObstacle(o *Obstacle) {
	e.obstacles = append(e.obstacles, o)
}

func (e *Edge) Obstacles() []*Obstacle {
	return e.obstacles
}

// HighestObstacle returns the obstacle with the highest crest level or nil.
func (e *Edge) HighestObstacle() *Obstacle {
	var best *Obstacle
	for _, o := range e.obstacles {
		if best == nil || o.CrestLevel > best.CrestLevel {
			best = o
		}
	}
	return best
}

// Geometry is the shared boundary segment.
func (e *Edge) Geometry() orb.LineString {
	return orb.LineString{e.Start, e.End}
}

// Cells returns the two cells in key order.
func (e *Edge) Cells() [2]*Cell {
	return [2]*Cell{e.Reference, e.Neighbour}
}

// overlap returns the pixel range shared by the two cells along the boundary:
// columns for a Top edge, rows for a Right edge.
func (e *Edge) overlap() (lo, hi int) {
	r, n := e.Reference, e.Neighbour
	if e.Location == Top {
		return maxInt(r.Column, n.Column), minInt(r.Column+r.Width(), n.Column+n.Width())
	}
	return maxInt(r.Row, n.Row), minInt(r.Row+r.Height(), n.Row+n.Height())
}

// deriveExchangeLevel is the lowest point along the boundary of the highest
// of the two pixels straddling it.
func (e *Edge) deriveExchangeLevel() float64 {
	r, n := e.Reference, e.Neighbour
	lo, hi := e.overlap()
	level := 0.0
	for i := lo; i < hi; i++ {
		var a, b float64
		if e.Location == Top {
			a = r.Pixels.Value(0, i-r.Column)
			b = n.Pixels.Value(n.Height()-1, i-n.Column)
		} else {
			a = r.Pixels.Value(i-r.Row, r.Width()-1)
			b = n.Pixels.Value(i-n.Row, 0)
		}
		z := a
		if b > z {
			z = b
		}
		if i == lo || z < level {
			level = z
		}
	}
	return level
}
