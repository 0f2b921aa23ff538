// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"github.com/paulmach/orb"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
)

// Obstacle is a ridge between two maxima on opposite sides of a cell pair.
// It is not modified once created.
type Obstacle struct {
	CrestLevel float64
	From, To   Position

	// FromEdges and ToEdges are the edges on the sides of the cell pair
	// where the two ridge points lie.
	FromEdges, ToEdges []*Edge

	// Pair is the edge whose cell pair found the obstacle; Edges are the
	// edges it is attached to.
	Pair  EdgeKey
	Edges []*Edge
}

func (o *Obstacle) FromCell() *Cell { return o.From.Cell }
func (o *Obstacle) ToCell() *Cell   { return o.To.Cell }

// Geometry is the segment between the centres of the two ridge pixels.
func (o *Obstacle) Geometry(gt raster.GeoTransform) orb.LineString {
	ls := make(orb.LineString, 2)
	for i, p := range []Position{o.From, o.To} {
		row, col := p.Global()
		x, y := gt.ToGeo(float64(col)+0.5, float64(row)+0.5)
		ls[i] = orb.Point{x, y}
	}
	return ls
}
