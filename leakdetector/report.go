// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
)

// Result is the outcome of a detector run.
type Result struct {
	Edges        []*Edge
	Obstacles    []*Obstacle
	Warnings     []Warning
	GeoTransform raster.GeoTransform
}

// EdgeRecord reports the highest obstacle of a leaking edge.
type EdgeRecord struct {
	FlowlineID    int
	Key           EdgeKey
	ExchangeLevel float64
	CrestLevel    float64
	Geometry      orb.LineString
}

// Records returns one record per edge holding at least one obstacle, in
// edge order.
func (r *Result) Records() []EdgeRecord {
	var ret []EdgeRecord
	for _, e := range r.Edges {
		o := e.HighestObstacle()
		if o == nil {
			continue
		}
		ret = append(ret, EdgeRecord{
			FlowlineID:    e.FlowlineID,
			Key:           e.Key,
			ExchangeLevel: e.ExchangeLevel,
			CrestLevel:    o.CrestLevel,
			Geometry:      e.Geometry(),
		})
	}
	return ret
}

// EdgeFeatures converts the records into line features along the edges.
func (r *Result) EdgeFeatures() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range r.Records() {
		f := geojson.NewFeature(rec.Geometry)
		f.Properties["flowline_id"] = rec.FlowlineID
		f.Properties["from_cell"] = rec.Key.From
		f.Properties["to_cell"] = rec.Key.To
		f.Properties["exchange_level"] = rec.ExchangeLevel
		f.Properties["crest_level"] = rec.CrestLevel
		fc.Append(f)
	}
	return fc
}

// ObstacleFeatures converts every obstacle into a line between its two
// ridge points.
func (r *Result) ObstacleFeatures() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, o := range r.Obstacles {
		f := geojson.NewFeature(o.Geometry(r.GeoTransform))
		ids := make([]int, len(o.Edges))
		for i, e := range o.Edges {
			ids[i] = e.FlowlineID
		}
		f.Properties["crest_level"] = o.CrestLevel
		f.Properties["from_cell"] = o.FromCell().ID
		f.Properties["to_cell"] = o.ToCell().ID
		f.Properties["pair"] = o.Pair.String()
		f.Properties["flowline_ids"] = ids
		fc.Append(f)
	}
	return fc
}

// WriteEdges writes the edge records as GeoJSON.
func (r *Result) WriteEdges(w io.Writer) error {
	return writeCollection(w, r.EdgeFeatures())
}

// WriteObstacles writes all obstacles as GeoJSON.
func (r *Result) WriteObstacles(w io.Writer) error {
	return writeCollection(w, r.ObstacleFeatures())
}

func writeCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding features")
	}
	if _, err = w.Write(data); err != nil {
		return errors.Wrap(err, "writing features")
	}
	return nil
}
