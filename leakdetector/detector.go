// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// Package leakdetector finds obstacles in a DEM that block flow between two
// adjacent cells of a 3Di computational grid but lie above the exchange
// level the grid uses for that connection.
//
// A Topology reads the cells and edges of (part of) a grid from the DEM.
// For every edge, a CellPair merges the two cells, looks for ridge maxima
// along the sides of the pair and searches the crest level at which two
// maxima on opposite sides become disconnected. The Detector runs all cell
// pairs and attaches the obstacles to their edges.
package leakdetector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Detector runs the cell pairs of a topology.
type Detector struct {
	topo   *Topology
	opts   Options
	logger *slog.Logger
}

// NewDetector returns a detector logging to logger, or to slog.Default when
// logger is nil.
func NewDetector(topo *Topology, opts Options, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{topo: topo, opts: opts, logger: logger}
}

type pairResult struct {
	obstacles []*Obstacle
	warnings  []Warning
}

// Run analyses every edge of the topology. Cell pairs run concurrently;
// their obstacles are attached to the edges afterwards in edge order, so the
// result does not depend on scheduling. Cancelling ctx stops new pairs from
// starting and makes Run return the context error. A topology can be run
// once; later runs return ErrAlreadyRun.
func (d *Detector) Run(ctx context.Context) (*Result, error) {
	if err := d.opts.Validate(); err != nil {
		return nil, err
	}
	if d.topo.analysed {
		return nil, ErrAlreadyRun
	}
	start := time.Now()
	edges := d.topo.Edges()
	results := make([]pairResult, len(edges))

	jobs := make(chan int)
	done := make(chan int)
	var wg sync.WaitGroup
	numWorkers := d.opts.workers()
	for k := 0; k < numWorkers; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.analyse(edges[i])
				done <- i
			}
		}()
	}

	queued := make(chan int, 1)
	go func() {
		defer close(jobs)
		n := 0
		defer func() { queued <- n }()
		for i := range edges {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
				n++
			}
		}
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if d.opts.Progress != nil {
			d.opts.Progress(completed, len(edges))
		}
	}
	if n := <-queued; n < len(edges) {
		d.logger.Warn("run cancelled", "pairs", n, "total", len(edges))
		return nil, ctx.Err()
	}

	d.topo.analysed = true
	res := &Result{Edges: edges, GeoTransform: d.topo.GeoTransform()}
	res.Warnings = append(res.Warnings, d.topo.Warnings()...)
	for i, e := range edges {
		for _, o := range results[i].obstacles {
			for _, oe := range o.Edges {
				oe.AddObstacle(o)
			}
			res.Obstacles = append(res.Obstacles, o)
		}
		for _, w := range results[i].warnings {
			d.logger.Debug("cell pair", "edge", e.Key.String(), "warning", w.Message)
		}
		res.Warnings = append(res.Warnings, results[i].warnings...)
	}
	d.logger.Info("leak detection complete",
		"pairs", len(edges),
		"obstacles", len(res.Obstacles),
		"leaking_edges", len(res.Records()),
		"warnings", len(res.Warnings),
		"elapsed", time.Since(start))
	return res, nil
}

// analyse runs one cell pair. A failure is reported as a warning so that it
// cannot affect other pairs.
func (d *Detector) analyse(e *Edge) (res pairResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("cell pair failed", "edge", e.Key.String(), "panic", r)
			res = pairResult{warnings: []Warning{{Edge: e.Key, Message: fmt.Sprintf("analysis failed: %v", r)}}}
		}
	}()
	pair, err := NewCellPair(e.Reference, e.Neighbour, d.topo, d.opts)
	if err != nil {
		d.logger.Error("cell pair rejected", "edge", e.Key.String(), "err", err)
		return pairResult{warnings: []Warning{{Edge: e.Key, Message: err.Error()}}}
	}
	obstacles, warnings := pair.FindObstacles()
	d.logger.Debug("cell pair analysed", "edge", e.Key.String(), "obstacles", len(obstacles))
	return pairResult{obstacles: obstacles, warnings: warnings}
}
