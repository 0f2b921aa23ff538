// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/gridadmin"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
)

const testNodata = -9999.0

// demFixture is a synthetic DEM with 1 m pixels, its west edge at x = 0 and
// its south edge at y = 0.
type demFixture struct {
	rows, columns int
	z             []float64
}

func newDEM(rows, columns int) *demFixture {
	return &demFixture{rows: rows, columns: columns, z: make([]float64, rows*columns)}
}

func (d *demFixture) set(row, column int, z float64) {
	d.z[row*d.columns+column] = z
}

func (d *demFixture) fill(row, column, rows, columns int, z float64) {
	for r := row; r < row+rows; r++ {
		for c := column; c < column+columns; c++ {
			d.set(r, c, z)
		}
	}
}

func (d *demFixture) noise(seed int64, amplitude float64) {
	rnd := rand.New(rand.NewSource(seed))
	for i := range d.z {
		d.z[i] += amplitude * rnd.Float64()
	}
}

func (d *demFixture) raster(t *testing.T) *raster.Raster {
	t.Helper()
	values := append([]float64(nil), d.z...)
	r, err := raster.NewRasterFromData(d.rows, d.columns, float64(d.rows), 0, float64(d.columns), 0, testNodata, values)
	require.NoError(t, err)
	return r
}

// bbox of a block of pixels given by its top-left pixel and size.
func (d *demFixture) bbox(row, column, rows, columns int) orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(column), float64(d.rows - row - rows)},
		Max: orb.Point{float64(column + columns), float64(d.rows - row)},
	}
}

type gridBuilder struct {
	dem  *demFixture
	grid gridadmin.Grid
}

func (g *gridBuilder) cell(id, row, column, size int) {
	g.grid.Cells = append(g.grid.Cells, gridadmin.Cell{ID: id, BBox: g.dem.bbox(row, column, size, size)})
}

func (g *gridBuilder) flow(a, b int) {
	g.grid.Flowlines = append(g.grid.Flowlines, gridadmin.Flowline{
		ID: len(g.grid.Flowlines) + 1, Start: a, End: b, Kind: "2d",
	})
}

func (g *gridBuilder) flowLevel(a, b int, level float64) {
	g.flow(a, b)
	fl := &g.grid.Flowlines[len(g.grid.Flowlines)-1]
	fl.ExchangeLevel, fl.HasExchangeLevel = level, true
}

// nineCells is a 3x3 grid of 10x10 pixel cells numbered
//
//	65 66 67
//	55 56 57
//	45 46 47
//
// with flowlines between all orthogonal neighbours.
func nineCells(dem *demFixture) *gridBuilder {
	g := &gridBuilder{dem: dem}
	for i, row := range [][]int{{65, 66, 67}, {55, 56, 57}, {45, 46, 47}} {
		for j, id := range row {
			g.cell(id, i*10, j*10, 10)
		}
	}
	for _, f := range [][2]int{
		{45, 46}, {46, 47}, {55, 56}, {56, 57}, {65, 66}, {66, 67},
		{45, 55}, {46, 56}, {47, 57}, {55, 65}, {56, 66}, {57, 67},
	} {
		g.flow(f[0], f[1])
	}
	return g
}

// unequalCells is a 40x40 pixel cell (1) below two 20x20 cells (2, 3).
func unequalCells(dem *demFixture) *gridBuilder {
	g := &gridBuilder{dem: dem}
	g.cell(2, 0, 0, 20)
	g.cell(3, 0, 20, 20)
	g.cell(1, 20, 0, 40)
	g.flow(1, 2)
	g.flow(1, 3)
	g.flow(2, 3)
	return g
}

func buildTopology(t *testing.T, dem *demFixture, g *gridBuilder, opts Options, ids ...int) *Topology {
	t.Helper()
	topo, err := NewTopology(ids, dem.raster(t), &g.grid, opts)
	require.NoError(t, err)
	return topo
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Workers = 2
	return opts
}
