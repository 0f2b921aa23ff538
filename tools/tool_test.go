// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package tools

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
)

func newTestManager(t *testing.T) *PluginToolManager {
	t.Helper()
	ptm := &PluginToolManager{
		Quiet:  true,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ptm.InitializeTools()
	ptm.SetWorkingDirectory(t.TempDir())
	return ptm
}

// writeRidgeDEM writes a flat 30x30 ASCII grid with a 5 m ridge
// crossing the centre cell two pixels below its top.
func writeRidgeDEM(t *testing.T, dir string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("ncols 30\nnrows 30\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -9999\n")
	for r := 0; r < 30; r++ {
		row := make([]string, 30)
		for c := range row {
			row[c] = "0"
			if r == 12 && c >= 10 && c < 20 {
				row[c] = "5"
			}
		}
		sb.WriteString(strings.Join(row, " ") + "\n")
	}
	fn := filepath.Join(dir, "dem.asc")
	require.NoError(t, os.WriteFile(fn, []byte(sb.String()), 0644))
	return fn
}

// writeGrid writes a 3x3 grid of 10 m cells, ids 10*row + column counted
// from the south west, with flowlines between orthogonal neighbours.
func writeGrid(t *testing.T, dir string) string {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	id := func(i, j int) int { return 10*(i+4) + j + 5 }
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b := orb.Bound{
				Min: orb.Point{float64(10 * j), float64(10 * i)},
				Max: orb.Point{float64(10*j + 10), float64(10*i + 10)},
			}
			f := geojson.NewFeature(b.ToPolygon())
			f.Properties["type"] = "cell"
			f.Properties["id"] = id(i, j)
			fc.Append(f)
		}
	}
	n := 0
	flow := func(a, b int) {
		n++
		f := geojson.NewFeature(orb.Point{})
		f.Properties["type"] = "flowline"
		f.Properties["id"] = n
		f.Properties["line"] = []int{a, b}
		f.Properties["kind"] = "2d"
		f.Properties["dpumax"] = 0.0
		fc.Append(f)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if j < 2 {
				flow(id(i, j), id(i, j+1))
			}
			if i < 2 {
				flow(id(i, j), id(i+1, j))
			}
		}
	}
	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	fn := filepath.Join(dir, "grid.geojson")
	require.NoError(t, os.WriteFile(fn, data, 0644))
	return fn
}

func readFeatures(t *testing.T, fileName string) []*geojson.Feature {
	t.Helper()
	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	return fc.Features
}

func TestLeakDetectorTool(t *testing.T) {
	ptm := newTestManager(t)
	dir := t.TempDir()
	dem := writeRidgeDEM(t, dir)
	grid := writeGrid(t, dir)
	edges := filepath.Join(dir, "edges")
	obstacles := filepath.Join(dir, "obstacles.geojson")

	err := ptm.RunWithArguments("LeakDetector", []string{dem, grid, edges, obstacles})
	require.NoError(t, err)

	features := readFeatures(t, edges+".geojson")
	require.Len(t, features, 1)
	assert.Equal(t, 56, features[0].Properties.MustInt("from_cell"))
	assert.Equal(t, 66, features[0].Properties.MustInt("to_cell"))
	assert.InDelta(t, 5.0, features[0].Properties.MustFloat64("crest_level"), 0.001)
	assert.NotEmpty(t, readFeatures(t, obstacles))
}

func TestLeakDetectorToolOptions(t *testing.T) {
	ptm := newTestManager(t)
	dir := t.TempDir()
	dem := writeRidgeDEM(t, dir)
	grid := writeGrid(t, dir)
	opts := filepath.Join(dir, "options.yaml")
	require.NoError(t, os.WriteFile(opts, []byte("min_obstacle_height: 6\n"), 0644))
	edges := filepath.Join(dir, "edges.geojson")

	err := ptm.RunWithArguments("leakdetector", []string{dem, grid, edges, "not specified", opts, "56"})
	require.NoError(t, err)
	assert.Empty(t, readFeatures(t, edges))
	_, err = os.Stat(filepath.Join(dir, "obstacles.geojson"))
	assert.True(t, os.IsNotExist(err))
}

func TestLeakDetectorToolBadArguments(t *testing.T) {
	ptm := newTestManager(t)
	dir := t.TempDir()
	dem := writeRidgeDEM(t, dir)
	grid := writeGrid(t, dir)

	err := ptm.RunWithArguments("LeakDetector", []string{dem, grid})
	assert.True(t, errors.Is(err, ErrMissingArguments))

	err = ptm.RunWithArguments("LeakDetector", []string{filepath.Join(dir, "nothere.asc"), grid, "out"})
	assert.True(t, errors.Is(err, raster.FileDoesNotExistError))

	err = ptm.RunWithArguments("LeakDetector", []string{dem, grid, "out", "", "", "56 x"})
	assert.Error(t, err)
}

func TestToolManager(t *testing.T) {
	ptm := newTestManager(t)

	tools := ptm.GetListOfTools()
	require.Len(t, tools, 1)
	assert.Equal(t, "LeakDetector", tools[0].GetName())

	_, err := ptm.GetToolHelp("NoSuchTool")
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.True(t, errors.Is(ptm.RunWithArguments("NoSuchTool", nil), ErrUnknownTool))

	desc, err := ptm.GetToolArgDescriptions("LeakDetector")
	require.NoError(t, err)
	require.Len(t, desc, 6)
	assert.True(t, strings.HasPrefix(desc[0], "InputDEM "))
	// columns line up
	assert.Equal(t, strings.Index(desc[0], "string"), strings.Index(desc[5], "string"))
}

func TestResolvePath(t *testing.T) {
	ptm := &PluginToolManager{}
	ptm.SetWorkingDirectory("/data")
	assert.Equal(t, fmt.Sprintf("/data%sdem.asc", pathSep), ptm.resolvePath(" dem.asc "))
	assert.Equal(t, "/other/dem.asc", ptm.resolvePath("/other/dem.asc"))
	assert.Equal(t, "", ptm.resolvePath(""))
	assert.Equal(t, "out.geojson", withExtension("out", ".geojson"))
	assert.Equal(t, "out.json", withExtension("out.json", ".geojson"))
}
