package raster

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiDEM = `ncols         4
nrows         3
xllcorner     100.0
yllcorner     200.0
cellsize      0.5
NODATA_value  -9999
1 2 3 4
5 -9999 7 8
9 10 11 12
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func TestReadArcGisAscii(t *testing.T) {
	fn := writeFile(t, "dem.asc", asciiDEM)
	r, err := CreateRasterFromFile(fn)
	require.NoError(t, err)

	assert.Equal(t, RT_ArcGisAsciiRaster, r.RasterFormat)
	assert.Equal(t, 3, r.Rows)
	assert.Equal(t, 4, r.Columns)
	assert.Equal(t, 100.0, r.West)
	assert.Equal(t, 102.0, r.East)
	assert.Equal(t, 201.5, r.North)
	assert.Equal(t, 7.0, r.Value(1, 2))
	assert.True(t, r.IsNoData(r.Value(1, 1)))
	assert.True(t, r.IsNoData(r.Value(5, 5)))
	assert.Equal(t, 1.0, r.GetMinimumValue())
	assert.Equal(t, 12.0, r.GetMaximumValue())

	gt := r.GeoTransform()
	assert.Equal(t, 0.5, gt.PixelSize())
	col, row := gt.ToPixel(101.25, 200.25)
	assert.InDelta(t, 2.5, col, 1e-9)
	assert.InDelta(t, 2.5, row, 1e-9)
	x, y := gt.ToGeo(2.5, 2.5)
	assert.InDelta(t, 101.25, x, 1e-9)
	assert.InDelta(t, 200.25, y, 1e-9)
}

func TestReadArcGisAsciiCenterMode(t *testing.T) {
	content := "ncols 2\nnrows 1\nxllcenter 0.5\nyllcenter 0.5\ncellsize 1\nnodata_value -1\n3 4\n"
	r, err := CreateRasterFromFile(writeFile(t, "c.asc", content))
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.West)
	assert.Equal(t, 1.0, r.North)
}

func TestReadArcGisAsciiMalformed(t *testing.T) {
	content := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n"
	_, err := CreateRasterFromFile(writeFile(t, "bad.asc", content))
	require.Error(t, err)
	assert.Equal(t, FileIsNotProperlyFormated, errors.Cause(err))

	_, err = CreateRasterFromFile(writeFile(t, "nohdr.asc", "1 2\n3 4\n"))
	require.Error(t, err)
}

func TestReadArcGisBinary(t *testing.T) {
	dir := t.TempDir()
	hdr := "ncols 2\nnrows 2\nxllcorner 10\nyllcorner 20\ncellsize 2\nnodata_value -9999\nbyteorder LSBFIRST\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dem.hdr"), []byte(hdr), 0o644))
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float32{1.5, -9999, 3, 4}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dem.flt"), buf.Bytes(), 0o644))

	r, err := CreateRasterFromFile(filepath.Join(dir, "dem.flt"))
	require.NoError(t, err)
	assert.Equal(t, RT_ArcGisBinaryRaster, r.RasterFormat)
	assert.Equal(t, 1.5, r.Value(0, 0))
	assert.True(t, r.IsNoData(r.Value(0, 1)))
	assert.Equal(t, 24.0, r.North)
	assert.Equal(t, 14.0, r.East)
}

func TestDetermineRasterFormat(t *testing.T) {
	rt, err := DetermineRasterFormat("a/b/DEM.ASC")
	require.NoError(t, err)
	assert.Equal(t, RT_ArcGisAsciiRaster, rt)

	_, err = DetermineRasterFormat("dem.xyz")
	assert.Equal(t, UnsupportedRasterFormatError, err)

	_, err = CreateRasterFromFile(filepath.Join(t.TempDir(), "missing.asc"))
	assert.Equal(t, FileDoesNotExistError, errors.Cause(err))
}

func TestReadWindowPadsOutsideExtent(t *testing.T) {
	r, err := NewRasterFromData(2, 2, 2, 0, 2, 0, -9999, []float64{1, 2, -9999, 4})
	require.NoError(t, err)

	w := r.ReadWindow(-1, 1, 3, 2)
	assert.Equal(t, 3, w.Rows)
	assert.Equal(t, 2, w.Columns)

	_, ok := w.At(0, 0)
	assert.False(t, ok, "row above the raster")
	z, ok := w.At(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 2.0, z)
	_, ok = w.At(1, 1)
	assert.False(t, ok, "column right of the raster")
	z, ok = w.At(2, 0)
	assert.True(t, ok)
	assert.Equal(t, 4.0, z)
	assert.Equal(t, 2, w.ValidCount())

	hi, ok := w.MaxValid()
	assert.True(t, ok)
	assert.Equal(t, 4.0, hi)

	empty := r.ReadWindow(10, 10, 2, 2)
	assert.Equal(t, 0, empty.ValidCount())
	_, ok = empty.MaxValid()
	assert.False(t, ok)
}

func TestNewRasterFromDataRejectsBadShape(t *testing.T) {
	_, err := NewRasterFromData(2, 2, 2, 0, 2, 0, -9999, []float64{1})
	assert.Equal(t, DataSetError, err)
	_, err = NewRasterFromData(2, 2, 2, 0, 4, 0, -9999, []float64{1, 2, 3, 4})
	assert.Equal(t, NonSquarePixelsError, err)
}
