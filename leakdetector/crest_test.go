// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threedi/beta-plugins-sub000/structures"
)

func randomSurface(t *testing.T, seed int64, rows, columns int) *structures.RectangularArrayFloat64 {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	values := make([]float64, rows*columns)
	for i := range values {
		values[i] = float64(rnd.Intn(1000)) / 100
	}
	z := structures.NewRectangularArrayFloat64(rows, columns, 0)
	require.NoError(t, z.InitializeWithData(values))
	return z
}

// bruteForceCrest scans every pixel value as a threshold.
func bruteForceCrest(s *crestSearch, from, to int) float64 {
	levels := append([]float64(nil), s.z.Data()...)
	sort.Float64s(levels)
	for i := len(levels) - 1; i >= 0; i-- {
		if s.connected(from, to, levels[i]) {
			return levels[i]
		}
	}
	return levels[0]
}

func TestConnected(t *testing.T) {
	z := structures.NewRectangularArrayFloat64(3, 3, 0)
	require.NoError(t, z.InitializeWithData([]float64{
		5, 0, 0,
		0, 5, 0,
		0, 0, 5,
	}))
	s := newCrestSearch(z)
	assert.True(t, s.connected(0, 8, 5), "diagonal neighbours connect")
	assert.False(t, s.connected(0, 8, 5.1))
	assert.False(t, s.connected(0, 2, 1))
	assert.True(t, s.connected(0, 2, 0))
}

func TestFill(t *testing.T) {
	z := structures.NewRectangularArrayFloat64(3, 4, 0)
	require.NoError(t, z.InitializeWithData([]float64{
		5, 5, 0, 5,
		0, 5, 0, 5,
		0, 0, 0, 5,
	}))
	mask := structures.NewRectangularArrayBool(3, 4)
	newCrestSearch(z).fill(0, 4, mask)
	assert.Equal(t, 3, mask.Count(0, 0, 3, 4))
	assert.False(t, mask.Value(0, 3))
}

func TestCrestMethodsAgree(t *testing.T) {
	const precision = 0.001
	for seed := int64(1); seed <= 20; seed++ {
		z := randomSurface(t, seed, 9, 7)
		s := newCrestSearch(z)
		from, to := z.Index(0, 3), z.Index(8, 2)

		exact := bruteForceCrest(s, from, to)
		assert.Equal(t, exact, s.widestPath(from, to), "seed %d", seed)

		crest, connectedAt := s.bisect(from, to, z.Min(), precision)
		assert.InDelta(t, exact, crest, precision, "seed %d", seed)
		assert.True(t, s.connected(from, to, connectedAt), "seed %d", seed)
		assert.LessOrEqual(t, connectedAt, exact, "seed %d", seed)
	}
}

func TestBisectShortcut(t *testing.T) {
	z := structures.NewRectangularArrayFloat64(2, 3, 0)
	require.NoError(t, z.InitializeWithData([]float64{
		4, 4, 4,
		0, 0, 0,
	}))
	crest, connectedAt := newCrestSearch(z).bisect(0, 2, 0, 0.001)
	assert.Equal(t, 4.0, crest)
	assert.Equal(t, 4.0, connectedAt)
}
