// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		prom float64
		want []int
	}{
		{"single", []float64{0, 1, 0}, 0.5, []int{1}},
		{"odd plateau", []float64{0, 1, 2, 2, 2, 1, 0}, 0.5, []int{3}},
		{"even plateau", []float64{0, 2, 2, 0}, 0.5, []int{1}},
		{"first sample", []float64{5, 0, 0}, 0.5, nil},
		{"last sample", []float64{0, 0, 5}, 0.5, nil},
		{"rising plateau at end", []float64{0, 3, 3}, 0.5, nil},
		{"both pass", []float64{0, 3, 1, 4, 0}, 1.5, []int{1, 3}},
		{"prominence filter", []float64{0, 3, 1, 4, 0}, 2.5, []int{3}},
		{"flat", []float64{1, 1, 1, 1}, 0, nil},
		{"short", []float64{1, 2}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findPeaks(tt.x, tt.prom))
		})
	}
}

func TestProminence(t *testing.T) {
	x := []float64{0, 3, 1, 4, 0}
	assert.Equal(t, 2.0, prominence(x, 1))
	assert.Equal(t, 4.0, prominence(x, 3))

	// the higher of the two bases counts
	assert.Equal(t, 1.0, prominence([]float64{2, 3, 0}, 1))
}
