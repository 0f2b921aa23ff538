// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"math"

	"github.com/threedi/beta-plugins-sub000/structures"
)

var dX = [8]int{1, 1, 1, 0, -1, -1, -1, 0}
var dY = [8]int{-1, 0, 1, 1, 1, 0, -1, -1}

// crestSearch answers connectivity questions on one elevation array. The
// scratch buffers are reused between calls, so a crestSearch must not be
// shared between goroutines.
type crestSearch struct {
	z     *structures.RectangularArrayFloat64
	stamp []int
	gen   int
	queue []int
}

func newCrestSearch(z *structures.RectangularArrayFloat64) *crestSearch {
	return &crestSearch{z: z, stamp: make([]int, len(z.Data()))}
}

// connected reports whether from and to are joined by an 8-connected path
// of pixels at or above h.
func (s *crestSearch) connected(from, to int, h float64) bool {
	return s.flood(from, to, h, nil)
}

// fill marks in mask every pixel of the 8-connected region at or above h
// that contains from.
func (s *crestSearch) fill(from int, h float64, mask *structures.RectangularArrayBool) {
	s.flood(from, -1, h, mask)
}

func (s *crestSearch) flood(from, to int, h float64, mask *structures.RectangularArrayBool) bool {
	data := s.z.Data()
	if data[from] < h || (to >= 0 && data[to] < h) {
		return false
	}
	rows, columns := s.z.GetRows(), s.z.GetColumns()
	s.gen++
	s.stamp[from] = s.gen
	s.queue = append(s.queue[:0], from)
	for len(s.queue) > 0 {
		i := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]
		if i == to {
			return true
		}
		row, col := i/columns, i%columns
		if mask != nil {
			mask.SetValue(row, col, true)
		}
		for n := 0; n < 8; n++ {
			rn, cn := row+dY[n], col+dX[n]
			if rn < 0 || rn >= rows || cn < 0 || cn >= columns {
				continue
			}
			j := rn*columns + cn
			if s.stamp[j] != s.gen && data[j] >= h {
				s.stamp[j] = s.gen
				s.queue = append(s.queue, j)
			}
		}
	}
	return false
}

// bisect narrows the highest level at which from and to are still connected
// down to precision. lo must be a level at which they are connected. It
// returns the midpoint of the final interval and its connected lower bound.
func (s *crestSearch) bisect(from, to int, lo, precision float64) (crest, connectedAt float64) {
	data := s.z.Data()
	hmax := math.Max(data[from], data[to])
	if s.connected(from, to, hmax) {
		return hmax, hmax
	}
	hmin := lo
	for hmax-hmin > precision {
		h := (hmin + hmax) / 2
		if s.connected(from, to, h) {
			hmin = h
		} else {
			hmax = h
		}
	}
	return (hmin + hmax) / 2, hmin
}

// widestPath returns the exact highest level at which from and to are
// connected: the largest over all 8-connected paths of the lowest pixel on
// the path. Pixels are expanded highest bottleneck first.
func (s *crestSearch) widestPath(from, to int) float64 {
	data := s.z.Data()
	rows, columns := s.z.GetRows(), s.z.GetColumns()
	best := make([]float64, len(data))
	for i := range best {
		best[i] = math.Inf(-1)
	}
	s.gen++
	pq := structures.NewPQueue(structures.MAXPQ)
	best[from] = data[from]
	pq.Push(from, data[from])
	for pq.Len() > 0 {
		i, b, _ := pq.Pop()
		if i == to {
			return b
		}
		if s.stamp[i] == s.gen {
			continue
		}
		s.stamp[i] = s.gen
		row, col := i/columns, i%columns
		for n := 0; n < 8; n++ {
			rn, cn := row+dY[n], col+dX[n]
			if rn < 0 || rn >= rows || cn < 0 || cn >= columns {
				continue
			}
			j := rn*columns + cn
			if s.stamp[j] == s.gen {
				continue
			}
			if nb := math.Min(b, data[j]); nb > best[j] {
				best[j] = nb
				pq.Push(j, nb)
			}
		}
	}
	return math.Inf(-1)
}
