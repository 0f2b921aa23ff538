// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

// findPeaks returns the indices of the local maxima of x whose prominence is
// at least minProminence. A flat peak is reported at the (rounded down)
// middle of its plateau. The first and last sample are never peaks.
func findPeaks(x []float64, minProminence float64) []int {
	var peaks []int
	iMax := len(x) - 1
	i := 1
	for i < iMax {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < iMax && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				peak := (i + ahead - 1) / 2
				if prominence(x, peak) >= minProminence {
					peaks = append(peaks, peak)
				}
			}
			i = ahead
			continue
		}
		i++
	}
	return peaks
}

// prominence is the height of x[peak] above the higher of the two lowest
// points reached walking outwards before meeting higher ground.
func prominence(x []float64, peak int) float64 {
	z := x[peak]
	leftMin := z
	for i := peak; i >= 0 && x[i] <= z; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}
	rightMin := z
	for i := peak; i < len(x) && x[i] <= z; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}
	if leftMin > rightMin {
		return z - leftMin
	}
	return z - rightMin
}
