// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

// Side names one side of a cell. North is up.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

var sideNames = [4]string{"top", "bottom", "left", "right"}

func (s Side) String() string { return sideNames[s] }

func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	}
	return Left
}

// Horizontal reports whether the side runs west to east.
func (s Side) Horizontal() bool {
	return s == Top || s == Bottom
}
