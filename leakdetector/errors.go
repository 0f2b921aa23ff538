// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Configuration errors. They abort topology construction or a run.
var (
	ErrUnknownCell    = errors.New("cell id has no cell record")
	ErrNotAdjacent    = errors.New("cells are not adjacent")
	ErrNoOverlap      = errors.New("cell window does not intersect the DEM")
	ErrMisaligned     = errors.New("cell bounding box is not aligned with the DEM pixels")
	ErrInvalidOptions = errors.New("invalid detector options")
	ErrAlreadyRun     = errors.New("topology has already been analysed")
)

// Warning is a data-quality condition met while building the topology or
// analysing a cell pair. Processing continues after a warning.
type Warning struct {
	Edge    EdgeKey
	Cell    int
	Message string
}

func (w Warning) String() string {
	if w.Edge != (EdgeKey{}) {
		return fmt.Sprintf("edge %d-%d: %s", w.Edge.From, w.Edge.To, w.Message)
	}
	return fmt.Sprintf("cell %d: %s", w.Cell, w.Message)
}
