// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package leakdetector

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Crest level search methods.
const (
	CrestBisection     = "bisection"
	CrestPriorityFlood = "priority-flood"
)

// Options are the tuning parameters of the detector. Elevations are in
// DEM units (metres).
type Options struct {
	// Minimum height above the exchange level for an obstacle to count.
	MinObstacleHeight float64 `yaml:"min_obstacle_height"`
	// Vertical tolerance of the crest level search.
	SearchPrecision float64 `yaml:"search_precision"`
	// Minimum prominence of a ridge maximum. Zero means MinObstacleHeight.
	MinPeakProminence float64 `yaml:"min_peak_prominence"`
	// Number of cell pairs analysed concurrently. Zero means one per CPU.
	Workers int `yaml:"workers"`
	// CrestBisection (default) or CrestPriorityFlood.
	CrestMethod string `yaml:"crest_method"`

	// Progress, if set, is called from the collecting goroutine after each
	// cell pair with the number of pairs done so far.
	Progress func(done, total int) `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		MinObstacleHeight: 0.05,
		SearchPrecision:   0.001,
		CrestMethod:       CrestBisection,
	}
}

// LoadOptions reads options from a YAML file on top of DefaultOptions.
func LoadOptions(fileName string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(fileName)
	if err != nil {
		return opts, errors.Wrapf(err, "reading options %s", fileName)
	}
	if err = yaml.UnmarshalStrict(data, &opts); err != nil {
		return opts, errors.Wrapf(ErrInvalidOptions, "%s: %v", fileName, err)
	}
	return opts, opts.Validate()
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	switch {
	case o.MinObstacleHeight < 0:
		return errors.Wrapf(ErrInvalidOptions, "min_obstacle_height %v is negative", o.MinObstacleHeight)
	case !(o.SearchPrecision > 0):
		return errors.Wrapf(ErrInvalidOptions, "search_precision %v must be positive", o.SearchPrecision)
	case o.MinPeakProminence < 0:
		return errors.Wrapf(ErrInvalidOptions, "min_peak_prominence %v is negative", o.MinPeakProminence)
	case o.Workers < 0:
		return errors.Wrapf(ErrInvalidOptions, "workers %d is negative", o.Workers)
	}
	switch o.CrestMethod {
	case "", CrestBisection, CrestPriorityFlood:
	default:
		return errors.Wrapf(ErrInvalidOptions, "unknown crest_method %q", o.CrestMethod)
	}
	return nil
}

// PeakProminence is the effective minimum peak prominence.
func (o Options) PeakProminence() float64 {
	if o.MinPeakProminence > 0 {
		return o.MinPeakProminence
	}
	return o.MinObstacleHeight
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// significance is the level an elevation must exceed to stand out above
// the given exchange level.
func (o Options) significance(exchangeLevel float64) float64 {
	return exchangeLevel + o.MinObstacleHeight - o.SearchPrecision
}
