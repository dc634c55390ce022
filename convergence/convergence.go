// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convergence computes and plots how a screening run fills
// its discretized property space over generations.
//
// Two signals are tracked. The empty-bin count is the number of grid
// cells no qualifying material has reached yet. The normalized
// variance is the variance of per-bin material counts after scaling
// the fullest bin to 1; it falls as the run spreads its materials
// evenly.
package convergence

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/htsohm/htsohm-plot/binstore"
	"github.com/htsohm/htsohm-plot/material"
	"github.com/htsohm/htsohm-plot/runconfig"
)

// ErrNoDimensions is returned when a run configures no binned
// properties.
var ErrNoDimensions = binstore.ErrNoDimensions

// Reporter answers convergence queries for runs in Store configured
// by Configs. Configurations are loaded again for every query.
type Reporter struct {
	Store   binstore.Store
	Configs runconfig.Source

	// ActiveDims makes Variances group bins by the run's configured
	// properties. By default Variances always groups by all three
	// binned properties, whatever the run configures.
	ActiveDims bool

	// OutDir is the directory plots are written to.
	OutDir string

	// Format is the plot image format, "png" or "svg". The default
	// is "png".
	Format string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (r *Reporter) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// query loads runID's configuration and returns the base query for
// it over dims, or the configured dimensions if dims is nil.
func (r *Reporter) query(runID string, gen int, dims []material.Property) (binstore.Query, *runconfig.Config, error) {
	if runID == "" {
		return binstore.Query{}, nil, errors.New("empty run id")
	}
	cfg, err := r.Configs.Load(runID)
	if err != nil {
		return binstore.Query{}, nil, err
	}
	if dims == nil {
		dims = cfg.Dimensions()
		if len(dims) == 0 {
			return binstore.Query{}, nil, fmt.Errorf("run %s: %w", runID, ErrNoDimensions)
		}
	}
	q := binstore.Query{
		RunID:                 runID,
		ChildrenPerGeneration: cfg.ChildrenPerGeneration,
		MaxGeneration:         gen,
		Dims:                  dims,
	}
	return q, cfg, nil
}

func checkGeneration(gen int) error {
	if gen < 0 {
		return fmt.Errorf("negative generation %d", gen)
	}
	return nil
}

// OccupiedBins returns the number of distinct bins over runID's
// configured properties visited by qualifying materials in
// generations 0 through gen.
func (r *Reporter) OccupiedBins(runID string, gen int) (int, error) {
	n, _, err := r.occupied(runID, gen)
	return n, err
}

func (r *Reporter) occupied(runID string, gen int) (occupied, total int, err error) {
	if err := checkGeneration(gen); err != nil {
		return 0, 0, err
	}
	q, cfg, err := r.query(runID, gen, nil)
	if err != nil {
		return 0, 0, err
	}
	n, err := r.Store.OccupiedBins(q)
	if err != nil {
		return 0, 0, err
	}
	return n, material.TotalBins(cfg.ConvergenceBins, len(q.Dims)), nil
}

// EmptyBins returns the number of bins over runID's configured
// properties not yet visited by generation gen.
func (r *Reporter) EmptyBins(runID string, gen int) (int, error) {
	occupied, total, err := r.occupied(runID, gen)
	if err != nil {
		return 0, err
	}
	r.logger().Debug("empty bins", "run", runID, "generation", gen, "occupied", occupied, "total", total)
	return total - occupied, nil
}

// EmptyBinSeries returns EmptyBins for generations 0 through
// maxGen-1.
func (r *Reporter) EmptyBinSeries(runID string, maxGen int) ([]int, error) {
	if err := checkGeneration(maxGen); err != nil {
		return nil, err
	}
	series := make([]int, 0, maxGen)
	for gen := 0; gen < maxGen; gen++ {
		n, err := r.EmptyBins(runID, gen)
		if err != nil {
			return nil, err
		}
		series = append(series, n)
	}
	return series, nil
}

// varianceDims returns the bin key Variances groups by.
func (r *Reporter) varianceDims() []material.Property {
	if r.ActiveDims {
		return nil
	}
	return material.AllProperties
}

// Variances returns the normalized bin-count variance for generations
// 0 through maxGen-1. If maxGen is 0 the series is empty.
//
// A generation with no qualifying records has no variance. Its entry
// is NaN, and Variances returns the whole series along with an error
// joining an *EmptyAggregationError for each such generation. Any
// other failure returns a nil series.
func (r *Reporter) Variances(runID string, maxGen int) ([]float64, error) {
	if err := checkGeneration(maxGen); err != nil {
		return nil, err
	}
	var empty []error
	variances := make([]float64, 0, maxGen)
	for gen := 0; gen < maxGen; gen++ {
		q, _, err := r.query(runID, gen, r.varianceDims())
		if err != nil {
			return nil, err
		}
		counts, err := r.Store.BinCounts(q)
		if err != nil {
			return nil, err
		}
		v, err := NormalizedVariance(counts)
		var eae *EmptyAggregationError
		if errors.As(err, &eae) {
			eae.RunID, eae.Generation = runID, gen
			empty = append(empty, eae)
			variances = append(variances, math.NaN())
			continue
		} else if err != nil {
			return nil, fmt.Errorf("run %s generation %d: %w", runID, gen, err)
		}
		r.logger().Debug("bin-count variance", "run", runID, "generation", gen, "bins", len(counts), "variance", v)
		variances = append(variances, v)
	}
	return variances, errors.Join(empty...)
}

// MaxGeneration returns the largest generation among runID's
// qualifying materials.
func (r *Reporter) MaxGeneration(runID string) (int, error) {
	q, _, err := r.query(runID, binstore.AnyGeneration, []material.Property{})
	if err != nil {
		return 0, err
	}
	gen, ok, err := r.Store.MaxGeneration(q)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &EmptyAggregationError{RunID: runID, Generation: binstore.AnyGeneration}
	}
	return gen, nil
}
