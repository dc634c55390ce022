// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convergence

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/htsohm/htsohm-plot/seriesplot"
)

// A Metric is a convergence signal that can be plotted.
type Metric int

const (
	EmptyBinsMetric Metric = iota
	VarianceMetric
)

func (m Metric) String() string {
	switch m {
	case EmptyBinsMetric:
		return "EmptyBins"
	case VarianceMetric:
		return "Variance"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

func (m Metric) ylabel() string {
	if m == VarianceMetric {
		return "Normalised bin-count variance"
	}
	return "Number of empty bins"
}

// OutputName returns the file name of the plot of m for runID up to
// maxGen, with extension ext.
func OutputName(runID string, maxGen int, m Metric, ext string) string {
	return fmt.Sprintf("%s_MaxGen%d_%s.%s", runID, maxGen, m, ext)
}

func (r *Reporter) format() string {
	if r.Format == "" {
		return "png"
	}
	return r.Format
}

// PlotEmptyBins plots the empty-bin series of runID and returns the
// path written. If maxGen is 0, it is the run's largest generation.
func (r *Reporter) PlotEmptyBins(runID string, maxGen int) (string, error) {
	return r.Plot(runID, maxGen, EmptyBinsMetric)
}

// PlotVariance plots the normalized variance series of runID and
// returns the path written. If maxGen is 0, it is the run's largest
// generation. Generations without records are left out of the plot
// and logged.
func (r *Reporter) PlotVariance(runID string, maxGen int) (string, error) {
	return r.Plot(runID, maxGen, VarianceMetric)
}

// Plot plots metric m of runID over generations 0 through maxGen-1.
// A run whose largest generation is 0 gets a plot with empty axes.
func (r *Reporter) Plot(runID string, maxGen int, m Metric) (string, error) {
	if maxGen < 0 {
		return "", fmt.Errorf("negative max generation %d", maxGen)
	}
	if maxGen == 0 {
		gen, err := r.MaxGeneration(runID)
		if err != nil {
			return "", err
		}
		maxGen = gen
	}

	s := &seriesplot.Series{
		Title:  fmt.Sprintf("%s (max generation %d)", runID, maxGen),
		XLabel: "Generation",
		YLabel: m.ylabel(),
	}
	switch m {
	case EmptyBinsMetric:
		ns, err := r.EmptyBinSeries(runID, maxGen)
		if err != nil {
			return "", err
		}
		for gen, n := range ns {
			s.Add(float64(gen), float64(n))
		}

	case VarianceMetric:
		vs, err := r.Variances(runID, maxGen)
		if vs == nil {
			return "", err
		}
		var eae *EmptyAggregationError
		if errors.As(err, &eae) {
			r.logger().Warn("skipping generations without records", "run", runID, "err", err)
		}
		for gen, v := range vs {
			s.Add(float64(gen), v)
		}

	default:
		return "", fmt.Errorf("unknown metric %v", m)
	}

	path := filepath.Join(r.OutDir, OutputName(runID, maxGen, m, r.format()))
	if err := seriesplot.Write(path, s); err != nil {
		return "", err
	}
	r.logger().Info("wrote plot", "run", runID, "metric", m.String(), "path", path)
	return path, nil
}
