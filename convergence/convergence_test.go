// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convergence

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htsohm/htsohm-plot/binstore"
	"github.com/htsohm/htsohm-plot/material"
	"github.com/htsohm/htsohm-plot/runconfig"
)

func mat(gen, idx int, retest material.Retest, ga, sa, vf int) material.Material {
	return material.Material{
		RunID: "test_run", Generation: gen, GenerationIndex: idx, Retest: retest,
		GasAdsorptionBin: ga, SurfaceAreaBin: sa, VoidFractionBin: vf,
	}
}

var records = []material.Material{
	mat(0, 0, material.RetestPending, 0, 0, 0),
	mat(0, 1, material.RetestPending, 0, 0, 1),
	mat(0, 2, material.RetestPassed, 1, 3, 0),
	mat(0, 3, material.RetestPending, 2, 2, 0),
	mat(0, 4, material.RetestPending, 3, 3, 3), // overflow
	mat(1, 0, material.RetestFailed, 3, 0, 0),
	mat(1, 1, material.RetestPending, 0, 0, 0),
	mat(1, 2, material.RetestPending, 3, 1, 0),
	mat(3, 0, material.RetestPending, 0, 0, 0),
}

func newReporter(t *testing.T, props ...string) *Reporter {
	if props == nil {
		props = []string{"gas_adsorption_0", "surface_area"}
	}
	return &Reporter{
		Store: binstore.NewTableStore(records),
		Configs: runconfig.MapSource{"test_run": {
			MaterialProperties:    props,
			ConvergenceBins:       4,
			ChildrenPerGeneration: 4,
		}},
		OutDir: t.TempDir(),
	}
}

func TestEmptyBinsScenario(t *testing.T) {
	r := newReporter(t)
	occupied, err := r.OccupiedBins("test_run", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, occupied)
	empty, err := r.EmptyBins("test_run", 0)
	require.NoError(t, err)
	assert.Equal(t, 13, empty)
}

func TestEmptyBinsInvariants(t *testing.T) {
	for _, props := range [][]string{
		{"surface_area"},
		{"gas_adsorption_0", "surface_area"},
		{"gas_adsorption_0", "surface_area", "helium_void_fraction"},
	} {
		r := newReporter(t, props...)
		total := material.TotalBins(4, len(props))
		last := 0
		for gen := 0; gen <= 4; gen++ {
			occupied, err := r.OccupiedBins("test_run", gen)
			require.NoError(t, err)
			empty, err := r.EmptyBins("test_run", gen)
			require.NoError(t, err)
			assert.Equal(t, total, occupied+empty, "props %v gen %d", props, gen)
			assert.GreaterOrEqual(t, occupied, last, "props %v gen %d", props, gen)
			last = occupied
		}
	}
}

func TestEmptyBinSeries(t *testing.T) {
	r := newReporter(t)
	series, err := r.EmptyBinSeries("test_run", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 12, 12, 12}, series)

	series, err = r.EmptyBinSeries("test_run", 0)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestNoDimensions(t *testing.T) {
	r := newReporter(t, "lattice_constants")
	_, err := r.EmptyBins("test_run", 0)
	assert.ErrorIs(t, err, ErrNoDimensions)

	r.ActiveDims = true
	_, err = r.Variances("test_run", 1)
	assert.ErrorIs(t, err, ErrNoDimensions)
}

func TestArgumentErrors(t *testing.T) {
	r := newReporter(t)
	_, err := r.EmptyBins("", 0)
	assert.Error(t, err)
	_, err = r.EmptyBins("test_run", -1)
	assert.Error(t, err)
	_, err = r.EmptyBins("nobody", 0)
	assert.ErrorIs(t, err, runconfig.ErrConfigNotFound)
	_, err = r.Variances("test_run", -1)
	assert.Error(t, err)

	vs, err := r.Variances("test_run", 0)
	require.NoError(t, err)
	assert.NotNil(t, vs)
	assert.Empty(t, vs)
}

func TestNormalizeCounts(t *testing.T) {
	xs, err := NormalizeCounts([]int{2, 4, 1, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 0.25, 1}, xs)
	for _, x := range xs {
		assert.True(t, x >= 0 && x <= 1)
	}
	assert.Contains(t, xs, 1.0)

	_, err = NormalizeCounts(nil)
	var eae *EmptyAggregationError
	assert.True(t, errors.As(err, &eae))
}

func TestNormalizedVariance(t *testing.T) {
	for _, test := range []struct {
		counts []int
		want   float64
	}{
		{[]int{3}, 0},
		{[]int{5, 5, 5}, 0},
		// Normalized {0.5, 1}: mean 0.75, population variance 0.0625.
		{[]int{1, 2}, 0.0625},
		// Normalized {0.25, 0.5, 1}: mean 7/12.
		{[]int{1, 2, 4}, (math.Pow(0.25-7.0/12, 2) + math.Pow(0.5-7.0/12, 2) + math.Pow(1-7.0/12, 2)) / 3},
	} {
		got, err := NormalizedVariance(test.counts)
		require.NoError(t, err)
		assert.InDelta(t, test.want, got, 1e-12, "counts %v", test.counts)
	}
}

func TestVariances(t *testing.T) {
	r := newReporter(t)
	vs, err := r.Variances("test_run", 3)
	require.NoError(t, err)
	require.Len(t, vs, 3)
	// Generation 0: four bins of one record each.
	assert.InDelta(t, 0, vs[0], 1e-12)
	// Generation 1: (0,0,0) has 2, three others 1 each, and
	// (3,1,0) adds a fifth: normalized {1, .5, .5, .5, .5}.
	assert.InDelta(t, 0.04, vs[1], 1e-12)
	assert.InDelta(t, vs[1], vs[2], 1e-12)
}

func TestVariancesActiveDims(t *testing.T) {
	r := newReporter(t, "surface_area")
	r.ActiveDims = true
	vs, err := r.Variances("test_run", 1)
	require.NoError(t, err)
	// Surface-area bins at generation 0: 0 has 2, 3 and 2 have
	// 1: normalized {1, .5, .5}.
	assert.InDelta(t, 1.0/18, vs[0], 1e-12)
}

func TestVariancesEmptyGeneration(t *testing.T) {
	r := newReporter(t)
	r.Store = binstore.NewTableStore(records[5:]) // first qualifying record is in generation 1
	vs, err := r.Variances("test_run", 2)
	require.Error(t, err)
	var eae *EmptyAggregationError
	require.True(t, errors.As(err, &eae))
	assert.Equal(t, 0, eae.Generation)
	assert.Equal(t, "test_run", eae.RunID)
	require.Len(t, vs, 2)
	assert.True(t, math.IsNaN(vs[0]))
	assert.False(t, math.IsNaN(vs[1]))
}

func TestMaxGeneration(t *testing.T) {
	r := newReporter(t)
	gen, err := r.MaxGeneration("test_run")
	require.NoError(t, err)
	assert.Equal(t, 3, gen)

	r.Store = binstore.NewTableStore(nil)
	_, err = r.MaxGeneration("test_run")
	var eae *EmptyAggregationError
	assert.True(t, errors.As(err, &eae))
}

func TestPlot(t *testing.T) {
	r := newReporter(t)
	path, err := r.PlotEmptyBins("test_run", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.OutDir, "test_run_MaxGen3_EmptyBins.png"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	r.Format = "svg"
	path, err = r.PlotVariance("test_run", 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.OutDir, "test_run_MaxGen2_Variance.svg"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestPlotFirstGenerationOnly(t *testing.T) {
	r := newReporter(t)
	r.Store = binstore.NewTableStore(records[:4])
	for _, test := range []struct {
		plot func(string, int) (string, error)
		name string
	}{
		{r.PlotEmptyBins, "test_run_MaxGen0_EmptyBins.png"},
		{r.PlotVariance, "test_run_MaxGen0_Variance.png"},
	} {
		path, err := test.plot("test_run", 0)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(r.OutDir, test.name), path)
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, fi.Size(), "%s", test.name)
	}
}

func TestPlotVarianceSkipsEmptyGenerations(t *testing.T) {
	r := newReporter(t)
	r.Store = binstore.NewTableStore(records[5:])
	path, err := r.PlotVariance("test_run", 3)
	require.NoError(t, err)
	assert.Equal(t, "test_run_MaxGen3_Variance.png", filepath.Base(path))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "r1_MaxGen12_EmptyBins.png", OutputName("r1", 12, EmptyBinsMetric, "png"))
	assert.Equal(t, "r1_MaxGen3_Variance.png", OutputName("r1", 3, VarianceMetric, "png"))
}
