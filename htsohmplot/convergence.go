// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"

	"github.com/htsohm/htsohm-plot/binstore"
	"github.com/htsohm/htsohm-plot/convergence"
	"github.com/htsohm/htsohm-plot/runconfig"
)

type seriesFlags struct {
	maxGen     int
	table      bool
	activeDims bool
}

func newEmptyBinsCmd(opts *options) *cobra.Command {
	var sf seriesFlags
	cmd := &cobra.Command{
		Use:   "empty-bins <run id>",
		Short: "Plot the number of empty bins per generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(cmd, opts, &sf, args[0], convergence.EmptyBinsMetric)
		},
	}
	addSeriesFlags(cmd, &sf)
	return cmd
}

func newVarianceCmd(opts *options) *cobra.Command {
	var sf seriesFlags
	cmd := &cobra.Command{
		Use:   "variance <run id>",
		Short: "Plot the normalized bin-count variance per generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(cmd, opts, &sf, args[0], convergence.VarianceMetric)
		},
	}
	addSeriesFlags(cmd, &sf)
	cmd.Flags().BoolVar(&sf.activeDims, "active-dims", false, "group bins by the run's configured properties instead of all three")
	return cmd
}

func addSeriesFlags(cmd *cobra.Command, sf *seriesFlags) {
	f := cmd.Flags()
	f.IntVarP(&sf.maxGen, "max-gen", "g", 0, "plot generations below `n` (default: the run's largest generation)")
	f.BoolVar(&sf.table, "table", false, "print a table instead of a plot")
}

// openStore returns the record store selected by opts and a function
// that releases it.
func openStore(opts *options) (binstore.Store, func(), error) {
	if opts.records != "" {
		f, err := os.Open(opts.records)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		ms, err := binstore.LoadRecords(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", opts.records, err)
		}
		return binstore.NewTableStore(ms), func() {}, nil
	}
	db, err := binstore.OpenSQLite(opts.dbPath)
	if err != nil {
		return nil, nil, err
	}
	return binstore.NewSQLStore(db), func() { db.Close() }, nil
}

func runSeries(cmd *cobra.Command, opts *options, sf *seriesFlags, runID string, m convergence.Metric) error {
	if opts.format != "png" && opts.format != "svg" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	store, closeStore, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	r := &convergence.Reporter{
		Store:      store,
		Configs:    runconfig.DirSource{Root: opts.configRoot},
		ActiveDims: sf.activeDims,
		OutDir:     opts.outDir,
		Format:     opts.format,
		Logger:     slog.Default(),
	}

	if sf.table {
		return printSeries(cmd.OutOrStdout(), r, runID, sf.maxGen, m)
	}
	path, err := r.Plot(runID, sf.maxGen, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// printSeries prints the series of m as a table with one row per
// generation.
func printSeries(w io.Writer, r *convergence.Reporter, runID string, maxGen int, m convergence.Metric) error {
	if maxGen < 0 {
		return fmt.Errorf("negative max generation %d", maxGen)
	}
	if maxGen == 0 {
		gen, err := r.MaxGeneration(runID)
		if err != nil {
			return err
		}
		maxGen = gen
	}
	gens := make([]int, maxGen)
	for i := range gens {
		gens[i] = i
	}
	b := new(table.Builder).Add("generation", gens)
	switch m {
	case convergence.EmptyBinsMetric:
		ns, err := r.EmptyBinSeries(runID, maxGen)
		if err != nil {
			return err
		}
		b.Add("empty bins", ns)
	case convergence.VarianceMetric:
		vs, err := r.Variances(runID, maxGen)
		if vs == nil {
			return err
		}
		var eae *convergence.EmptyAggregationError
		if errors.As(err, &eae) {
			slog.Warn("generations without records", "run", runID, "err", err)
		}
		b.Add("variance", vs)
	}
	table.Fprint(w, b.Done())
	return nil
}
