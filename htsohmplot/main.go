// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command htsohmplot plots the progress of a screening run.
//
// The empty-bins and variance subcommands read a run's material
// records from a SQLite database (or a JSON dump of records) and its
// configuration from <config-root>/<run id>/config.yaml, and write a
// line plot of the convergence signal over generations to
// <out-dir>/<run id>_MaxGen<N>_<signal>.png.
//
// The delaunay subcommand draws a search-space snapshot described by
// a JSON file.
//
// Usage:
//
//	htsohmplot empty-bins [flags] <run id>
//	htsohmplot variance [flags] <run id>
//	htsohmplot delaunay -o <output.png> <figure.json>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

type options struct {
	configRoot string
	dbPath     string
	records    string
	outDir     string
	format     string
	verbose    bool
	cpuProfile string
	memProfile string

	stopProfile func()
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "htsohmplot",
		Short:         "Plot convergence and search-space snapshots of screening runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return opts.startProfile()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.finishProfile()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configRoot, "config-root", ".", "read run configurations from `dir`/<run id>/config.yaml")
	f.StringVar(&opts.dbPath, "db", "htsohm.db", "SQLite record store `file`")
	f.StringVar(&opts.records, "records", "", "read material records from JSON `file` instead of the database")
	f.StringVarP(&opts.outDir, "out-dir", "d", ".", "write plots to `dir`")
	f.StringVar(&opts.format, "format", "png", "plot image format: png or svg")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-generation query results")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "", "write CPU profile to `file`")
	f.StringVar(&opts.memProfile, "memprofile", "", "write heap profile to `file`")

	root.AddCommand(newEmptyBinsCmd(opts), newVarianceCmd(opts), newDelaunayCmd(opts))
	return root
}

func (o *options) startProfile() error {
	if o.cpuProfile == "" {
		return nil
	}
	f, err := os.Create(o.cpuProfile)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	o.stopProfile = func() {
		pprof.StopCPUProfile()
		f.Close()
	}
	return nil
}

func (o *options) finishProfile() error {
	if o.stopProfile != nil {
		o.stopProfile()
		o.stopProfile = nil
	}
	if o.memProfile == "" {
		return nil
	}
	runtime.GC()
	f, err := os.Create(o.memProfile)
	if err != nil {
		return err
	}
	defer f.Close()
	return pprof.WriteHeapProfile(f)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "htsohmplot: %v\n", err)
		os.Exit(1)
	}
}
