// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binstore answers bin-occupancy queries over a run's
// material records.
//
// Two stores are provided. SQLStore queries the materials table of a
// SQL database handle owned by the caller. TableStore answers the
// same queries in memory from a go-gg table, for record dumps and
// tests.
package binstore

import (
	"errors"
	"fmt"

	"github.com/htsohm/htsohm-plot/material"
)

// AnyGeneration in Query.MaxGeneration selects every generation.
const AnyGeneration = -1

// ErrNoDimensions is returned for bin queries with no dimensions.
var ErrNoDimensions = errors.New("no bin dimensions")

// A Query selects the qualifying records of a run and the bin
// dimensions to aggregate them over.
//
// A record qualifies if it belongs to RunID, its generation index is
// below ChildrenPerGeneration, its retest did not fail, and its
// generation is at most MaxGeneration.
type Query struct {
	RunID                 string
	ChildrenPerGeneration int

	// MaxGeneration is the inclusive generation cutoff, or
	// AnyGeneration.
	MaxGeneration int

	// Dims are the bin dimensions. They are ignored by
	// MaxGeneration.
	Dims []material.Property
}

func (q Query) String() string {
	gen := "any"
	if q.MaxGeneration != AnyGeneration {
		gen = fmt.Sprint("<=", q.MaxGeneration)
	}
	return fmt.Sprintf("run=%s children<%d generation%s dims=%v", q.RunID, q.ChildrenPerGeneration, gen, q.Dims)
}

// Match reports whether m qualifies for q.
func (q Query) Match(m *material.Material) bool {
	if m.RunID != q.RunID || !m.Qualifies(q.ChildrenPerGeneration) {
		return false
	}
	return q.MaxGeneration == AnyGeneration || m.Generation <= q.MaxGeneration
}

func (q Query) check(needDims bool) error {
	if q.RunID == "" {
		return errors.New("empty run id")
	}
	if q.MaxGeneration < AnyGeneration {
		return fmt.Errorf("negative generation cutoff %d", q.MaxGeneration)
	}
	if needDims && len(q.Dims) == 0 {
		return ErrNoDimensions
	}
	return nil
}

// A Store answers aggregate queries over material records. Stores
// never modify records.
type Store interface {
	// OccupiedBins returns the number of distinct bin coordinates
	// over q.Dims among the records matching q.
	OccupiedBins(q Query) (int, error)

	// BinCounts returns the number of matching records in each
	// occupied bin over q.Dims. The order of the counts is
	// unspecified. It returns an empty slice if nothing matches.
	BinCounts(q Query) ([]int, error)

	// MaxGeneration returns the largest generation among the
	// records matching q. ok is false if nothing matches.
	MaxGeneration(q Query) (gen int, ok bool, err error)
}
