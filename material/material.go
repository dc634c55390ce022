// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package material describes the material records produced by a
// screening run and the discretized properties they are binned by.
//
// Records are created by the search process. This package and its
// users only read them.
package material

import (
	"fmt"
	"strings"
)

// Material is one generated candidate.
type Material struct {
	UUID  string `json:"uuid"`
	RunID string `json:"run_id"`

	// Generation is the search round that produced this material.
	Generation int `json:"generation"`

	// GenerationIndex is the position of this material within its
	// generation. Indexes at or above the configured number of
	// children per generation are retries and overflow, not real
	// members of the generation.
	GenerationIndex int `json:"generation_index"`

	Retest Retest `json:"retest_passed"`

	GasAdsorptionBin int `json:"gas_adsorption_bin"`
	SurfaceAreaBin   int `json:"surface_area_bin"`
	VoidFractionBin  int `json:"void_fraction_bin"`
}

// Qualifies reports whether m counts towards convergence accounting
// for a run that produces childrenPerGeneration children per
// generation.
func (m *Material) Qualifies(childrenPerGeneration int) bool {
	return m.GenerationIndex < childrenPerGeneration && m.Retest != RetestFailed
}

// Coord returns m's bin coordinate over props.
func (m *Material) Coord(props []Property) BinCoord {
	c := make(BinCoord, len(props))
	for i, p := range props {
		c[i] = p.Bin(m)
	}
	return c
}

// BinCoord identifies one cell of the discretization grid. It has one
// index per active property.
type BinCoord []int

func (c BinCoord) String() string {
	parts := make([]string, len(c))
	for i, x := range c {
		parts[i] = fmt.Sprint(x)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// TotalBins returns the number of cells in a grid with bins cells
// along each of dims dimensions.
func TotalBins(bins, dims int) int {
	n := 1
	for i := 0; i < dims; i++ {
		n *= bins
	}
	return n
}
