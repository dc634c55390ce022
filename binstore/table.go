// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binstore

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"

	"github.com/htsohm/htsohm-plot/material"
)

// TableStore answers queries from an in-memory go-gg table with one
// row per material and one column per material field.
type TableStore struct {
	tab *table.Table
}

// NewTableStore returns a Store over a snapshot of ms.
func NewTableStore(ms []material.Material) *TableStore {
	n := len(ms)
	var (
		runIDs   = make([]string, n)
		gens     = make([]int, n)
		idxs     = make([]int, n)
		retests  = make([]material.Retest, n)
		binsCols = make(map[string][]int)
	)
	for _, p := range material.AllProperties {
		binsCols[p.Column] = make([]int, n)
	}
	for i := range ms {
		m := &ms[i]
		runIDs[i] = m.RunID
		gens[i] = m.Generation
		idxs[i] = m.GenerationIndex
		retests[i] = m.Retest
		for _, p := range material.AllProperties {
			binsCols[p.Column][i] = p.Bin(m)
		}
	}

	b := new(table.Builder).
		Add("run_id", runIDs).
		Add("generation", gens).
		Add("generation_index", idxs).
		Add("retest", retests)
	for _, p := range material.AllProperties {
		b.Add(p.Column, binsCols[p.Column])
	}
	return &TableStore{b.Done()}
}

// LoadRecords decodes a JSON array of materials.
func LoadRecords(r io.Reader) ([]material.Material, error) {
	var ms []material.Material
	if err := json.NewDecoder(r).Decode(&ms); err != nil {
		return nil, fmt.Errorf("decode material records: %w", err)
	}
	return ms, nil
}

// filter returns the rows of s matching q.
func (s *TableStore) filter(q Query) table.Grouping {
	if s.tab.Len() == 0 {
		return s.tab
	}
	return table.Filter(s.tab, func(runID string, gen, idx int, retest material.Retest) bool {
		m := material.Material{RunID: runID, Generation: gen, GenerationIndex: idx, Retest: retest}
		return q.Match(&m)
	}, "run_id", "generation", "generation_index", "retest")
}

func rows(g table.Grouping) int {
	n := 0
	for _, gid := range g.Tables() {
		n += g.Table(gid).Len()
	}
	return n
}

// groups returns the matching rows of s grouped by bin coordinate.
func (s *TableStore) groups(q Query) (table.Grouping, error) {
	if err := q.check(true); err != nil {
		return nil, err
	}
	g := s.filter(q)
	if rows(g) == 0 {
		return nil, nil
	}
	return table.GroupBy(g, material.Columns(q.Dims)...), nil
}

func (s *TableStore) OccupiedBins(q Query) (int, error) {
	g, err := s.groups(q)
	if err != nil || g == nil {
		return 0, err
	}
	return len(g.Tables()), nil
}

func (s *TableStore) BinCounts(q Query) ([]int, error) {
	g, err := s.groups(q)
	if err != nil {
		return nil, err
	}
	counts := []int{}
	if g == nil {
		return counts, nil
	}
	for _, gid := range g.Tables() {
		counts = append(counts, g.Table(gid).Len())
	}
	return counts, nil
}

func (s *TableStore) MaxGeneration(q Query) (int, bool, error) {
	if err := q.check(false); err != nil {
		return 0, false, err
	}
	g := s.filter(q)
	max, ok := 0, false
	for _, gid := range g.Tables() {
		for _, gen := range g.Table(gid).MustColumn("generation").([]int) {
			if !ok || gen > max {
				max, ok = gen, true
			}
		}
	}
	return max, ok, nil
}
