// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package binstore

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/htsohm/htsohm-plot/material"
)

// Schema creates the materials table in the layout SQLStore queries.
// The search process owns this table; Schema exists for tools that
// build fixture databases.
const Schema = `
CREATE TABLE IF NOT EXISTS materials (
	id                 INTEGER PRIMARY KEY,
	uuid               TEXT NOT NULL,
	run_id             TEXT NOT NULL,
	generation         INTEGER NOT NULL,
	generation_index   INTEGER NOT NULL,
	retest_passed      BOOLEAN,
	gas_adsorption_bin INTEGER,
	surface_area_bin   INTEGER,
	void_fraction_bin  INTEGER
);
CREATE INDEX IF NOT EXISTS materials_run_generation ON materials(run_id, generation);
`

// OpenSQLite opens an existing SQLite database. The caller owns the
// returned handle.
func OpenSQLite(path string) (*sql.DB, error) {
	// sqlite would happily create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// SQLStore queries the materials table through a database handle it
// does not own.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store over db. Closing db is up to the
// caller.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// where builds the filter clause and arguments for q.
func where(q Query) (string, []interface{}) {
	conds := []string{
		"run_id = ?",
		"(retest_passed IS NULL OR retest_passed != 0)",
		"generation_index < ?",
	}
	args := []interface{}{q.RunID, q.ChildrenPerGeneration}
	if q.MaxGeneration != AnyGeneration {
		conds = append(conds, "generation <= ?")
		args = append(args, q.MaxGeneration)
	}
	return strings.Join(conds, " AND "), args
}

// dimList returns the column list for q.Dims. Columns come from the
// fixed property table, so they are safe to splice into SQL.
func dimList(dims []material.Property) string {
	return strings.Join(material.Columns(dims), ", ")
}

func (s *SQLStore) OccupiedBins(q Query) (int, error) {
	if err := q.check(true); err != nil {
		return 0, err
	}
	cond, args := where(q)
	query := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT %s FROM materials WHERE %s)", dimList(q.Dims), cond)
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count occupied bins (%v): %w", q, err)
	}
	return n, nil
}

func (s *SQLStore) BinCounts(q Query) ([]int, error) {
	if err := q.check(true); err != nil {
		return nil, err
	}
	cond, args := where(q)
	query := fmt.Sprintf("SELECT COUNT(*) FROM materials WHERE %s GROUP BY %s", cond, dimList(q.Dims))
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("count records per bin (%v): %w", q, err)
	}
	defer rows.Close()
	counts := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan bin count: %w", err)
		}
		counts = append(counts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count records per bin (%v): %w", q, err)
	}
	return counts, nil
}

func (s *SQLStore) MaxGeneration(q Query) (int, bool, error) {
	if err := q.check(false); err != nil {
		return 0, false, err
	}
	cond, args := where(q)
	var gen sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(generation) FROM materials WHERE "+cond, args...).Scan(&gen); err != nil {
		return 0, false, fmt.Errorf("max generation (%v): %w", q, err)
	}
	if !gen.Valid {
		return 0, false, nil
	}
	return int(gen.Int64), true, nil
}
