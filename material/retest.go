// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Retest is the outcome of the external validation pass. The store
// keeps it as a nullable boolean.
type Retest int

const (
	RetestPending Retest = iota
	RetestPassed
	RetestFailed
)

func (r Retest) String() string {
	switch r {
	case RetestPending:
		return "pending"
	case RetestPassed:
		return "passed"
	case RetestFailed:
		return "failed"
	}
	return fmt.Sprintf("Retest(%d)", int(r))
}

// RetestFromNull converts a nullable store value.
func RetestFromNull(b sql.NullBool) Retest {
	switch {
	case !b.Valid:
		return RetestPending
	case b.Bool:
		return RetestPassed
	}
	return RetestFailed
}

// Null is the inverse of RetestFromNull.
func (r Retest) Null() sql.NullBool {
	switch r {
	case RetestPassed:
		return sql.NullBool{Bool: true, Valid: true}
	case RetestFailed:
		return sql.NullBool{Bool: false, Valid: true}
	}
	return sql.NullBool{}
}

// MarshalJSON encodes r as true, false, or null, the same way the
// store does.
func (r Retest) MarshalJSON() ([]byte, error) {
	switch r {
	case RetestPassed:
		return []byte("true"), nil
	case RetestFailed:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (r *Retest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = RetestPending
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("retest must be true, false, or null: %w", err)
	}
	if b {
		*r = RetestPassed
	} else {
		*r = RetestFailed
	}
	return nil
}
