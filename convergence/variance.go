// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convergence

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// EmptyAggregationError reports that a generation had no qualifying
// records where a maximum or variance needed at least one.
type EmptyAggregationError struct {
	RunID      string
	Generation int
}

func (e *EmptyAggregationError) Error() string {
	if e.RunID == "" {
		return "no qualifying records to aggregate"
	}
	if e.Generation < 0 {
		return fmt.Sprintf("run %s: no qualifying records to aggregate", e.RunID)
	}
	return fmt.Sprintf("run %s generation %d: no qualifying records to aggregate", e.RunID, e.Generation)
}

// NormalizeCounts divides each bin count by the largest count, so the
// fullest bin has 1. It returns an *EmptyAggregationError if counts
// is empty.
func NormalizeCounts(counts []int) ([]float64, error) {
	if len(counts) == 0 {
		return nil, &EmptyAggregationError{}
	}
	xs := make([]float64, len(counts))
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("negative bin count %d", c)
		}
		xs[i] = float64(c)
	}
	_, max := stats.Bounds(xs)
	if max == 0 {
		return nil, &EmptyAggregationError{}
	}
	for i := range xs {
		xs[i] /= max
	}
	return xs, nil
}

// NormalizedVariance returns the population variance of the
// normalized bin counts.
func NormalizedVariance(counts []int) (float64, error) {
	xs, err := NormalizeCounts(counts)
	if err != nil {
		return 0, err
	}
	n := len(xs)
	if n == 1 {
		return 0, nil
	}
	// Sample.Variance is the unbiased estimator; rescale to divide
	// by n.
	return stats.Sample{Xs: xs}.Variance() * float64(n-1) / float64(n), nil
}
