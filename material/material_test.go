// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalBins(t *testing.T) {
	for _, test := range []struct {
		bins, dims, want int
	}{
		{4, 0, 1},
		{4, 1, 4},
		{4, 2, 16},
		{10, 3, 1000},
		{1, 3, 1},
	} {
		assert.Equal(t, test.want, TotalBins(test.bins, test.dims), "TotalBins(%d, %d)", test.bins, test.dims)
	}
}

func TestActiveProperties(t *testing.T) {
	for _, test := range []struct {
		names []string
		want  []string
	}{
		{nil, nil},
		{[]string{"helium_void_fraction", "gas_adsorption_0"}, []string{"gas_adsorption_bin", "void_fraction_bin"}},
		{[]string{"surface_area", "lattice_constant"}, []string{"surface_area_bin"}},
		{[]string{"helium_void_fraction", "surface_area", "gas_adsorption_0"}, []string{"gas_adsorption_bin", "surface_area_bin", "void_fraction_bin"}},
	} {
		got := Columns(ActiveProperties(test.names))
		if len(test.want) == 0 {
			assert.Empty(t, got, "names %v", test.names)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ActiveProperties(%v) columns mismatch (-want +got):\n%s", test.names, diff)
		}
	}
}

func TestQualifies(t *testing.T) {
	for _, test := range []struct {
		m    Material
		want bool
	}{
		{Material{GenerationIndex: 0, Retest: RetestPending}, true},
		{Material{GenerationIndex: 9, Retest: RetestPassed}, true},
		{Material{GenerationIndex: 10, Retest: RetestPassed}, false},
		{Material{GenerationIndex: 3, Retest: RetestFailed}, false},
	} {
		assert.Equal(t, test.want, test.m.Qualifies(10), "%+v", test.m)
	}
}

func TestCoord(t *testing.T) {
	m := &Material{GasAdsorptionBin: 1, SurfaceAreaBin: 2, VoidFractionBin: 3}
	assert.Equal(t, BinCoord{1, 3}, m.Coord([]Property{GasAdsorption, VoidFraction}))
	assert.Equal(t, "(1,2,3)", m.Coord(AllProperties).String())
}

func TestRetestJSON(t *testing.T) {
	var ms []Material
	in := `[{"uuid":"a","retest_passed":null},{"uuid":"b","retest_passed":true},{"uuid":"c","retest_passed":false},{"uuid":"d"}]`
	require.NoError(t, json.Unmarshal([]byte(in), &ms))
	require.Len(t, ms, 4)
	assert.Equal(t, RetestPending, ms[0].Retest)
	assert.Equal(t, RetestPassed, ms[1].Retest)
	assert.Equal(t, RetestFailed, ms[2].Retest)
	assert.Equal(t, RetestPending, ms[3].Retest)

	out, err := json.Marshal(ms[2].Retest)
	require.NoError(t, err)
	assert.Equal(t, "false", string(out))

	var r Retest
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &r))
}

func TestRetestNull(t *testing.T) {
	for _, r := range []Retest{RetestPending, RetestPassed, RetestFailed} {
		assert.Equal(t, r, RetestFromNull(r.Null()), "%v", r)
	}
}
