// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
number_of_atom_types: 4
children_per_generation: 100
number_of_convergence_bins: 10
material_properties:
  - helium_void_fraction
  - gas_adsorption_0
  - lattice_constants
gas_adsorption_0:
  adsorbate: methane
  pressure: 3500000
`

func writeConfig(t *testing.T, root, runID, body string) {
	t.Helper()
	dir := filepath.Join(root, runID)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "run1", sampleConfig)

	c, err := DirSource{root}.Load("run1")
	require.NoError(t, err)
	assert.Equal(t, 100, c.ChildrenPerGeneration)
	assert.Equal(t, 10, c.ConvergenceBins)
	assert.Len(t, c.Dimensions(), 2)
	assert.Equal(t, 100, c.TotalBins())
}

func TestDirSourceNotFound(t *testing.T) {
	_, err := DirSource{t.TempDir()}.Load("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestDirSourceInvalid(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "zero", "children_per_generation: 10\nnumber_of_convergence_bins: 0\n")
	writeConfig(t, root, "bad", "material_properties: [\n")

	_, err := DirSource{root}.Load("zero")
	assert.ErrorContains(t, err, "number_of_convergence_bins")
	_, err = DirSource{root}.Load("bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
	_, err = DirSource{root}.Load("")
	assert.Error(t, err)
}

func TestMapSource(t *testing.T) {
	s := MapSource{"a": {MaterialProperties: []string{"surface_area"}, ConvergenceBins: 3, ChildrenPerGeneration: 1}}
	c, err := s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalBins())

	_, err = s.Load("b")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
