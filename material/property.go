// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

// A Property is a binned material property. Each property is a named
// projection: it knows its configuration name, the store column that
// holds its bin index, and how to read that index from a record.
type Property struct {
	// Name is the property's name in a run configuration's
	// material_properties list.
	Name string

	// Column is the store column holding the property's bin index.
	Column string

	bin func(*Material) int
}

// Bin returns m's bin index for p.
func (p Property) Bin(m *Material) int {
	return p.bin(m)
}

func (p Property) String() string {
	return p.Name
}

var (
	GasAdsorption = Property{"gas_adsorption_0", "gas_adsorption_bin",
		func(m *Material) int { return m.GasAdsorptionBin }}
	SurfaceArea = Property{"surface_area", "surface_area_bin",
		func(m *Material) int { return m.SurfaceAreaBin }}
	VoidFraction = Property{"helium_void_fraction", "void_fraction_bin",
		func(m *Material) int { return m.VoidFractionBin }}
)

// AllProperties lists every binned property in canonical order.
var AllProperties = []Property{GasAdsorption, SurfaceArea, VoidFraction}

// ActiveProperties returns the binned properties named in names, in
// canonical order. Names that aren't binned properties are ignored,
// since run configurations also list properties that are simulated
// but not used for binning.
func ActiveProperties(names []string) []Property {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	var props []Property
	for _, p := range AllProperties {
		if set[p.Name] {
			props = append(props, p)
		}
	}
	return props
}

// Columns returns the store columns of props.
func Columns(props []Property) []string {
	cols := make([]string, len(props))
	for i, p := range props {
		cols[i] = p.Column
	}
	return cols
}
