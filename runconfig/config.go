// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runconfig loads the per-run configuration of a screening
// run.
//
// A run's configuration lives in <root>/<run id>/config.yaml. Only the
// keys that affect convergence accounting are decoded; the search
// process's other settings are ignored.
package runconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/htsohm/htsohm-plot/material"
)

// ErrConfigNotFound is returned, wrapped, when a run has no
// configuration.
var ErrConfigNotFound = errors.New("run configuration not found")

// Config is the part of a run's configuration used here.
type Config struct {
	// MaterialProperties lists the properties simulated for each
	// material. Only binned properties select bin dimensions.
	MaterialProperties []string `yaml:"material_properties"`

	// ConvergenceBins is the number of bins spanning each
	// property's range.
	ConvergenceBins int `yaml:"number_of_convergence_bins"`

	// ChildrenPerGeneration is the number of real children in each
	// generation.
	ChildrenPerGeneration int `yaml:"children_per_generation"`
}

// Dimensions returns the active bin dimensions, in canonical order.
func (c *Config) Dimensions() []material.Property {
	return material.ActiveProperties(c.MaterialProperties)
}

// TotalBins returns the number of cells in the run's discretization
// grid.
func (c *Config) TotalBins() int {
	return material.TotalBins(c.ConvergenceBins, len(c.Dimensions()))
}

func (c *Config) validate() error {
	if c.ConvergenceBins < 1 {
		return fmt.Errorf("number_of_convergence_bins must be at least 1; got %d", c.ConvergenceBins)
	}
	if c.ChildrenPerGeneration < 1 {
		return fmt.Errorf("children_per_generation must be at least 1; got %d", c.ChildrenPerGeneration)
	}
	return nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse run configuration: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// A Source looks up run configurations by run id.
type Source interface {
	Load(runID string) (*Config, error)
}

// DirSource reads configurations from <Root>/<run id>/config.yaml.
// Every Load reads the file again.
type DirSource struct {
	Root string
}

// Path returns the configuration path for runID.
func (s DirSource) Path(runID string) string {
	return filepath.Join(s.Root, runID, "config.yaml")
}

func (s DirSource) Load(runID string) (*Config, error) {
	if runID == "" {
		return nil, errors.New("empty run id")
	}
	path := s.Path(runID)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("run %s: %w (%s)", runID, ErrConfigNotFound, path)
	} else if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return c, nil
}

// MapSource serves configurations from memory.
type MapSource map[string]*Config

func (s MapSource) Load(runID string) (*Config, error) {
	c, ok := s[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrConfigNotFound)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return c, nil
}
