// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/htsohm/htsohm-plot/triplot"
)

func newDelaunayCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "delaunay <figure.json>",
		Short: "Draw a triangulated snapshot of the search space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fig, err := readFigure(args[0])
			if err != nil {
				return err
			}
			if err := fig.Render(out); err != nil {
				return err
			}
			slog.Info("wrote snapshot", "path", out, "points", len(fig.Points))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the image to `file`")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func readFigure(path string) (*triplot.Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fig triplot.Figure
	if err := json.Unmarshal(data, &fig); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fig, nil
}
