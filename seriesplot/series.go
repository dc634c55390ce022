// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seriesplot renders a single numeric series as a line plot.
//
// PNG output is drawn with go-chart; SVG output with go-gg.
package seriesplot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	chart "github.com/wcharczuk/go-chart/v2"
)

// Default image size, in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Series is a sequence of (x, y) points. Points whose y is NaN are
// gaps: they are kept in the series but not drawn.
type Series struct {
	Title          string
	XLabel, YLabel string
	X, Y           []float64
}

// Add appends the point (x, y).
func (s *Series) Add(x, y float64) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
}

// points returns the drawable points of s. There may be none.
func (s *Series) points() (xs, ys []float64, err error) {
	if len(s.X) != len(s.Y) {
		return nil, nil, fmt.Errorf("series has %d x values but %d y values", len(s.X), len(s.Y))
	}
	for i, y := range s.Y {
		if math.IsNaN(y) || math.IsNaN(s.X[i]) {
			continue
		}
		xs = append(xs, s.X[i])
		ys = append(ys, y)
	}
	return xs, ys, nil
}

// bounds returns a non-empty range covering vs. If zero is set, the
// range includes 0. An empty vs gives [0, 1].
func bounds(vs []float64, zero bool) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi = stats.Bounds(vs)
	if zero {
		lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

func intFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprint(v)
}

// WritePNG renders s as a PNG line chart to w.
func WritePNG(w io.Writer, s *Series, width, height int) error {
	return render(w, chart.PNG, s, width, height)
}

// render draws s with go-chart using the renderer provider rp. A
// series with no drawable points gets empty axes.
func render(w io.Writer, rp chart.RendererProvider, s *Series, width, height int) error {
	xs, ys, err := s.points()
	if err != nil {
		return err
	}
	xlo, xhi := bounds(xs, false)
	ylo, yhi := bounds(ys, true)

	line := chart.ContinuousSeries{
		Name:    s.YLabel,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			StrokeWidth: 2,
			DotColor:    chart.ColorBlue,
			DotWidth:    2,
		},
	}
	if len(xs) == 0 {
		// go-chart needs a series to lay out the axes.
		line.XValues = []float64{xlo, xhi}
		line.YValues = []float64{ylo, ylo}
		line.Style = chart.Style{StrokeColor: chart.ColorTransparent}
	}
	ch := chart.Chart{
		Title:      s.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 24, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           s.XLabel,
			Range:          &chart.ContinuousRange{Min: xlo, Max: xhi},
			ValueFormatter: intFormatter,
		},
		YAxis: chart.YAxis{
			Name:  s.YLabel,
			Range: &chart.ContinuousRange{Min: ylo, Max: yhi},
		},
		Series: []chart.Series{line},
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render %q: %w", s.Title, err)
	}
	return nil
}

// WriteSVG renders s as an SVG line plot to w.
func WriteSVG(w io.Writer, s *Series, width, height int) error {
	xs, ys, err := s.points()
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		// go-gg cannot scale an empty table.
		return render(w, chart.SVG, s, width, height)
	}
	xcol, ycol := s.XLabel, s.YLabel
	if xcol == "" {
		xcol = "x"
	}
	if ycol == "" || ycol == xcol {
		ycol = xcol + " value"
	}
	tab := new(table.Builder).Add(xcol, xs).Add(ycol, ys).Done()

	p := gg.NewPlot(tab)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	p.Add(gg.LayerLines{X: xcol, Y: ycol})
	p.Add(gg.LayerPoints{X: xcol, Y: ycol})
	if s.Title != "" {
		p.Add(gg.Title(s.Title))
	}
	return p.WriteSVG(w, width, height)
}

// Write renders s to path at the default size. The format follows
// the extension of path: ".svg" for SVG, anything else PNG. Nothing
// is written if rendering fails.
func Write(path string, s *Series) error {
	var buf bytes.Buffer
	var err error
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		err = WriteSVG(&buf, s, DefaultWidth, DefaultHeight)
	} else {
		err = WritePNG(&buf, s, DefaultWidth, DefaultHeight)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o666)
}
