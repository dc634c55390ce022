// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplot draws a snapshot of a screening run's search space:
// the Delaunay triangulation of the points found so far, the
// occupancy of the convergence bins, and the parents and children of
// the latest generation.
package triplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"sort"

	"github.com/fogleman/delaunay"

	"github.com/htsohm/htsohm-plot/internal/raster"
)

// A Point is an (x, y) position in property space.
type Point [2]float64

// Triangulation is a triangulation of a Figure's Points.
type Triangulation struct {
	// Triangles holds the indexes into Points of each triangle's
	// vertices.
	Triangles [][3]int `json:"triangles"`

	// Hull is the convex hull of the points. If empty, it is taken
	// from the boundary of Triangles.
	Hull []Point `json:"hull"`
}

// HullPoints returns t.Hull, or if that is empty, the vertices of
// the edges of t that belong to only one triangle, in index order.
func (t *Triangulation) HullPoints(pts []Point) []Point {
	if len(t.Hull) > 0 {
		return t.Hull
	}
	type edge struct{ a, b int }
	uses := make(map[edge]int)
	for _, tri := range t.Triangles {
		for i := range tri {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			uses[edge{a, b}]++
		}
	}
	onHull := make(map[int]bool)
	for e, n := range uses {
		if n == 1 {
			onHull[e.a], onHull[e.b] = true, true
		}
	}
	idxs := make([]int, 0, len(onHull))
	for v := range onHull {
		idxs = append(idxs, v)
	}
	sort.Ints(idxs)
	hull := make([]Point, len(idxs))
	for i, v := range idxs {
		hull[i] = pts[v]
	}
	return hull
}

// Triangulate computes the Delaunay triangulation of pts.
func Triangulate(pts []Point) (*Triangulation, error) {
	dpts := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		dpts[i] = delaunay.Point{X: p[0], Y: p[1]}
	}
	dt, err := delaunay.Triangulate(dpts)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d points: %w", len(pts), err)
	}
	t := &Triangulation{}
	for i := 0; i+2 < len(dt.Triangles); i += 3 {
		t.Triangles = append(t.Triangles, [3]int{dt.Triangles[i], dt.Triangles[i+1], dt.Triangles[i+2]})
	}
	for _, p := range dt.ConvexHull {
		t.Hull = append(t.Hull, Point{p.X, p.Y})
	}
	return t, nil
}

// Shade returns the gray level of a bin holding count materials: 1
// (white) when empty, darkening linearly to 0 (black) at saturation
// and staying black beyond it.
func Shade(count, saturation float64) float64 {
	return math.Max(1-count/saturation, 0)
}

// LabelThreshold is the repetition count above which a parent marker
// is labelled with its count.
const LabelThreshold = 5

// A ParentMarker is a distinct parent position and the number of
// times it was chosen.
type ParentMarker struct {
	Point Point
	Count int
}

// Labeled reports whether m is drawn with a count label.
func (m ParentMarker) Labeled() bool {
	return m.Count > LabelThreshold
}

// DedupParents collapses parents at exactly the same position into
// one marker, in order of first appearance.
func DedupParents(parents []Point) []ParentMarker {
	index := make(map[Point]int)
	var ms []ParentMarker
	for _, p := range parents {
		if i, ok := index[p]; ok {
			ms[i].Count++
			continue
		}
		index[p] = len(ms)
		ms = append(ms, ParentMarker{p, 1})
	}
	return ms
}

// UnknownPerturbationMethodError reports a perturbation method with no
// arrow color.
type UnknownPerturbationMethodError struct {
	Method string
	Index  int
}

func (e *UnknownPerturbationMethodError) Error() string {
	return fmt.Sprintf("unknown perturbation method %q for child %d", e.Method, e.Index)
}

// perturbationColors maps each perturbation method to its arrow fill.
var perturbationColors = map[string]color.Color{
	"lattice":    color.White,
	"density":    color.Black,
	"atom_types": raster.MustHex("#0FA3B1"),
	"atom_sites": raster.MustHex("#F77936"),
}

// PerturbationColor returns the arrow color for method.
func PerturbationColor(method string) (color.Color, error) {
	col, ok := perturbationColors[method]
	if !ok {
		return nil, &UnknownPerturbationMethodError{Method: method, Index: -1}
	}
	return col, nil
}

// Overlays.
const (
	NoOverlay    = ""
	DonutOverlay = "donut"
)

// Figure describes one snapshot. The zero values of the optional
// fields select defaults.
type Figure struct {
	// Points are all points found so far.
	Points []Point `json:"points"`

	// Triangulation of Points. If nil, it is computed.
	Triangulation *Triangulation `json:"triangulation,omitempty"`

	// ConvergenceBins is the number of bins along each axis.
	ConvergenceBins int `json:"convergence_bins"`

	// Bins[i][j] is the number of materials in x bin i, y bin j.
	Bins [][]int `json:"bins"`

	// NewBins are the (x, y) indexes of bins first reached in this
	// generation.
	NewBins [][2]int `json:"new_bins"`

	Children []Point `json:"children"`
	Parents  []Point `json:"parents"`

	// PerturbationMethods, if set, has the method that derived
	// each child from the parent at the same index.
	PerturbationMethods []string `json:"perturbation_methods"`

	Title string `json:"title"`

	// Overlay is NoOverlay or DonutOverlay.
	Overlay string `json:"overlay"`

	// XRange and YRange are the axis ranges. The default is [0, 1].
	XRange [2]float64 `json:"x_range"`
	YRange [2]float64 `json:"y_range"`

	ShowGrid          bool `json:"show_grid"`
	HideTriangulation bool `json:"hide_triangulation"`

	// BinSaturated is the count at which a bin is drawn black. The
	// default is 10.
	BinSaturated float64 `json:"bin_saturated"`

	// Width and Height are the image size in pixels. The default is
	// 1200 square.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Colors, following the reference figures.
var (
	triangulationColor = raster.MustHex("#78a7cc")
	newBinColor        = raster.MustHex("#82b7b7")
	childColor         = raster.MustHex("#81ff6b")
	parentColor        = raster.MustHex("#ffbe6b")
	binEdgeColor       = raster.Gray(0.8)
	gridColor          = raster.Gray(0.5)
)

const (
	margin      = 40.0
	titleMargin = 60.0
	supersample = 2

	// pt converts points to pixels at 100 dpi.
	pt = 100.0 / 72
)

func orDefault(r [2]float64) [2]float64 {
	if r == ([2]float64{}) {
		return [2]float64{0, 1}
	}
	return r
}

// check validates f before anything is drawn.
func (f *Figure) check() error {
	if f.ConvergenceBins < 1 {
		return fmt.Errorf("convergence bins must be at least 1; got %d", f.ConvergenceBins)
	}
	for _, r := range [][2]float64{orDefault(f.XRange), orDefault(f.YRange)} {
		if !(r[1] > r[0]) {
			return fmt.Errorf("empty axis range %v", r)
		}
	}
	n := f.ConvergenceBins
	if len(f.Bins) > n {
		return fmt.Errorf("%d bin columns for %d convergence bins", len(f.Bins), n)
	}
	for i, col := range f.Bins {
		if len(col) > n {
			return fmt.Errorf("bin column %d has %d rows for %d convergence bins", i, len(col), n)
		}
	}
	for _, nb := range f.NewBins {
		if nb[0] < 0 || nb[0] >= n || nb[1] < 0 || nb[1] >= n {
			return fmt.Errorf("new bin %v outside %dx%d grid", nb, n, n)
		}
	}
	if f.Overlay != NoOverlay && f.Overlay != DonutOverlay {
		return fmt.Errorf("unknown overlay %q", f.Overlay)
	}
	if f.BinSaturated < 0 {
		return fmt.Errorf("negative bin saturation %v", f.BinSaturated)
	}
	if f.PerturbationMethods != nil {
		if len(f.PerturbationMethods) != len(f.Children) {
			return fmt.Errorf("%d perturbation methods for %d children", len(f.PerturbationMethods), len(f.Children))
		}
		if len(f.Parents) < len(f.Children) {
			return fmt.Errorf("%d parents for %d children", len(f.Parents), len(f.Children))
		}
		for i, m := range f.PerturbationMethods {
			if _, ok := perturbationColors[m]; !ok {
				return &UnknownPerturbationMethodError{Method: m, Index: i}
			}
		}
	}
	if f.Triangulation == nil && len(f.Points) < 3 {
		return fmt.Errorf("need at least 3 points to triangulate; got %d", len(f.Points))
	}
	if f.Triangulation != nil {
		for _, tri := range f.Triangulation.Triangles {
			for _, v := range tri {
				if v < 0 || v >= len(f.Points) {
					return fmt.Errorf("triangle vertex %d out of range of %d points", v, len(f.Points))
				}
			}
		}
	}
	return nil
}

// Render draws f and writes it as a PNG to path.
func (f *Figure) Render(path string) (err error) {
	// Validate before creating the file so failures leave nothing
	// behind.
	if err := f.check(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if err := f.WritePNG(file); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// WritePNG draws f and encodes it as a PNG to w.
func (f *Figure) WritePNG(w io.Writer) error {
	c, err := f.Draw()
	if err != nil {
		return err
	}
	return c.WritePNG(w)
}

// Draw draws f onto a new canvas.
func (f *Figure) Draw() (*raster.Canvas, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	tri := f.Triangulation
	if tri == nil {
		var err error
		if tri, err = Triangulate(f.Points); err != nil {
			return nil, err
		}
	}

	width, height := f.Width, f.Height
	if width == 0 {
		width = 1200
	}
	if height == 0 {
		height = 1200
	}
	saturation := f.BinSaturated
	if saturation == 0 {
		saturation = 10
	}

	c := raster.New(width, height, supersample)
	ax := newAxes(orDefault(f.XRange), orDefault(f.YRange), width, height)

	if f.ShowGrid {
		ax.grid(c, f.ConvergenceBins)
	}
	f.drawBins(c, ax, saturation)
	ax.frame(c, f.ConvergenceBins)

	if !f.HideTriangulation {
		for _, t := range tri.Triangles {
			for i := range t {
				a, b := f.Points[t[i]], f.Points[t[(i+1)%3]]
				c.Line(ax.px(a), ax.px(b), 1*pt, triangulationColor)
			}
		}
	}

	for _, p := range tri.HullPoints(f.Points) {
		c.Disc(ax.px(p), 3*pt, triangulationColor)
	}
	for _, p := range f.Children {
		c.Disc(ax.px(p), 3*pt, childColor)
	}
	for _, m := range DedupParents(f.Parents) {
		// Marker area is proportional to the count.
		r := math.Sqrt(40*float64(m.Count)) / 2 * pt
		c.Disc(ax.px(m.Point), r, parentColor)
		if m.Labeled() {
			c.Text(ax.px(m.Point), fmt.Sprint(m.Count), color.Black, raster.AlignCenter)
		}
	}

	if f.Overlay == DonutOverlay {
		center := ax.px(Point{0.5, 0.5})
		for _, ring := range []struct{ r, width float64 }{{0.125, 1}, {0.375, 2}} {
			r := ring.r * ax.scaleX()
			c.Circle(center, r, ring.width*pt, 6*pt, 3*pt, color.Black)
		}
	}

	if f.PerturbationMethods != nil {
		for i := range f.Children {
			a, b := shrink(ax.px(f.Parents[i]), ax.px(f.Children[i]), 5*pt)
			c.Arrow(a, b, 1*pt, 10*pt, 4*pt, 2*pt, perturbationColors[f.PerturbationMethods[i]], color.Black)
		}
	}

	if f.Title != "" {
		c.Text(raster.Point{X: float64(width) / 2, Y: titleMargin / 2}, f.Title, color.Black, raster.AlignCenter)
	}
	return c, nil
}

// drawBins shades the occupied bins and highlights the new ones.
func (f *Figure) drawBins(c *raster.Canvas, ax *axes, saturation float64) {
	dx := (ax.x[1] - ax.x[0]) / float64(f.ConvergenceBins)
	dy := (ax.y[1] - ax.y[0]) / float64(f.ConvergenceBins)
	corners := func(i, j int) (raster.Point, raster.Point) {
		lo := Point{ax.x[0] + float64(i)*dx, ax.y[0] + float64(j)*dy}
		hi := Point{lo[0] + dx, lo[1] + dy}
		return ax.px(lo), ax.px(hi)
	}
	for i, col := range f.Bins {
		for j, count := range col {
			if count <= 0 {
				continue
			}
			a, b := corners(i, j)
			c.Rect(a, b, raster.Gray(Shade(float64(count), saturation)))
			c.StrokeRect(a, b, 1, binEdgeColor)
		}
	}
	for _, nb := range f.NewBins {
		a, b := corners(nb[0], nb[1])
		c.Rect(a, b, newBinColor)
	}
}

// shrink pulls the ends of the segment a-b in by d each, like the
// padding matplotlib leaves between an arrow and its markers.
func shrink(a, b raster.Point, d float64) (raster.Point, raster.Point) {
	l := math.Hypot(b.X-a.X, b.Y-a.Y)
	if l <= 2*d {
		return a, b
	}
	ux, uy := (b.X-a.X)/l, (b.Y-a.Y)/l
	return raster.Point{X: a.X + ux*d, Y: a.Y + uy*d}, raster.Point{X: b.X - ux*d, Y: b.Y - uy*d}
}
