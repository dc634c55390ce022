// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raster is a small anti-aliased drawing surface for figure
// rendering.
//
// Shapes are rasterized at a multiple of the output resolution and
// scaled down when the image is taken, which smooths edges that the
// rasterizer alone leaves hard. Text is drawn after scaling so the
// bitmap font stays crisp.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// A Point is a position in output pixels, with y growing downward.
type Point struct {
	X, Y float64
}

// Align is the horizontal placement of text relative to its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type textOp struct {
	at    Point
	s     string
	col   color.Color
	align Align
}

// Canvas is a white drawing surface.
type Canvas struct {
	width, height int
	ss            float64 // supersampling factor
	img           *image.RGBA
	z             *vector.Rasterizer
	texts         []textOp
}

// New returns a width x height canvas rasterized at supersample times
// that resolution.
func New(width, height, supersample int) *Canvas {
	if supersample < 1 {
		supersample = 1
	}
	w, h := width*supersample, height*supersample
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &Canvas{
		width:  width,
		height: height,
		ss:     float64(supersample),
		img:    img,
		z:      vector.NewRasterizer(w, h),
	}
}

// Size returns the output size of c.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// fill fills the closed polygon pts.
func (c *Canvas) fill(pts []Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
	c.z.MoveTo(float32(pts[0].X*c.ss), float32(pts[0].Y*c.ss))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p.X*c.ss), float32(p.Y*c.ss))
	}
	c.z.ClosePath()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// Polygon fills the polygon pts.
func (c *Canvas) Polygon(pts []Point, col color.Color) {
	c.fill(pts, col)
}

// Rect fills the rectangle with corners a and b.
func (c *Canvas) Rect(a, b Point, col color.Color) {
	c.fill([]Point{a, {b.X, a.Y}, b, {a.X, b.Y}}, col)
}

// StrokeRect outlines the rectangle with corners a and b.
func (c *Canvas) StrokeRect(a, b Point, width float64, col color.Color) {
	pts := []Point{a, {b.X, a.Y}, b, {a.X, b.Y}, a}
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1], pts[i], width, col)
	}
}

// Line strokes the segment from a to b.
func (c *Canvas) Line(a, b Point, width float64, col color.Color) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.fill([]Point{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}, col)
}

// DashedLine strokes the segment from a to b with dashes of length
// dash separated by gap.
func (c *Canvas) DashedLine(a, b Point, width, dash, gap float64, col color.Color) {
	c.dashedPath([]Point{a, b}, width, dash, gap, col)
}

// dashedPath strokes the open path pts with a dash pattern that
// continues across vertices.
func (c *Canvas) dashedPath(pts []Point, width, dash, gap float64, col color.Color) {
	if dash <= 0 || gap <= 0 {
		for i := 1; i < len(pts); i++ {
			c.Line(pts[i-1], pts[i], width, col)
		}
		return
	}
	period := dash + gap
	phase := 0.0 // distance into the current period
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		if l == 0 {
			continue
		}
		ux, uy := (b.X-a.X)/l, (b.Y-a.Y)/l
		for t := 0.0; t < l; {
			var step float64
			if phase < dash {
				step = math.Min(dash-phase, l-t)
				p := Point{a.X + ux*t, a.Y + uy*t}
				q := Point{a.X + ux*(t+step), a.Y + uy*(t+step)}
				c.Line(p, q, width, col)
			} else {
				step = math.Min(period-phase, l-t)
			}
			t += step
			phase = math.Mod(phase+step, period)
		}
	}
}

// circlePoints approximates a circle with enough vertices to look
// round at r output pixels.
func circlePoints(center Point, r float64) []Point {
	n := int(math.Max(16, math.Ceil(2*math.Pi*r/2)))
	pts := make([]Point, n)
	for i := range pts {
		th := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{center.X + r*math.Cos(th), center.Y + r*math.Sin(th)}
	}
	return pts
}

// Disc fills a circle of radius r.
func (c *Canvas) Disc(center Point, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.fill(circlePoints(center, r), col)
}

// Circle outlines a circle of radius r. If dash and gap are positive,
// the outline is dashed.
func (c *Canvas) Circle(center Point, r, width, dash, gap float64, col color.Color) {
	if r <= 0 {
		return
	}
	pts := circlePoints(center, r)
	pts = append(pts, pts[0])
	c.dashedPath(pts, width, dash, gap, col)
}

// Arrow draws a line from a to b ending in a filled head of length
// head. The line is dashed if dash and gap are positive. The head is
// outlined in edge.
func (c *Canvas) Arrow(a, b Point, width, head, dash, gap float64, fill, edge color.Color) {
	l := math.Hypot(b.X-a.X, b.Y-a.Y)
	if l == 0 {
		return
	}
	ux, uy := (b.X-a.X)/l, (b.Y-a.Y)/l
	head = math.Min(head, l)
	base := Point{b.X - ux*head, b.Y - uy*head}
	c.dashedPath([]Point{a, base}, width, dash, gap, edge)
	half := head / 3
	tri := []Point{
		b,
		{base.X - uy*half, base.Y + ux*half},
		{base.X + uy*half, base.Y - ux*half},
	}
	c.fill(tri, fill)
	for i := range tri {
		c.Line(tri[i], tri[(i+1)%len(tri)], width, edge)
	}
}

// Text draws s with its baseline centered vertically on at.
func (c *Canvas) Text(at Point, s string, col color.Color, align Align) {
	c.texts = append(c.texts, textOp{at, s, col, align})
}

// TextWidth returns the width of s in output pixels.
func TextWidth(s string) float64 {
	return float64(font.MeasureString(basicfont.Face7x13, s).Ceil())
}

// Image returns the finished image at output resolution.
func (c *Canvas) Image() *image.RGBA {
	dst := c.img
	if c.ss != 1 {
		dst = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
		draw.BiLinear.Scale(dst, dst.Bounds(), c.img, c.img.Bounds(), draw.Src, nil)
	}
	face := basicfont.Face7x13
	m := face.Metrics()
	for _, t := range c.texts {
		x := t.at.X
		if t.align == AlignCenter {
			x -= TextWidth(t.s) / 2
		}
		// Center the x-height on the anchor.
		y := t.at.Y + float64(m.Ascent.Round()-m.Descent.Round())/2
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(t.col),
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(int(math.Round(x))), Y: fixed.I(int(math.Round(y)))},
		}
		d.DrawString(t.s)
	}
	return dst
}

// WritePNG encodes the finished image to w.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Image())
}

// Hex parses a "#rrggbb" color.
func Hex(s string) (color.RGBA, error) {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// MustHex is like Hex but panics on error.
func MustHex(s string) color.RGBA {
	col, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return col
}

// Gray returns the gray with intensity v, 0 black and 1 white. v is
// clamped to [0, 1].
func Gray(v float64) color.Gray {
	v = math.Max(0, math.Min(1, v))
	return color.Gray{uint8(math.Round(v * 255))}
}
