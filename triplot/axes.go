// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triplot

import (
	"image/color"

	"github.com/htsohm/htsohm-plot/internal/raster"
)

// axes maps property space onto the plot area of the image.
type axes struct {
	x, y [2]float64 // data ranges

	left, top, width, height float64 // plot area, in pixels
}

func newAxes(x, y [2]float64, imgWidth, imgHeight int) *axes {
	return &axes{
		x: x, y: y,
		left:   margin,
		top:    titleMargin,
		width:  float64(imgWidth) - 2*margin,
		height: float64(imgHeight) - titleMargin - margin,
	}
}

func (a *axes) scaleX() float64 {
	return a.width / (a.x[1] - a.x[0])
}

func (a *axes) scaleY() float64 {
	return a.height / (a.y[1] - a.y[0])
}

// px returns the pixel position of p. y grows upward in property
// space and downward in the image.
func (a *axes) px(p Point) raster.Point {
	return raster.Point{
		X: a.left + (p[0]-a.x[0])*a.scaleX(),
		Y: a.top + a.height - (p[1]-a.y[0])*a.scaleY(),
	}
}

// grid draws a grid line at every bin boundary.
func (a *axes) grid(c *raster.Canvas, bins int) {
	right, bottom := a.left+a.width, a.top+a.height
	for i := 0; i <= bins; i++ {
		fx := a.left + a.width*float64(i)/float64(bins)
		fy := bottom - a.height*float64(i)/float64(bins)
		c.Line(raster.Point{X: fx, Y: a.top}, raster.Point{X: fx, Y: bottom}, 1, gridColor)
		c.Line(raster.Point{X: a.left, Y: fy}, raster.Point{X: right, Y: fy}, 1, gridColor)
	}
}

// frame draws the plot border and an unlabelled tick at every bin
// boundary.
func (a *axes) frame(c *raster.Canvas, bins int) {
	const tick = 5
	right, bottom := a.left+a.width, a.top+a.height
	for i := 0; i <= bins; i++ {
		fx := a.left + a.width*float64(i)/float64(bins)
		fy := bottom - a.height*float64(i)/float64(bins)
		c.Line(raster.Point{X: fx, Y: bottom}, raster.Point{X: fx, Y: bottom + tick}, 1, color.Black)
		c.Line(raster.Point{X: a.left - tick, Y: fy}, raster.Point{X: a.left, Y: fy}, 1, color.Black)
	}
	c.StrokeRect(raster.Point{X: a.left, Y: a.top}, raster.Point{X: right, Y: bottom}, 1, color.Black)
}
