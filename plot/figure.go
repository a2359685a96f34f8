// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package plot holds the drawing helpers shared by the plot kinds: figure
// sizing and PNG output, panel layout, axis ticks and scales, and the
// trace, spectrogram and marker elements.
package plot

import (
	"fmt"
	"image/color"
	"image/png"
	"io"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DPI converts pixel sizes to lengths.
const DPI = 100

// Figure is an output image of Width x Height pixels.
type Figure struct {
	Width  int
	Height int
}

func (f Figure) Size() (vg.Length, vg.Length) {
	return vg.Length(f.Width) * vg.Inch / DPI, vg.Length(f.Height) * vg.Inch / DPI
}

// Drawer renders onto a canvas; hplot tiled plots and single plots both
// satisfy it.
type Drawer interface {
	Draw(c draw.Canvas)
}

// DrawFunc adapts a function to Drawer.
type DrawFunc func(c draw.Canvas)

func (f DrawFunc) Draw(c draw.Canvas) { f(c) }

// WritePNG renders d on a white background and encodes it as PNG.
func (f Figure) WritePNG(w io.Writer, d Drawer) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("figure size %dx%d", f.Width, f.Height)
	}
	width, height := f.Size()
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(DPI))
	c := draw.New(img)
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())
	d.Draw(c)

	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	return encoder.Encode(w, img.Image())
}

func split(weights []float64) []float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	out := make([]float64, len(weights)+1)
	for i, w := range weights {
		out[i+1] = out[i] + w/total
	}
	return out
}

// Rows splits c top to bottom in proportion to weights.
func Rows(c draw.Canvas, weights ...float64) []draw.Canvas {
	edges := split(weights)
	height := c.Max.Y - c.Min.Y
	out := make([]draw.Canvas, len(weights))
	for i := range weights {
		top := c.Max.Y - vg.Length(edges[i])*height
		bottom := c.Max.Y - vg.Length(edges[i+1])*height
		out[i] = draw.Crop(c, 0, 0, bottom-c.Min.Y, top-c.Max.Y)
	}
	return out
}

// Columns splits c left to right in proportion to weights.
func Columns(c draw.Canvas, weights ...float64) []draw.Canvas {
	edges := split(weights)
	width := c.Max.X - c.Min.X
	out := make([]draw.Canvas, len(weights))
	for i := range weights {
		left := c.Min.X + vg.Length(edges[i])*width
		right := c.Min.X + vg.Length(edges[i+1])*width
		out[i] = draw.Crop(c, left-c.Min.X, right-c.Max.X, 0, 0)
	}
	return out
}
