// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	Blue  = color.RGBA{B: 200, A: 255}
	Red   = color.RGBA{R: 220, A: 255}
	Green = color.RGBA{G: 160, A: 255}
	Black = color.RGBA{A: 255}
)

// VLine marks X across the full height of a plot.
type VLine struct {
	X     float64
	Style draw.LineStyle
}

// EventLine is the thin green marker drawn at the event time.
func EventLine(x float64) *VLine {
	return &VLine{X: x, Style: draw.LineStyle{Color: Green, Width: vg.Points(1)}}
}

func (l *VLine) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x := trX(l.X)
	if x < c.Min.X || x > c.Max.X {
		return
	}
	c.StrokeLine2(l.Style, x, c.Min.Y, x, c.Max.Y)
}

// Line builds a plotter line of width points.
func Line(x, y []float64, width float64, col color.Color) *plotter.Line {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xys := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	if n == 0 {
		xys = plotter.XYs{{}}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		line = &plotter.Line{XYs: plotter.XYs{{}}, LineStyle: plotter.DefaultLineStyle}
	}
	line.LineStyle.Width = vg.Points(width)
	line.LineStyle.Color = col
	return line
}

// Image bins values[i][j], at xs[i] and ys[j], into an nx by ny colour map.
// Bins receive the mean of the values falling in them.
type Image struct {
	Nx, Ny     int
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// H2D fills a histogram and wraps it for drawing with a moreland palette.
func (im Image) H2D(xs, ys []float64, values [][]float64, z func(float64) float64) *hplot.H2D {
	if z == nil {
		z = func(v float64) float64 { return v }
	}
	sums := make([]float64, im.Nx*im.Ny)
	counts := make([]int, im.Nx*im.Ny)
	dx := (im.Xmax - im.Xmin) / float64(im.Nx)
	dy := (im.Ymax - im.Ymin) / float64(im.Ny)
	for i, x := range xs {
		if i >= len(values) || x < im.Xmin || x >= im.Xmax {
			continue
		}
		ix := int((x - im.Xmin) / dx)
		for j, y := range ys {
			if j >= len(values[i]) || y < im.Ymin || y >= im.Ymax {
				continue
			}
			v := z(values[i][j])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			iy := int((y - im.Ymin) / dy)
			if ix >= im.Nx || iy >= im.Ny {
				continue
			}
			sums[iy*im.Nx+ix] += v
			counts[iy*im.Nx+ix]++
		}
	}

	mean := hbook.NewH2D(im.Nx, im.Xmin, im.Xmax, im.Ny, im.Ymin, im.Ymax)
	for iy := 0; iy < im.Ny; iy++ {
		for ix := 0; ix < im.Nx; ix++ {
			if n := counts[iy*im.Nx+ix]; n > 0 {
				x := im.Xmin + (float64(ix)+0.5)*dx
				y := im.Ymin + (float64(iy)+0.5)*dy
				mean.Fill(x, y, sums[iy*im.Nx+ix]/float64(n))
			}
		}
	}
	return hplot.NewH2D(mean, moreland.Kindlmann().Palette(256))
}

// Envelope reduces x, y to the minimum and maximum of each of n buckets,
// keeping their order, so long traces draw at screen resolution.
func Envelope(x, y []float64, n int) ([]float64, []float64) {
	if n <= 0 || len(y) <= 2*n {
		return x, y
	}
	size := (len(y) + n - 1) / n
	xs := make([]float64, 0, 2*n)
	ys := make([]float64, 0, 2*n)
	for start := 0; start < len(y); start += size {
		end := start + size
		if end > len(y) {
			end = len(y)
		}
		lo, hi := start, start
		for i := start; i < end; i++ {
			if y[i] < y[lo] {
				lo = i
			}
			if y[i] > y[hi] {
				hi = i
			}
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		xs = append(xs, x[lo], x[hi])
		ys = append(ys, y[lo], y[hi])
	}
	return xs, ys
}

// Text writes txt at pt in the default font.
func Text(c draw.Canvas, pt vg.Point, txt string, size vg.Length, col color.Color, align draw.XAlignment) {
	sty := draw.TextStyle{
		Color:   col,
		Font:    font.From(plot.DefaultFont, size),
		Handler: plot.DefaultTextHandler,
		XAlign:  align,
		YAlign:  draw.YCenter,
	}
	c.FillText(sty, pt, txt)
}
