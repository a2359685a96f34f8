// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package shows renders the plot kinds. Each kind builds a drawer from the
// processed stream; Render encodes it as a PNG figure.
package shows

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mvo-seismic/getnplot/params"
	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

var ErrNoTraces = errors.New("no traces to plot")

// Options holds everything the renderers need from a run's configuration.
type Options struct {
	Kind     string
	Title    string
	BigTitle bool
	Width    int
	Height   int

	Start time.Time
	Dur   float64
	Pre   float64
	Twin  float64

	Tscale    string
	Fscale    string
	Zscale    string
	Fmin      float64
	Fmax      float64
	LineWidth float64

	Grid       bool
	NoGreen    bool
	PlotSpec   bool
	PlotRMS    bool
	EqualScale bool

	// Stations is the number of stations selected for the kind; single
	// station kinds draw stacked seismograms when it is not 1.
	Stations int
}

// FromConfig copies the plot settings of a resolved configuration.
func FromConfig(c *params.Config, equalScale bool) Options {
	return Options{
		Kind:       c.Kind,
		Title:      c.Title,
		BigTitle:   c.BigTitle,
		Width:      c.Width,
		Height:     c.Height,
		Start:      c.Window.Start,
		Dur:        c.Dur,
		Pre:        c.Pre,
		Twin:       c.Twin,
		Tscale:     c.Tscale,
		Fscale:     c.Fscale,
		Zscale:     c.Zscale,
		Fmin:       c.PlotFmin,
		Fmax:       c.PlotFmax,
		LineWidth:  c.LineWidth,
		Grid:       c.Grid,
		NoGreen:    c.NoGreen,
		PlotSpec:   c.PlotSpec,
		PlotRMS:    !c.PlotNorms,
		EqualScale: equalScale,
		Stations:   len(c.Selection.Stations),
	}
}

// Show builds the drawing for one plot kind.
type Show func(st seis.Stream, opt Options) (seisplot.Drawer, error)

type entry struct {
	show          Show
	singleStation bool
}

var shows = map[string]entry{
	"tfr":       {TFR, false},
	"forai":     {ForAI, true},
	"specialz":  {ManyWaysZ, true},
	"spectrumz": {SpectrumZ, true},
	"special3c": {ManyWays3C, true},
	"partmot":   {ParticleMotion, true},
	"lahar":     {Lahar, false},
	"rockfall":  {Rockfall, false},
}

// Lookup returns the renderer for kind. Unlisted kinds and single station
// kinds asked to draw several stations get Seismograms.
func Lookup(kind string, stations int) Show {
	e, ok := shows[kind]
	if !ok || (e.singleStation && stations != 1) {
		return Seismograms
	}
	return e.show
}

// Render draws st as opt.Kind and writes the PNG to w.
func Render(w io.Writer, st seis.Stream, opt Options) error {
	if len(st) == 0 {
		return ErrNoTraces
	}
	d, err := Lookup(opt.Kind, opt.Stations)(st, opt)
	if err != nil {
		return fmt.Errorf("failed to draw %s plot: %w", opt.Kind, err)
	}
	fig := seisplot.Figure{Width: opt.Width, Height: opt.Height}
	if err := fig.WritePNG(w, d); err != nil {
		return fmt.Errorf("failed to encode %s plot: %w", opt.Kind, err)
	}
	return nil
}
