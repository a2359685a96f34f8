// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg/draw"

	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

func first(st seis.Stream) (*seis.Trace, error) {
	if len(st) == 0 {
		return nil, ErrNoTraces
	}
	return st[0], nil
}

// withSpectrum puts a spectrum panel of tr beside main when PlotSpec is
// set.
func withSpectrum(main seisplot.Drawer, tr *seis.Trace, opt Options, left bool) seisplot.Drawer {
	if !opt.PlotSpec {
		return main
	}
	spec := spectrumPanel(tr, opt)
	return seisplot.DrawFunc(func(c draw.Canvas) {
		if left {
			cols := seisplot.Columns(c, 1, 4)
			spec.Draw(cols[0])
			main.Draw(cols[1])
			return
		}
		cols := seisplot.Columns(c, 4, 1)
		main.Draw(cols[0])
		spec.Draw(cols[1])
	})
}

// TFR draws the first trace over its Morlet time-frequency representation.
func TFR(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	tr, err := first(st)
	if err != nil {
		return nil, err
	}
	sig := tracePanel(tr, opt, 0, opt.Width)
	hideXLabels(sig)
	setTitle(sig, opt)
	tfr := tfrPanel(tr, opt)
	return withSpectrum(column{plots: []*hplot.Plot{sig, tfr}, weights: []float64{1, 3}}, tr, opt, true), nil
}

// ManyWaysZ draws a vertical seismogram above its spectrogram.
func ManyWaysZ(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	tr, err := first(st)
	if err != nil {
		return nil, err
	}
	sig := tracePanel(tr, opt, 0, opt.Width)
	hideXLabels(sig)
	setTitle(sig, opt)
	sg := spectrogramPanel(tr, opt)
	return withSpectrum(column{plots: []*hplot.Plot{sig, sg}, weights: []float64{1, 2}}, tr, opt, false), nil
}

// SpectrumZ draws a vertical seismogram above its amplitude spectrum.
func SpectrumZ(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	tr, err := first(st)
	if err != nil {
		return nil, err
	}
	sig := tracePanel(tr, opt, 0, opt.Width)
	setTitle(sig, opt)
	spec := spectrumPanel(tr, opt)
	return column{plots: []*hplot.Plot{sig, spec}, weights: []float64{1, 2}}, nil
}

// ManyWays3C draws each component's seismogram above its spectrogram, one
// column per component.
func ManyWays3C(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	if len(st) == 0 {
		return nil, ErrNoTraces
	}
	var ylim float64
	if opt.EqualScale {
		ylim = maxAbs(st)
	}
	cols := make([]column, len(st))
	for i, tr := range st {
		sig := tracePanel(tr, opt, ylim, opt.Width/len(st))
		hideXLabels(sig)
		if i == 0 {
			setTitle(sig, opt)
		}
		cols[i] = column{plots: []*hplot.Plot{sig, spectrogramPanel(tr, opt)}, weights: []float64{1, 2}}
	}
	return seisplot.DrawFunc(func(c draw.Canvas) {
		weights := make([]float64, len(cols))
		for i := range weights {
			weights[i] = 1
		}
		for i, sub := range seisplot.Columns(c, weights...) {
			cols[i].Draw(sub)
		}
	}), nil
}

// ForAI draws an undecorated seismogram above its spectrogram for image
// classifiers.
func ForAI(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	tr, err := first(st)
	if err != nil {
		return nil, err
	}
	opt.NoGreen = true
	opt.Grid = false
	sig := tracePanel(tr, opt, 0, opt.Width)
	sg := spectrogramPanel(tr, opt)
	for _, p := range []*hplot.Plot{sig, sg} {
		p.HideAxes()
		p.Title.Text = ""
		p.X.Label.Text = ""
		p.Y.Label.Text = ""
	}
	return column{plots: []*hplot.Plot{sig, sg}, weights: []float64{1, 1}}, nil
}
