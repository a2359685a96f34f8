// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

// Seismograms stacks one panel per trace on a shared time axis. With
// EqualScale every panel uses the largest amplitude in the stream.
func Seismograms(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	if len(st) == 0 {
		return nil, ErrNoTraces
	}
	var ylim float64
	if opt.EqualScale {
		ylim = maxAbs(st)
	}

	tp := hplot.NewTiledPlot(draw.Tiles{
		Rows:      len(st),
		Cols:      1,
		PadTop:    vg.Points(5),
		PadBottom: vg.Points(5),
		PadLeft:   vg.Points(5),
		PadRight:  vg.Points(10),
	})
	tp.Align = true
	for i, tr := range st {
		p := tracePanel(tr, opt, ylim, opt.Width)
		if i < len(st)-1 {
			hideXLabels(p)
		}
		if i == 0 {
			setTitle(p, opt)
		}
		tp.Plots[i] = p
	}
	return tp, nil
}
