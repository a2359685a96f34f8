// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"fmt"
	"math"
	"time"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mvo-seismic/getnplot/dsp"
	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

// components picks the vertical, east and north traces of a three
// component station.
func components(st seis.Stream) (z, e, n *seis.Trace, err error) {
	for _, tr := range st {
		switch tr.Component() {
		case "Z":
			z = tr
		case "E", "1":
			e = tr
		case "N", "2":
			n = tr
		}
	}
	if z == nil || e == nil || n == nil {
		return nil, nil, nil, fmt.Errorf("particle motion needs three components, have %d traces", len(st))
	}
	return z, e, n, nil
}

func motionPanel(x, y []float64, xlabel, ylabel string, lim, width float64) *hplot.Plot {
	p := hplot.New()
	p.Add(seisplot.Line(x, y, width, seisplot.Blue))
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(hplot.NewGrid())
	return p
}

// ParticleMotion draws the three components over the whole window next to
// Z-N, Z-E and N-E particle motion over the analysis window that starts at
// the event.
func ParticleMotion(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	z, e, n, err := components(st)
	if err != nil {
		return nil, err
	}

	from := opt.Start.Add(time.Duration(opt.Pre * float64(time.Second)))
	to := from.Add(time.Duration(opt.Twin * float64(time.Second)))
	var seg [3][]float64
	npts := math.MaxInt
	for i, tr := range []*seis.Trace{z, e, n} {
		cut := tr.Copy()
		if !cut.Trim(from, to) {
			return nil, fmt.Errorf("no %s samples in the analysis window", tr.ID())
		}
		seg[i] = cut.Data
		if len(cut.Data) < npts {
			npts = len(cut.Data)
		}
	}
	var lim float64
	for i := range seg {
		seg[i] = seg[i][:npts]
		lim = math.Max(lim, dsp.MaxAbs(seg[i]))
	}
	if lim == 0 {
		lim = 1
	}
	lim *= 1.05

	var ylim float64
	if opt.EqualScale {
		ylim = maxAbs(seis.Stream{z, e, n})
	}
	div, _ := seisplot.TimeUnit(opt.Tscale)
	sigs := make([]*hplot.Plot, 3)
	for i, tr := range []*seis.Trace{z, e, n} {
		p := tracePanel(tr, opt, ylim, opt.Width/2)
		if !opt.NoGreen {
			p.Add(seisplot.EventLine((opt.Pre + opt.Twin) / div))
		}
		if i < 2 {
			hideXLabels(p)
		}
		sigs[i] = p
	}
	setTitle(sigs[0], opt)

	motions := []*hplot.Plot{
		motionPanel(seg[2], seg[0], "N", "Z", lim, opt.LineWidth),
		motionPanel(seg[1], seg[0], "E", "Z", lim, opt.LineWidth),
		motionPanel(seg[1], seg[2], "E", "N", lim, opt.LineWidth),
	}

	return seisplot.DrawFunc(func(c draw.Canvas) {
		cols := seisplot.Columns(c, 2, 1)
		column{plots: sigs, weights: []float64{1, 1, 1}}.Draw(cols[0])
		column{plots: motions, weights: []float64{1, 1, 1}}.Draw(cols[1])
	}), nil
}
