// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mvo-seismic/getnplot/dsp"
	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

const (
	laharRMSSeconds = 60
	laharSmoothing  = 0.3
)

// rmsPanel shows the RMS of each minute of tr and its smoothed trend.
func rmsPanel(tr *seis.Trace, opt Options) *hplot.Plot {
	div, _ := seisplot.TimeUnit(opt.Tscale)
	offset := tr.StartTime.Sub(opt.Start).Seconds()
	rms, centers := dsp.RMSChunks(tr.Data, int(laharRMSSeconds*tr.SamplingRate))
	xs := make([]float64, len(centers))
	for i, c := range centers {
		xs[i] = (c/tr.SamplingRate + offset) / div
	}

	p := hplot.New()
	p.Add(seisplot.Line(xs, rms, 2*opt.LineWidth, seisplot.Blue))
	p.Add(seisplot.Line(xs, seisplot.Smooth(rms, laharSmoothing), 2*opt.LineWidth, seisplot.Red))
	timeAxis(p, opt)
	p.Y.Min = 0
	p.Y.Label.Text = "1 min RMS"
	return p
}

// Lahar draws a row per station: seismogram, spectrogram and, unless
// PlotRMS is off, the one minute RMS.
func Lahar(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	if len(st) == 0 {
		return nil, ErrNoTraces
	}
	var ylim float64
	if opt.EqualScale {
		ylim = maxAbs(st)
	}

	ncol := 2
	if opt.PlotRMS {
		ncol = 3
	}
	cols := make([][]*hplot.Plot, ncol)
	for i, tr := range st {
		row := []*hplot.Plot{
			tracePanel(tr, opt, ylim, opt.Width/ncol),
			spectrogramPanel(tr, opt),
		}
		if opt.PlotRMS {
			row = append(row, rmsPanel(tr, opt))
		}
		for j, p := range row {
			if i < len(st)-1 {
				hideXLabels(p)
			}
			cols[j] = append(cols[j], p)
		}
	}
	setTitle(cols[0][0], opt)

	weights := make([]float64, len(st))
	for i := range weights {
		weights[i] = 1
	}
	return seisplot.DrawFunc(func(c draw.Canvas) {
		colWeights := []float64{1, 1, 1}[:ncol]
		for j, sub := range seisplot.Columns(c, colWeights...) {
			column{plots: cols[j], weights: weights}.Draw(sub)
		}
	}), nil
}

// Rockfall stacks the seismograms above a bar chart of each station's peak
// and RMS amplitude.
func Rockfall(st seis.Stream, opt Options) (seisplot.Drawer, error) {
	sigs, err := Seismograms(st, opt)
	if err != nil {
		return nil, err
	}

	peaks := make(plotter.Values, len(st))
	rms := make(plotter.Values, len(st))
	names := make([]string, len(st))
	for i, tr := range st {
		peaks[i] = dsp.MaxAbs(tr.Data)
		rms[i] = dsp.RMS(tr.Data)
		names[i] = tr.Station
	}

	width := vg.Points(12)
	peakBars, err := plotter.NewBarChart(peaks, width)
	if err != nil {
		return nil, err
	}
	peakBars.Color = seisplot.Blue
	peakBars.Offset = -width / 2
	rmsBars, err := plotter.NewBarChart(rms, width)
	if err != nil {
		return nil, err
	}
	rmsBars.Color = seisplot.Red
	rmsBars.Offset = width / 2

	bars := hplot.New()
	bars.Add(peakBars, rmsBars)
	bars.NominalX(names...)
	bars.Y.Label.Text = "Peak (blue) and RMS (red)"
	bars.Y.Min = 0

	return seisplot.DrawFunc(func(c draw.Canvas) {
		rows := seisplot.Rows(c, 3, 1)
		sigs.Draw(rows[0])
		bars.Draw(rows[1])
	}), nil
}
