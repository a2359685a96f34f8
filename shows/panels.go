// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"math"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mvo-seismic/getnplot/dsp"
	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

const (
	specSegment = 256
	specOverlap = 128
	tfrW0       = 16
	tfrFreqs    = 128
	maxImageX   = 600
	imageY      = 128
)

// noLabels keeps an axis' tick marks but drops their labels.
type noLabels struct {
	plot.Ticker
}

func (t noLabels) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

func hideXLabels(p *hplot.Plot) {
	p.X.Tick.Marker = noLabels{p.X.Tick.Marker}
	p.X.Label.Text = ""
}

func setTitle(p *hplot.Plot, opt Options) {
	p.Title.Text = opt.Title
	if opt.BigTitle {
		p.Title.TextStyle.Font.Size = vg.Points(20)
	}
}

// timeAxis sets the shared window time axis and marks the event.
func timeAxis(p *hplot.Plot, opt Options) {
	div, label := seisplot.TimeUnit(opt.Tscale)
	p.X.Min = 0
	p.X.Max = opt.Dur / div
	p.X.Label.Text = label
	p.X.Tick.Marker = seisplot.RollTicks{NSuggestedTicks: 7}
	if opt.Grid {
		p.Add(hplot.NewGrid())
	}
	if !opt.NoGreen {
		p.Add(seisplot.EventLine(opt.Pre / div))
	}
}

// traceTimes is the trace's sample times from the window start in the
// configured time unit.
func traceTimes(tr *seis.Trace, opt Options) []float64 {
	div, _ := seisplot.TimeUnit(opt.Tscale)
	t := tr.Seconds(opt.Start)
	for i := range t {
		t[i] /= div
	}
	return t
}

func maxAbs(st seis.Stream) float64 {
	var m float64
	for _, tr := range st {
		m = math.Max(m, dsp.MaxAbs(tr.Data))
	}
	return m
}

// tracePanel draws one seismogram with a symmetric amplitude range of
// ylim, or the trace's own peak when ylim is 0.
func tracePanel(tr *seis.Trace, opt Options, ylim float64, points int) *hplot.Plot {
	p := hplot.New()
	xs, ys := seisplot.Envelope(traceTimes(tr, opt), tr.Data, points)
	p.Add(seisplot.Line(xs, ys, opt.LineWidth, seisplot.Black))
	timeAxis(p, opt)

	if ylim == 0 {
		ylim = dsp.MaxAbs(tr.Data)
	}
	if ylim == 0 {
		ylim = 1
	}
	p.Y.Min = -1.05 * ylim
	p.Y.Max = 1.05 * ylim
	p.Y.Label.Text = tr.ID()
	return p
}

func spectrogramImage(tr *seis.Trace, opt Options) (*hplot.H2D, float64, float64) {
	fs := tr.SamplingRate
	fmin, fmax := opt.Fmin, math.Min(opt.Fmax, fs/2)
	if fmax <= fmin {
		fmin, fmax = 0, fs/2
	}
	logf := opt.Fscale == "log"
	if logf && fmin <= 0 {
		fmin = math.Min(0.5, fmax/10)
	}

	sg := dsp.NewSpectrogram(tr.Data, fs, specSegment, specOverlap)
	div, _ := seisplot.TimeUnit(opt.Tscale)
	offset := tr.StartTime.Sub(opt.Start).Seconds()
	xs := make([]float64, len(sg.Times))
	for i, t := range sg.Times {
		xs[i] = (t + offset) / div
	}
	ys := make([]float64, len(sg.Freqs))
	for j, f := range sg.Freqs {
		ys[j] = f
		if logf {
			ys[j] = seisplot.Log10Min3(f)
		}
	}

	ymin, ymax := fmin, fmax
	if logf {
		ymin, ymax = math.Log10(fmin), math.Log10(fmax)
	}
	nx := len(xs)
	if nx > maxImageX {
		nx = maxImageX
	}
	if nx == 0 {
		nx = 1
	}
	im := seisplot.Image{Nx: nx, Ny: imageY, Xmin: 0, Xmax: opt.Dur / div, Ymin: ymin, Ymax: ymax}
	return im.H2D(xs, ys, sg.Power, seisplot.ZScale(opt.Zscale)), ymin, ymax
}

// spectrogramPanel shows the power of tr against the window time axis.
func spectrogramPanel(tr *seis.Trace, opt Options) *hplot.Plot {
	p := hplot.New()
	h, ymin, ymax := spectrogramImage(tr, opt)
	p.Add(h)
	timeAxis(p, opt)
	p.Y.Min, p.Y.Max = ymin, ymax
	p.Y.Label.Text = "Frequency (Hz)"
	if opt.Fscale == "log" {
		p.Y.Tick.Marker = seisplot.ExpTicks{}
	}
	return p
}

// spectrumPanel shows the amplitude spectrum of tr on a linear or log
// frequency axis.
func spectrumPanel(tr *seis.Trace, opt Options) *hplot.Plot {
	freqs, amps := dsp.AmplitudeSpectrum(tr.Data, tr.SamplingRate)
	fmin, fmax := opt.Fmin, math.Min(opt.Fmax, tr.SamplingRate/2)
	logf := opt.Fscale == "log"
	if logf && fmin <= 0 {
		fmin = math.Min(0.5, fmax/10)
	}

	var xs, ys []float64
	for i, f := range freqs {
		if f < fmin || f > fmax || (logf && f <= 0) {
			continue
		}
		xs = append(xs, f)
		ys = append(ys, amps[i])
	}

	p := hplot.New()
	p.Add(seisplot.Line(xs, ys, opt.LineWidth, seisplot.Blue))
	p.X.Min, p.X.Max = fmin, fmax
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Amplitude"
	p.Y.Min = 0
	if logf {
		p.X.Scale = &seisplot.FuncScale{Func: seisplot.Log10Min3}
		p.X.Tick.Marker = seisplot.LogTicks{}
	}
	if opt.Grid {
		p.Add(hplot.NewGrid())
	}
	return p
}

// tfrPanel shows the modulus of the Morlet wavelet transform of tr with a
// log frequency axis.
func tfrPanel(tr *seis.Trace, opt Options) *hplot.Plot {
	fs := tr.SamplingRate
	fmin, fmax := opt.Fmin, math.Min(opt.Fmax, fs/2)
	if fmin <= 0 {
		fmin = 0.5
	}
	if fmax <= fmin {
		fmax = fs / 2
	}
	freqs, tfr := dsp.MorletTFR(tr.Data, 1/fs, fmin, fmax, tfrW0, tfrFreqs)

	times := traceTimes(tr, opt)
	logf := make([]float64, len(freqs))
	for i, f := range freqs {
		logf[i] = math.Log10(f)
	}
	div, _ := seisplot.TimeUnit(opt.Tscale)
	nx := len(times)
	if nx > maxImageX {
		nx = maxImageX
	}
	if nx == 0 {
		nx = 1
	}
	ymin, ymax := math.Log10(fmin), math.Log10(fmax)
	im := seisplot.Image{Nx: nx, Ny: tfrFreqs, Xmin: 0, Xmax: opt.Dur / div, Ymin: ymin, Ymax: ymax + 1e-9}

	p := hplot.New()
	p.Add(im.H2D(times, logf, transpose(tfr), math.Sqrt))
	timeAxis(p, opt)
	p.Y.Min, p.Y.Max = ymin, ymax
	p.Y.Label.Text = "Frequency (Hz)"
	p.Y.Tick.Marker = seisplot.ExpTicks{}
	return p
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for j := range out {
		out[j] = make([]float64, len(m))
		for i := range m {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// column stacks plots top to bottom with the given weights.
type column struct {
	plots   []*hplot.Plot
	weights []float64
}

func (col column) Draw(c draw.Canvas) {
	for i, sub := range seisplot.Rows(c, col.weights...) {
		col.plots[i].Draw(sub)
	}
}
