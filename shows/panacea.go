// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mvo-seismic/getnplot/dsp"
	seisplot "github.com/mvo-seismic/getnplot/plot"
	"github.com/mvo-seismic/getnplot/seis"
)

// Panacea figure geometry and scales.
const (
	PanaceaWidth  = 4740
	PanaceaHeight = 2963

	daySeconds     = 24 * 60 * 60
	lineSeconds    = 10 * 60
	rmsSeconds     = 10 * 60
	localOffset    = -4
	dataLimit      = 10000.0
	dataRMSLimit   = 2000.0
	helicorderGain = 4.0
	rmsHighpass    = 1.0
	rmsCorners     = 2
	panaceaSegment = 256
	panaceaOverlap = 32
)

var (
	panaceaFont = vg.Points(24)
	panaceaTick = vg.Points(20)

	helicorderColors = []color.Color{
		color.RGBA{A: 255},
		color.RGBA{R: 128, A: 255},
		color.RGBA{B: 128, A: 255},
		color.RGBA{G: 128, A: 255},
	}
)

// hourLabel is "HH:00 (HH:00)" in UTC then local time.
func hourLabel(h int) string {
	lt := h + localOffset
	if lt < 0 {
		lt += 24
	}
	return fmt.Sprintf("%02d:00 (%02d:00)", h, lt)
}

// downTicks marks every hour of a day axis that runs downward, so y is
// daySeconds minus the time of day.
func downTicks() plot.Ticker {
	ticks := make([]plot.Tick, 25)
	for h := range ticks {
		ticks[h] = plot.Tick{Value: float64(daySeconds - h*3600)}
	}
	return plot.ConstantTicks(ticks)
}

// rightLabels writes the hour labels outside the right edge of a day axis.
type rightLabels struct{}

func (rightLabels) Plot(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	x := c.Max.X + vg.Points(12)
	for h := 0; h <= 24; h++ {
		seisplot.Text(c, vg.Point{X: x, Y: trY(float64(daySeconds - h*3600))}, hourLabel(h), panaceaTick, seisplot.Black, draw.XLeft)
	}
	seisplot.Text(c, vg.Point{X: x, Y: c.Max.Y + panaceaFont}, "UTC (LT)", panaceaTick, seisplot.Black, draw.XLeft)
}

func panaceaPanel(title string) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = panaceaFont
	p.X.Tick.Label.Font.Size = panaceaTick
	p.Y.Tick.Label.Font.Size = panaceaTick
	return p
}

// dayAxis turns p's Y axis into the downward time of day, with a grid line
// every hour.
func dayAxis(p *hplot.Plot) {
	p.Y.Min = 0
	p.Y.Max = daySeconds + 600
	p.Y.Tick.Marker = noLabels{downTicks()}
	for h := 0; h <= 24; h++ {
		y := float64(daySeconds - h*3600)
		p.Add(&horizontal{Y: y})
	}
}

// horizontal is an hourly grid line.
type horizontal struct {
	Y float64
}

func (l *horizontal) Plot(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	y := trY(l.Y)
	sty := draw.LineStyle{Color: color.Gray{Y: 200}, Width: vg.Points(1)}
	c.StrokeLine2(sty, c.Min.X, y, c.Max.X, y)
}

func helicorderPanel(t, data []float64) *hplot.Plot {
	nrows := daySeconds / lineSeconds
	p := panaceaPanel("Helicorder")

	rowX := make([][]float64, nrows)
	rowY := make([][]float64, nrows)
	for i, ts := range t {
		row := int(ts / lineSeconds)
		if row < 0 || row >= nrows {
			continue
		}
		rowX[row] = append(rowX[row], (ts-float64(row*lineSeconds))/60)
		rowY[row] = append(rowY[row], data[i]/dataLimit*helicorderGain+float64(nrows-row))
	}
	for row := range rowX {
		if len(rowX[row]) == 0 {
			continue
		}
		xs, ys := seisplot.Envelope(rowX[row], rowY[row], 2000)
		p.Add(seisplot.Line(xs, ys, 0.5, helicorderColors[row%len(helicorderColors)]))
	}

	p.X.Min, p.X.Max = 0, lineSeconds/60
	minutes := make([]plot.Tick, 0, lineSeconds/60)
	for m := 0; m < lineSeconds/60; m++ {
		minutes = append(minutes, plot.Tick{Value: float64(m), Label: fmt.Sprint(m)})
	}
	p.X.Tick.Marker = plot.ConstantTicks(minutes)

	p.Y.Min, p.Y.Max = 0, float64(nrows+1)
	hours := make([]plot.Tick, 0, 25)
	for h := 0; h <= 24; h++ {
		hours = append(hours, plot.Tick{Value: float64(nrows - h*6), Label: hourLabel(h)})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(hours)
	return p
}

func panaceaSpectrogram(data, t []float64, fs float64) *hplot.Plot {
	p := panaceaPanel("Spectrogram")
	fnyq := fs / 2
	sg := dsp.NewSpectrogram(data, fs, panaceaSegment, panaceaOverlap)
	ys := make([]float64, len(sg.Times))
	for i, st := range sg.Times {
		ys[i] = daySeconds - (st + t[0])
	}
	im := seisplot.Image{Nx: 128, Ny: 720, Xmin: 0, Xmax: fnyq + 1e-9, Ymin: 0, Ymax: daySeconds + 600}
	p.Add(im.H2D(sg.Freqs, ys, transpose(sg.Power), seisplot.ZScale("amp")))
	p.X.Min, p.X.Max = 0, fnyq
	p.Y.Min, p.Y.Max = 0, daySeconds+600
	p.Y.Tick.Marker = noLabels{downTicks()}
	return p
}

// overLimit adds a red copy of the series normalized to limit when its peak
// passes it.
func overLimit(p *hplot.Plot, amp, t []float64, peak, limit, width float64) {
	if peak <= limit {
		return
	}
	scaled := make([]float64, len(amp))
	for i, v := range amp {
		scaled[i] = v * limit / peak
	}
	p.Add(seisplot.Line(scaled, t, width, seisplot.Red))
}

func seismogramColumn(t, data []float64) *hplot.Plot {
	p := panaceaPanel("Seismogram")
	down := make([]float64, len(t))
	for i, v := range t {
		down[i] = daySeconds - v
	}
	ys, xs := seisplot.Envelope(down, data, 4000)
	p.Add(seisplot.Line(xs, ys, 0.5, seisplot.Blue))
	overLimit(p, xs, ys, dsp.MaxAbs(data), dataLimit, 0.5)
	p.X.Min, p.X.Max = -dataLimit, dataLimit
	p.X.Tick.Marker = noLabels{plot.DefaultTicks{}}
	dayAxis(p)
	return p
}

func rmsColumn(tr *seis.Trace, day time.Time) (*hplot.Plot, error) {
	p := panaceaPanel(fmt.Sprintf("%d min RMS (%gHz HP)", rmsSeconds/60, rmsHighpass))

	filtered := tr.Copy()
	hp, err := dsp.Highpass(rmsHighpass, tr.SamplingRate, rmsCorners)
	if err != nil {
		return nil, err
	}
	hp.ApplyZeroPhase(filtered.Data)
	rms, centers := dsp.RMSChunks(filtered.Data, int(rmsSeconds*tr.SamplingRate))
	if len(rms) > 1 {
		rms, centers = rms[:len(rms)-1], centers[:len(centers)-1]
	}
	offset := tr.StartTime.Sub(day).Seconds()
	ys := make([]float64, len(centers))
	var peak float64
	for i, c := range centers {
		ys[i] = daySeconds - (c/tr.SamplingRate + offset)
		peak = math.Max(peak, rms[i])
	}
	p.Add(seisplot.Line(rms, ys, 2, seisplot.Blue))
	overLimit(p, rms, ys, peak, dataRMSLimit, 2)
	p.X.Min, p.X.Max = 0, dataRMSLimit
	p.X.Tick.Marker = noLabels{plot.DefaultTicks{}}
	dayAxis(p)
	p.Add(rightLabels{})
	return p, nil
}

// Panacea draws a day of one channel: helicorder, spectrogram, seismogram
// at fixed magnification and the RMS of the high-passed signal, all on a
// downward time of day axis. tr must already be demeaned; gain scales the
// amplitude panels.
func Panacea(tr *seis.Trace, day time.Time, gain float64) (seisplot.Drawer, error) {
	if tr == nil || tr.Npts() < 2 || tr.SamplingRate <= 0 {
		return nil, ErrNoTraces
	}
	data := make([]float64, tr.Npts()-1)
	for i := range data {
		data[i] = tr.Data[i] * gain
	}
	t := tr.Seconds(day)[:len(data)]

	hel := helicorderPanel(t, data)
	sgr := panaceaSpectrogram(data, t, tr.SamplingRate)
	sig := seismogramColumn(t, data)
	rms, err := rmsColumn(tr, day)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s  %s", tr.ID(), day.Format("2006-01-02"))

	return seisplot.DrawFunc(func(c draw.Canvas) {
		w := c.Max.X - c.Min.X
		h := c.Max.Y - c.Min.Y
		at := func(fx, fy float64) vg.Point {
			return vg.Point{X: c.Min.X + vg.Length(fx)*w, Y: c.Min.Y + vg.Length(fy)*h}
		}
		box := func(x0, x1 float64) draw.Canvas {
			return draw.Crop(c, vg.Length(x0)*w, -vg.Length(1-x1)*w, 0.05*h, -0.05*h)
		}
		hel.Draw(box(0.1, 0.4))
		sgr.Draw(box(0.4, 0.7))
		sig.Draw(box(0.7, 0.8))
		rms.Draw(box(0.8, 0.9))

		seisplot.Text(c, at(0.01, 0.99), title, panaceaFont, seisplot.Black, draw.XLeft)
		seisplot.Text(c, at(0.25, 0.02), "Minutes", panaceaTick, seisplot.Black, draw.XCenter)
		seisplot.Text(c, at(0.55, 0.02), "Frequency (Hz)", panaceaTick, seisplot.Black, draw.XCenter)
		seisplot.Text(c, at(0.8, 0.035), "Fixed magnification", panaceaTick, seisplot.Blue, draw.XCenter)
		seisplot.Text(c, at(0.8, 0.02), "Normalized to peak", panaceaTick, seisplot.Red, draw.XCenter)
	}), nil
}

// RenderPanacea writes the panacea figure of tr for day as PNG.
func RenderPanacea(w io.Writer, tr *seis.Trace, day time.Time, gain float64) error {
	d, err := Panacea(tr, day, gain)
	if err != nil {
		return err
	}
	fig := seisplot.Figure{Width: PanaceaWidth, Height: PanaceaHeight}
	return fig.WritePNG(w, d)
}
