// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package shows

import (
	"bytes"
	"image/png"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvo-seismic/getnplot/seis"
)

var t0 = time.Date(2023, 6, 10, 12, 36, 50, 0, time.UTC)

func sineTrace(net, sta, cha string, start time.Time, seconds, rate, freq, amp float64) *seis.Trace {
	n := int(seconds * rate)
	tr := &seis.Trace{
		Stats: seis.Stats{Network: net, Station: sta, Channel: cha, StartTime: start, SamplingRate: rate},
		Data:  make([]float64, n),
	}
	for i := range tr.Data {
		x := float64(i) / rate
		tr.Data[i] = amp*math.Sin(2*math.Pi*freq*x) + 0.1*amp*math.Sin(2*math.Pi*3.3*freq*x+1)
	}
	return tr
}

func options(kind string, stations int) Options {
	return Options{
		Kind:      kind,
		Title:     "2023-06-10 12:37:00.0  test",
		Width:     640,
		Height:    480,
		Start:     t0,
		Dur:       60,
		Pre:       10,
		Twin:      30,
		Tscale:    "s",
		Fscale:    "linear",
		Zscale:    "sqrt",
		Fmin:      0,
		Fmax:      50,
		LineWidth: 0.5,
		PlotRMS:   true,
		Stations:  stations,
	}
}

func threeComponent() seis.Stream {
	return seis.Stream{
		sineTrace("01", "MBLY", "HHZ", t0, 60, 100, 2, 1000),
		sineTrace("02", "MBLY", "HHE", t0, 60, 100, 3, 500),
		sineTrace("03", "MBLY", "HHN", t0, 60, 100, 4, 700),
	}
}

func requirePNG(t *testing.T, buf *bytes.Buffer, width, height int) {
	t.Helper()
	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.InDelta(t, width, img.Bounds().Dx(), 1)
	assert.InDelta(t, height, img.Bounds().Dy(), 1)
}

func TestLookup(t *testing.T) {
	same := func(a, b Show) bool {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	assert.True(t, same(Seismograms, Lookup("allz", 10)))
	assert.True(t, same(ManyWaysZ, Lookup("specialz", 1)))
	assert.True(t, same(Seismograms, Lookup("specialz", 2)))
	assert.True(t, same(TFR, Lookup("tfr", 3)))
	assert.True(t, same(Lahar, Lookup("lahar", 4)))
	assert.True(t, same(Seismograms, Lookup("partmot", 3)))
}

func TestRenderKinds(t *testing.T) {
	vertical := seis.Stream{
		sineTrace("01", "MSS1", "SHZ", t0, 60, 100, 2, 1000),
		sineTrace("02", "MBLY", "HHZ", t0.Add(5*time.Second), 50, 100, 5, 300),
	}
	single := vertical[:1]

	tests := []struct {
		kind     string
		st       seis.Stream
		stations int
		mutate   func(o *Options)
	}{
		{kind: "allz", st: vertical, stations: 2},
		{kind: "allz", st: vertical, stations: 2, mutate: func(o *Options) {
			o.EqualScale = true
			o.Grid = true
			o.BigTitle = true
		}},
		{kind: "tfr", st: single, stations: 1},
		{kind: "tfr", st: single, stations: 1, mutate: func(o *Options) { o.PlotSpec = true }},
		{kind: "specialz", st: single, stations: 1, mutate: func(o *Options) { o.Fscale = "log"; o.Fmin = 0.5 }},
		{kind: "spectrumz", st: single, stations: 1, mutate: func(o *Options) { o.Fscale = "log" }},
		{kind: "special3c", st: threeComponent(), stations: 1},
		{kind: "partmot", st: threeComponent(), stations: 1},
		{kind: "lahar", st: vertical, stations: 2},
		{kind: "lahar", st: vertical, stations: 2, mutate: func(o *Options) { o.PlotRMS = false }},
		{kind: "rockfall", st: vertical, stations: 2},
		{kind: "forai", st: single, stations: 1, mutate: func(o *Options) { o.Width, o.Height = 800, 800 }},
	}
	for _, tc := range tests {
		opt := options(tc.kind, tc.stations)
		if tc.mutate != nil {
			tc.mutate(&opt)
		}
		buf := &bytes.Buffer{}
		require.NoError(t, Render(buf, tc.st, opt), tc.kind)
		requirePNG(t, buf, opt.Width, opt.Height)
	}
}

func TestRenderEmpty(t *testing.T) {
	assert.ErrorIs(t, Render(&bytes.Buffer{}, nil, options("allz", 1)), ErrNoTraces)
}

func TestParticleMotionNeedsThreeComponents(t *testing.T) {
	_, err := ParticleMotion(threeComponent()[:2], options("partmot", 1))
	assert.Error(t, err)

	opt := options("partmot", 1)
	opt.Pre = 120
	_, err = ParticleMotion(threeComponent(), opt)
	assert.Error(t, err)
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "00:00 (20:00)", hourLabel(0))
	assert.Equal(t, "04:00 (00:00)", hourLabel(4))
	assert.Equal(t, "24:00 (20:00)", hourLabel(24))
}

func TestPanacea(t *testing.T) {
	day := time.Date(2023, 6, 9, 0, 0, 0, 0, time.UTC)
	tr := sineTrace("MV", "MSS1", "SHZ", day, 3600, 20, 2, 20000)

	buf := &bytes.Buffer{}
	require.NoError(t, RenderPanacea(buf, tr, day, 1))
	requirePNG(t, buf, PanaceaWidth, PanaceaHeight)

	_, err := Panacea(&seis.Trace{Stats: tr.Stats}, day, 1)
	assert.ErrorIs(t, err, ErrNoTraces)
}
