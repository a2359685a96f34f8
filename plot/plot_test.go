// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func TestWritePNG(t *testing.T) {
	p := hplot.New()
	p.Add(Line([]float64{0, 1, 2}, []float64{0, 1, 0}, 0.5, Blue))
	p.Add(EventLine(1))

	buf := &bytes.Buffer{}
	require.NoError(t, Figure{Width: 320, Height: 200}.WritePNG(buf, p))

	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.InDelta(t, 320, img.Bounds().Dx(), 1)
	assert.InDelta(t, 200, img.Bounds().Dy(), 1)

	assert.Error(t, Figure{}.WritePNG(&bytes.Buffer{}, p))
}

func TestRowsAndColumns(t *testing.T) {
	c := draw.Canvas{Rectangle: vg.Rectangle{Max: vg.Point{X: 400, Y: 300}}}

	rows := Rows(c, 1, 2)
	require.Len(t, rows, 2)
	assert.InDelta(t, 300, float64(rows[0].Max.Y), 1e-9)
	assert.InDelta(t, 200, float64(rows[0].Min.Y), 1e-9)
	assert.InDelta(t, 200, float64(rows[1].Max.Y), 1e-9)
	assert.InDelta(t, 0, float64(rows[1].Min.Y), 1e-9)

	cols := Columns(c, 3, 1)
	require.Len(t, cols, 2)
	assert.InDelta(t, 300, float64(cols[0].Max.X), 1e-9)
	assert.InDelta(t, 300, float64(cols[1].Min.X), 1e-9)
	assert.InDelta(t, 400, float64(cols[1].Max.X), 1e-9)
}

func TestEnvelope(t *testing.T) {
	n := 1000
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = math.Sin(float64(i) / 10)
	}
	xs, ys := Envelope(x, y, 50)
	assert.Len(t, xs, 100)
	assert.Len(t, ys, 100)
	for i := 1; i < len(xs); i++ {
		assert.Less(t, xs[i-1], xs[i])
	}
	assert.InDelta(t, 1, maxOf(ys), 1e-3)

	short, _ := Envelope(x[:10], y[:10], 50)
	assert.Len(t, short, 10)
}

func maxOf(x []float64) float64 {
	m := math.Inf(-1)
	for _, v := range x {
		m = math.Max(m, v)
	}
	return m
}

func TestImageH2D(t *testing.T) {
	xs := []float64{0.5, 1.5}
	ys := []float64{0.5, 1.5}
	values := [][]float64{{1, 4}, {9, 16}}
	h := Image{Nx: 2, Ny: 2, Xmin: 0, Xmax: 2, Ymin: 0, Ymax: 2}.H2D(xs, ys, values, math.Sqrt)
	require.NotNil(t, h)
	assert.InDelta(t, 1+2+3+4, h.H.SumW(), 1e-9)
}

func TestTicks(t *testing.T) {
	ticks := RollTicks{NSuggestedTicks: 5}.Ticks(0, 60)
	var labels []string
	for _, tk := range ticks {
		if tk.Label != "" {
			labels = append(labels, tk.Label)
		}
	}
	assert.Contains(t, labels, "0")
	assert.Contains(t, labels, "60")
	assert.Nil(t, RollTicks{}.Ticks(1, 1))

	for _, tk := range (LogTicks{}).Ticks(0.5, 50) {
		assert.GreaterOrEqual(t, tk.Value, 0.5)
		assert.LessOrEqual(t, tk.Value, 50.0)
	}

	s := &FuncScale{Func: Log10Min3}
	assert.InDelta(t, 0.5, s.Normalize(1, 100, 10), 1e-12)
	assert.Equal(t, -3.0, Log10Min3(0))
}

func TestHelpers(t *testing.T) {
	assert.InDeltaSlice(t, []float64{1, 1, 1}, Smooth([]float64{1, 1, 1}, 0.3), 1e-12)
	assert.Nil(t, Smooth(nil, 0.3))
	assert.InDelta(t, 2, ZScale("amp")(4), 1e-12)
	assert.InDelta(t, 20, ZScale("log")(100), 1e-12)
	assert.InDelta(t, 2, ZScale("sqrt")(16), 1e-12)
	div, label := TimeUnit("m")
	assert.Equal(t, 60.0, div)
	assert.Equal(t, "Time (minutes)", label)
}
