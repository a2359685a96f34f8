// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func sine(n int, fs, freq, amp float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return x
}

func TestLowpassResponse(t *testing.T) {
	f, err := Lowpass(1, 100, DefaultCorners)
	require.NoError(t, err)

	assert.InDelta(t, 1, cmplx.Abs(f.Response(0, 100)), 1e-9)
	assert.InDelta(t, 1, cmplx.Abs(f.Response(0.1, 100)), 1e-3)
	assert.InDelta(t, math.Sqrt(0.5), cmplx.Abs(f.Response(1, 100)), 1e-3)
	assert.Less(t, cmplx.Abs(f.Response(10, 100)), 1e-3)
}

func TestHighpassResponse(t *testing.T) {
	f, err := Highpass(1, 100, DefaultCorners)
	require.NoError(t, err)

	assert.InDelta(t, 1, cmplx.Abs(f.Response(50, 100)), 1e-9)
	assert.InDelta(t, math.Sqrt(0.5), cmplx.Abs(f.Response(1, 100)), 1e-3)
	assert.Less(t, cmplx.Abs(f.Response(0.1, 100)), 1e-3)
}

func TestBandpassResponse(t *testing.T) {
	f, err := Bandpass(1, 10, 100, DefaultCorners)
	require.NoError(t, err)

	assert.InDelta(t, 1, cmplx.Abs(f.Response(3, 100)), 0.02)
	assert.InDelta(t, math.Sqrt(0.5), cmplx.Abs(f.Response(1, 100)), 0.01)
	assert.InDelta(t, math.Sqrt(0.5), cmplx.Abs(f.Response(10, 100)), 0.01)
	assert.Less(t, cmplx.Abs(f.Response(0.05, 100)), 1e-3)

	_, err = Bandpass(10, 1, 100, DefaultCorners)
	assert.Error(t, err)
}

func TestCornerValidation(t *testing.T) {
	_, err := Lowpass(60, 100, DefaultCorners)
	assert.Error(t, err)
	_, err = Highpass(0, 100, DefaultCorners)
	assert.Error(t, err)
	_, err = Lowpass(1, 0, DefaultCorners)
	assert.Error(t, err)
}

func TestZeroPhaseKeepsPassband(t *testing.T) {
	x := sine(4000, 100, 0.5, 1)
	f, err := Lowpass(5, 100, DefaultCorners)
	require.NoError(t, err)
	f.ApplyZeroPhase(x)

	want := sine(4000, 100, 0.5, 1)
	for i := 1000; i < 3000; i++ {
		assert.InDelta(t, want[i], x[i], 1e-3)
	}
}

func TestDemeanAndDetrend(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	Demean(x)
	assert.InDelta(t, 0, floats.Sum(x), 1e-12)
	assert.InDeltaSlice(t, []float64{-2, -1, 0, 1, 2}, x, 1e-12)

	y := []float64{3, 5, 7, 9}
	DetrendLinear(y)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, y, 1e-12)
}

func TestIntegrate(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	Integrate(x, 0.5)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5, 2}, x, 1e-12)

	Integrate(nil, 1)
}

func TestDecimate(t *testing.T) {
	x := sine(1000, 100, 1, 2)
	out, err := Decimate(x, 100, 4)
	require.NoError(t, err)
	assert.Len(t, out, 250)
	assert.InDelta(t, 2, MaxAbs(out[50:200]), 0.05)

	same, err := Decimate(x, 100, 1)
	require.NoError(t, err)
	assert.Len(t, same, 1000)
}

func TestAmplitudes(t *testing.T) {
	x := []float64{-1, 3, -2, 0.5}
	assert.Equal(t, 3.0, MaxAbs(x))
	assert.Equal(t, 5.0, PeakToPeak(x))
	assert.InDelta(t, 1, RMS([]float64{1, -1, 1, -1}), 1e-12)

	a := []float64{1, -2}
	b := []float64{4, 0}
	NormalizeGlobal(a, b)
	assert.Equal(t, []float64{0.25, -0.5}, a)
	assert.Equal(t, []float64{1, 0}, b)

	rms, centers := RMSChunks([]float64{1, 1, 2, 2, 3}, 2)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, rms, 1e-12)
	assert.Equal(t, []float64{1, 3, 5}, centers)
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, 1, NextPow2(0))
	assert.Equal(t, 1, NextPow2(1))
	assert.Equal(t, 8, NextPow2(5))
	assert.Equal(t, 1024, NextPow2(1024))
}

func TestAmplitudeSpectrumPeak(t *testing.T) {
	x := sine(1024, 64, 8, 3)
	freqs, amps := AmplitudeSpectrum(x, 64)
	require.Len(t, freqs, 513)
	peak := floats.MaxIdx(amps)
	assert.InDelta(t, 8, freqs[peak], 1e-9)
	assert.InDelta(t, 3, amps[peak], 1e-6)
}

func TestSpectrogram(t *testing.T) {
	x := sine(2048, 100, 12.5, 1)
	sg := NewSpectrogram(x, 100, 256, 128)
	require.Len(t, sg.Freqs, 129)
	require.Len(t, sg.Power, 15)
	assert.Len(t, sg.Times, 15)
	assert.InDelta(t, 1.28, sg.Times[0], 1e-9)
	for _, row := range sg.Power {
		assert.InDelta(t, 12.5, sg.Freqs[floats.MaxIdx(row)], 1e-9)
	}
}

func TestMorletTFR(t *testing.T) {
	x := sine(512, 50, 5, 1)
	freqs, tfr := MorletTFR(x, 1.0/50, 1, 20, 8, 30)
	require.Len(t, freqs, 30)
	require.Len(t, tfr, 30)
	assert.InDelta(t, 1, freqs[0], 1e-9)
	assert.InDelta(t, 20, freqs[29], 1e-9)

	best, bestVal := 0, 0.0
	for k, row := range tfr {
		require.Len(t, row, 512)
		if row[256] > bestVal {
			best, bestVal = k, row[256]
		}
	}
	assert.InDelta(t, 5, freqs[best], 1)

	f, r := MorletTFR(nil, 0.01, 1, 2, 8, 4)
	assert.Nil(t, f)
	assert.Nil(t, r)
}
