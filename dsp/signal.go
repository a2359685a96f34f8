// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Demean removes the mean in place.
func Demean(x []float64) {
	if len(x) == 0 {
		return
	}
	floats.AddConst(-stat.Mean(x, nil), x)
}

// DetrendLinear removes the least squares line in place.
func DetrendLinear(x []float64) {
	if len(x) < 2 {
		Demean(x)
		return
	}
	idx := make([]float64, len(x))
	for i := range idx {
		idx[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(idx, x, nil, false)
	for i := range x {
		x[i] -= alpha + beta*idx[i]
	}
}

// Integrate replaces x with its running trapezoidal integral, starting at 0.
func Integrate(x []float64, dt float64) {
	if len(x) == 0 {
		return
	}
	prev := x[0]
	x[0] = 0
	for i := 1; i < len(x); i++ {
		cur := x[i]
		x[i] = x[i-1] + 0.5*(prev+cur)*dt
		prev = cur
	}
}

// Decimate low-passes x below 0.8 of the new Nyquist frequency and keeps
// every factor-th sample.
func Decimate(x []float64, fs float64, factor int) ([]float64, error) {
	if factor <= 1 {
		return x, nil
	}
	out := make([]float64, len(x))
	copy(out, x)
	corner := 0.8 * fs / 2 / float64(factor)
	lp, err := Lowpass(corner, fs, DefaultCorners)
	if err != nil {
		return nil, fmt.Errorf("decimate by %d: %w", factor, err)
	}
	lp.ApplyZeroPhase(out)

	kept := make([]float64, 0, len(out)/factor+1)
	for i := 0; i < len(out); i += factor {
		kept = append(kept, out[i])
	}
	return kept, nil
}

// MaxAbs is the largest absolute value in x.
func MaxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// PeakToPeak is max(x) - min(x).
func PeakToPeak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Max(x) - floats.Min(x)
}

// RMS is the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(x, x) / float64(len(x)))
}

// NormalizeGlobal divides every series by the largest absolute value over
// all of them, so they keep their relative amplitudes.
func NormalizeGlobal(series ...[]float64) {
	var m float64
	for _, x := range series {
		m = math.Max(m, MaxAbs(x))
	}
	if m == 0 {
		return
	}
	for _, x := range series {
		floats.Scale(1/m, x)
	}
}

// RMSChunks computes the RMS of consecutive chunks of n samples. centers
// holds the index of each chunk's middle.
func RMSChunks(x []float64, n int) (rms, centers []float64) {
	if n <= 0 {
		return nil, nil
	}
	for i := 0; i < len(x); i += n {
		end := i + n
		if end > len(x) {
			end = len(x)
		}
		rms = append(rms, RMS(x[i:end]))
		centers = append(centers, float64(i)+0.5*float64(n))
	}
	return rms, centers
}

// NextPow2 is the smallest power of two >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
