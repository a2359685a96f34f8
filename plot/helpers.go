// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"math"
)

// MakeSmoother returns an exponential moving average with weight alpha for
// each new value.
func MakeSmoother(alpha, init float64) func(float64) float64 {
	inv_alpha := 1.0 - alpha
	val := init
	return func(newVal float64) float64 {
		val = inv_alpha*val + alpha*newVal
		return val
	}
}

// Smooth runs MakeSmoother over x.
func Smooth(x []float64, alpha float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	s := MakeSmoother(alpha, x[0])
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = s(v)
	}
	return out
}

// ZScale returns the transform applied to spectral power before it is
// coloured: amp, power, log (decibels) or sqrt (square root of amplitude).
func ZScale(name string) func(float64) float64 {
	switch name {
	case "power":
		return func(p float64) float64 { return p }
	case "log":
		return func(p float64) float64 {
			if p <= 1e-20 {
				return -200
			}
			return 10 * math.Log10(p)
		}
	case "amp":
		return math.Sqrt
	}
	return func(p float64) float64 { return math.Sqrt(math.Sqrt(p)) }
}

// TimeUnit gives the divisor from seconds and the axis label for a time
// scale of s, m or h.
func TimeUnit(tscale string) (float64, string) {
	switch tscale {
	case "m":
		return 60, "Time (minutes)"
	case "h":
		return 3600, "Time (hours)"
	}
	return 1, "Time (seconds)"
}
