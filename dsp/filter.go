// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package dsp implements the signal processing applied to traces before
// plotting: detrending, Butterworth filters, integration, decimation and
// the spectral estimates behind the spectrogram-style plots.
package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// DefaultCorners is the Butterworth order used by the processing chain.
const DefaultCorners = 4

type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (q biquad) response(z complex128) complex128 {
	zi := 1 / z
	num := complex(q.b0, 0) + complex(q.b1, 0)*zi + complex(q.b2, 0)*zi*zi
	den := 1 + complex(q.a1, 0)*zi + complex(q.a2, 0)*zi*zi
	return num / den
}

// Filter is a cascade of second order sections.
type Filter struct {
	sections []biquad
}

// Response evaluates the filter's complex gain at frequency f for sampling
// rate fs.
func (f *Filter) Response(freq, fs float64) complex128 {
	z := cmplx.Exp(complex(0, 2*math.Pi*freq/fs))
	h := complex(1, 0)
	for _, q := range f.sections {
		h *= q.response(z)
	}
	return h
}

// Apply filters x in place, causally.
func (f *Filter) Apply(x []float64) {
	for _, q := range f.sections {
		var z1, z2 float64
		for i, v := range x {
			y := q.b0*v + z1
			z1 = q.b1*v - q.a1*y + z2
			z2 = q.b2*v - q.a2*y
			x[i] = y
		}
	}
}

// ApplyZeroPhase filters x forwards and backwards.
func (f *Filter) ApplyZeroPhase(x []float64) {
	f.Apply(x)
	reverse(x)
	f.Apply(x)
	reverse(x)
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

// prototype returns the left half plane poles of the order n analog
// Butterworth low-pass with unit cut-off.
func prototype(n int) []complex128 {
	poles := make([]complex128, n)
	for k := 1; k <= n; k++ {
		theta := math.Pi * float64(2*k+n-1) / float64(2*n)
		poles[k-1] = cmplx.Exp(complex(0, theta))
	}
	return poles
}

func bilinear(s complex128, fs float64) complex128 {
	return (complex(2*fs, 0) + s) / (complex(2*fs, 0) - s)
}

func prewarp(freq, fs float64) float64 {
	return 2 * fs * math.Tan(math.Pi*freq/fs)
}

// sections pairs conjugate digital poles into biquads with the numerator
// given. A lone real pole becomes a first order section using num1.
func sections(poles []complex128, num2, num1 [3]float64) []biquad {
	sort.Slice(poles, func(i, j int) bool { return imag(poles[i]) > imag(poles[j]) })
	var qs []biquad
	var reals []float64
	for _, p := range poles {
		switch {
		case imag(p) > 1e-12:
			qs = append(qs, biquad{
				b0: num2[0], b1: num2[1], b2: num2[2],
				a1: -2 * real(p), a2: real(p)*real(p) + imag(p)*imag(p),
			})
		case math.Abs(imag(p)) <= 1e-12:
			reals = append(reals, real(p))
		}
	}
	for i := 0; i+1 < len(reals); i += 2 {
		qs = append(qs, biquad{
			b0: num2[0], b1: num2[1], b2: num2[2],
			a1: -(reals[i] + reals[i+1]), a2: reals[i] * reals[i+1],
		})
	}
	if len(reals)%2 == 1 {
		qs = append(qs, biquad{b0: num1[0], b1: num1[1], a1: -reals[len(reals)-1]})
	}
	return qs
}

func (f *Filter) normalize(freq, fs float64) {
	g := cmplx.Abs(f.Response(freq, fs))
	if g == 0 || len(f.sections) == 0 {
		return
	}
	f.sections[0].b0 /= g
	f.sections[0].b1 /= g
	f.sections[0].b2 /= g
}

// Lowpass designs an order n Butterworth low-pass at freq Hz.
func Lowpass(freq, fs float64, n int) (*Filter, error) {
	if err := checkCorner(freq, fs); err != nil {
		return nil, err
	}
	wc := prewarp(freq, fs)
	var poles []complex128
	for _, p := range prototype(n) {
		poles = append(poles, bilinear(p*complex(wc, 0), fs))
	}
	f := &Filter{sections: sections(poles, [3]float64{1, 2, 1}, [3]float64{1, 1, 0})}
	f.normalize(0, fs)
	return f, nil
}

// Highpass designs an order n Butterworth high-pass at freq Hz.
func Highpass(freq, fs float64, n int) (*Filter, error) {
	if err := checkCorner(freq, fs); err != nil {
		return nil, err
	}
	wc := prewarp(freq, fs)
	var poles []complex128
	for _, p := range prototype(n) {
		poles = append(poles, bilinear(complex(wc, 0)/p, fs))
	}
	f := &Filter{sections: sections(poles, [3]float64{1, -2, 1}, [3]float64{1, -1, 0})}
	f.normalize(fs/2, fs)
	return f, nil
}

// Bandpass designs an order n Butterworth band-pass between fmin and fmax.
func Bandpass(fmin, fmax, fs float64, n int) (*Filter, error) {
	if err := checkCorner(fmin, fs); err != nil {
		return nil, err
	}
	if err := checkCorner(fmax, fs); err != nil {
		return nil, err
	}
	if fmin >= fmax {
		return nil, fmt.Errorf("band-pass corners %v >= %v", fmin, fmax)
	}
	wl := prewarp(fmin, fs)
	wh := prewarp(fmax, fs)
	bw := complex(wh-wl, 0)
	w0sq := complex(wl*wh, 0)
	var poles []complex128
	for _, p := range prototype(n) {
		pb := p * bw
		disc := cmplx.Sqrt(pb*pb - 4*w0sq)
		poles = append(poles, bilinear((pb+disc)/2, fs), bilinear((pb-disc)/2, fs))
	}
	f := &Filter{sections: sections(poles, [3]float64{1, 0, -1}, [3]float64{1, 0, -1})}
	center := math.Atan(math.Sqrt(wl*wh)/(2*fs)) * fs / math.Pi
	f.normalize(center, fs)
	return f, nil
}

func checkCorner(freq, fs float64) error {
	if fs <= 0 {
		return fmt.Errorf("sampling rate %v", fs)
	}
	if freq <= 0 || freq >= fs/2 {
		return fmt.Errorf("corner %v Hz outside (0, %v) Hz", freq, fs/2)
	}
	return nil
}
