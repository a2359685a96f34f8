// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// AmplitudeSpectrum returns the one-sided amplitude spectrum of x, zero
// padded to a power of two.
func AmplitudeSpectrum(x []float64, fs float64) (freqs, amps []float64) {
	if len(x) == 0 {
		return nil, nil
	}
	n := NextPow2(len(x))
	padded := make([]float64, n)
	copy(padded, x)
	coeffs := fourier.NewFFT(n).Coefficients(nil, padded)

	freqs = make([]float64, len(coeffs))
	amps = make([]float64, len(coeffs))
	for i, c := range coeffs {
		freqs[i] = float64(i) * fs / float64(n)
		amps[i] = 2 * cmplx.Abs(c) / float64(len(x))
	}
	amps[0] /= 2
	return freqs, amps
}

// Spectrogram is a short time Fourier power estimate. Power[i][j] is the
// power at Times[i] and Freqs[j].
type Spectrogram struct {
	Times []float64
	Freqs []float64
	Power [][]float64
}

// NewSpectrogram computes Hann-windowed segments of nperseg samples
// overlapping by noverlap, scaled as a power spectrum.
func NewSpectrogram(x []float64, fs float64, nperseg, noverlap int) *Spectrogram {
	if nperseg > len(x) {
		nperseg = len(x)
	}
	if nperseg < 2 {
		return &Spectrogram{}
	}
	if noverlap >= nperseg || noverlap < 0 {
		noverlap = nperseg / 2
	}
	step := nperseg - noverlap

	win := make([]float64, nperseg)
	for i := range win {
		win[i] = 1
	}
	window.Hann(win)
	scale := 1 / math.Pow(floats.Sum(win), 2)

	fft := fourier.NewFFT(nperseg)
	nfreq := nperseg/2 + 1
	sg := &Spectrogram{Freqs: make([]float64, nfreq)}
	for j := range sg.Freqs {
		sg.Freqs[j] = float64(j) * fs / float64(nperseg)
	}

	seg := make([]float64, nperseg)
	coeffs := make([]complex128, nfreq)
	for start := 0; start+nperseg <= len(x); start += step {
		copy(seg, x[start:start+nperseg])
		Demean(seg)
		floats.Mul(seg, win)
		coeffs = fft.Coefficients(coeffs, seg)

		row := make([]float64, nfreq)
		for j, c := range coeffs {
			p := real(c)*real(c) + imag(c)*imag(c)
			p *= scale
			if j != 0 && !(nperseg%2 == 0 && j == nfreq-1) {
				p *= 2
			}
			row[j] = p
		}
		sg.Power = append(sg.Power, row)
		sg.Times = append(sg.Times, (float64(start)+float64(nperseg)/2)/fs)
	}
	return sg
}

// LogFrequencies returns n frequencies spaced evenly in log between fmin and
// fmax.
func LogFrequencies(fmin, fmax float64, n int) []float64 {
	if n == 1 {
		return []float64{fmin}
	}
	out := make([]float64, n)
	lmin, lmax := math.Log10(fmin), math.Log10(fmax)
	for i := range out {
		out[i] = math.Pow(10, lmin+(lmax-lmin)*float64(i)/float64(n-1))
	}
	return out
}

// MorletTFR is the modulus of the continuous wavelet transform of x with a
// Morlet wavelet of central frequency w0, at nf frequencies from fmin to
// fmax. The result is indexed [frequency][sample].
func MorletTFR(x []float64, dt, fmin, fmax, w0 float64, nf int) (freqs []float64, tfr [][]float64) {
	n := len(x)
	if n == 0 || nf <= 0 || fmin <= 0 || fmax <= fmin {
		return nil, nil
	}
	npts := 2 * n
	tmax := float64(npts-1) * dt
	nfft := 2 * NextPow2(npts)
	fft := fourier.NewCmplxFFT(nfft)

	sig := make([]complex128, nfft)
	for i, v := range x {
		sig[i] = complex(v, 0)
	}
	sf := fft.Coefficients(nil, sig)

	tmin := int(tmax / 2 / dt)
	freqs = LogFrequencies(fmin, fmax, nf)
	tfr = make([][]float64, nf)
	psih := make([]complex128, nfft)
	prod := make([]complex128, nfft)
	norm := math.Pow(math.Pi, -0.25)
	for k, f := range freqs {
		a := w0 / (2 * math.Pi * f)
		for i := range psih {
			psih[i] = 0
		}
		for i := 0; i < npts; i++ {
			t := -(float64(i)*dt - tmax/2) / a
			psi := complex(norm*math.Exp(-t*t/2), 0) * cmplx.Exp(complex(0, w0*t))
			psih[i] = cmplx.Conj(psi) / complex(math.Sqrt(math.Abs(a)), 0)
		}
		psihf := fft.Coefficients(nil, psih)
		for i := range prod {
			prod[i] = psihf[i] * sf[i]
		}
		conv := fft.Sequence(nil, prod)

		row := make([]float64, n)
		for i := 0; i < n; i++ {
			row[i] = cmplx.Abs(conv[tmin+i]/complex(float64(nfft), 0)) * dt
		}
		tfr[k] = row
	}
	return freqs, tfr
}
