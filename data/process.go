// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/dsp"
	"github.com/mvo-seismic/getnplot/seis"
)

// Band used before integrating.
const (
	IntegrateFmin = 0.003
	IntegrateFmax = 0.1
)

// Processing selects the optional steps of the processing chain.
type Processing struct {
	LPFilt     float64
	HPFilt     float64
	Integrate  bool
	Downsample int
	Mult       float64
}

func demeanOp() Op {
	return TraceOp{
		Description: "Removes the mean",
		TraceProcessor: func(tr *seis.Trace) error {
			dsp.Demean(tr.Data)
			return nil
		},
	}
}

// filterOp skips traces whose sampling rate cannot support the design, as
// the dummy traces and low rate channels of a mixed stream may not.
func filterOp(desc string, design func(fs float64) (*dsp.Filter, error)) Op {
	return TraceOp{
		Description: desc,
		TraceProcessor: func(tr *seis.Trace) error {
			f, err := design(tr.SamplingRate)
			if err != nil {
				return nil
			}
			f.Apply(tr.Data)
			return nil
		},
	}
}

// Ops builds the chain: demean, low-pass, demean, high-pass, integrate,
// decimate, demean, scale. Optional steps appear only when enabled.
func (p Processing) Ops() OpArray {
	ops := OpArray{demeanOp()}
	if p.LPFilt > 0 {
		ops = append(ops, filterOp(
			fmt.Sprintf("Low-pass filters at %g Hz", p.LPFilt),
			func(fs float64) (*dsp.Filter, error) { return dsp.Lowpass(p.LPFilt, fs, dsp.DefaultCorners) },
		))
	}
	ops = append(ops, demeanOp())
	if p.HPFilt > 0 {
		ops = append(ops, filterOp(
			fmt.Sprintf("High-pass filters at %g Hz", p.HPFilt),
			func(fs float64) (*dsp.Filter, error) { return dsp.Highpass(p.HPFilt, fs, dsp.DefaultCorners) },
		))
	}
	if p.Integrate {
		ops = append(ops,
			filterOp(
				fmt.Sprintf("Band-pass filters %g-%g Hz", IntegrateFmin, IntegrateFmax),
				func(fs float64) (*dsp.Filter, error) {
					return dsp.Bandpass(IntegrateFmin, IntegrateFmax, fs, dsp.DefaultCorners)
				},
			),
			TraceOp{
				Description: "Integrates",
				TraceProcessor: func(tr *seis.Trace) error {
					dsp.Integrate(tr.Data, 1/tr.SamplingRate)
					return nil
				},
			},
		)
	}
	if p.Downsample > 1 {
		factor := p.Downsample
		ops = append(ops, TraceOp{
			Description: fmt.Sprintf("Decimates by %d", factor),
			TraceProcessor: func(tr *seis.Trace) error {
				out, err := dsp.Decimate(tr.Data, tr.SamplingRate, factor)
				if err != nil {
					return err
				}
				tr.Data = out
				tr.SamplingRate /= float64(factor)
				return nil
			},
		})
	}
	ops = append(ops, demeanOp())
	if p.Mult != 0 && p.Mult != 1 {
		mult := p.Mult
		ops = append(ops, TraceOp{
			Description: fmt.Sprintf("Multiplies by %g", mult),
			TraceProcessor: func(tr *seis.Trace) error {
				floats.Scale(mult, tr.Data)
				return nil
			},
		})
	}
	return ops
}

// Normalize applies a normalization mode and reports whether the plot
// should share one amplitude scale. In 3c mode each station's traces are
// divided by their joint absolute maximum and stations without traces drop
// out.
func Normalize(st seis.Stream, mode string, stations []string) (seis.Stream, bool) {
	switch mode {
	case catalogue.NormYes:
		return st, true
	case catalogue.Norm3C:
		var out seis.Stream
		for _, sta := range stations {
			group := st.Select(seis.Selector{Station: sta})
			if len(group) == 0 {
				continue
			}
			series := make([][]float64, len(group))
			for i, tr := range group {
				series[i] = tr.Data
			}
			dsp.NormalizeGlobal(series...)
			out = append(out, group...)
		}
		return out, true
	}
	return st, false
}
