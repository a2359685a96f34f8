// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// FuncScale normalizes axis values through Func, e.g. Log10Min3 for a
// logarithmic frequency axis that tolerates zero.
type FuncScale struct {
	Func func(float64) float64
}

func (s *FuncScale) Normalize(min, max, x float64) float64 {
	if s.Func == nil {
		panic("s.Func is nil")
	}
	fMin := s.Func(min)
	return (s.Func(x) - fMin) / (s.Func(max) - fMin)
}

func Log10Min3(x float64) float64 {
	if x <= 0.001 {
		return -3
	}
	return math.Log10(x)
}

// RollTicks places about NSuggestedTicks labelled ticks on round values,
// with unlabelled minor ticks between them.
type RollTicks struct {
	NSuggestedTicks int
}

func (t RollTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if !(max > min) || math.IsInf(max-min, 0) {
		return nil
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens
	val := math.Floor(min/majorDelta) * majorDelta
	var labels []float64
	for val <= max {
		if val >= min {
			labels = append(labels, val)
		}
		val += majorDelta
	}
	prec := int(math.Ceil(math.Log10(math.Abs(val)+majorDelta)) - math.Floor(math.Log10(majorDelta)))
	var ticks []plot.Tick
	for _, v := range labels {
		vRounded := round(v, prec)
		ticks = append(ticks, plot.Tick{Value: vRounded, Label: formatFloatTick(vRounded, -1)})
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}
	val = math.Floor(min/minorDelta) * minorDelta
	for val <= max {
		found := false
		for _, t := range ticks {
			if math.Abs(t.Value-val) < minorDelta/1000 {
				found = true
			}
		}
		if val >= min && !found {
			ticks = append(ticks, plot.Tick{Value: val})
		}
		val += minorDelta
	}
	return ticks
}

func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}
	if x == 0 {
		return 0
	}
	return x / pow
}

// LogTicks labels each decade of a logarithmic axis and marks the values
// in between.
type LogTicks struct{}

func (LogTicks) Ticks(min, max float64) []plot.Tick {
	if !(max > min) {
		return nil
	}
	val := math.Pow10(int(math.Floor(Log10Min3(min))))
	top := math.Pow10(int(math.Ceil(Log10Min3(max))))
	var ticks []plot.Tick
	for val < top {
		for i := 1; i < 10; i++ {
			v := val * float64(i)
			if v < min || v > max {
				continue
			}
			tick := plot.Tick{Value: v}
			if i == 1 {
				tick.Label = formatFloatTick(v, 5)
			}
			ticks = append(ticks, tick)
		}
		val *= 10
	}
	if val <= max {
		ticks = append(ticks, plot.Tick{Value: val, Label: formatFloatTick(val, 5)})
	}
	return ticks
}

// ExpTicks labels an axis whose values are log10 of the quantity shown,
// such as the frequency axis of a wavelet transform.
type ExpTicks struct{}

func (ExpTicks) Ticks(min, max float64) []plot.Tick {
	if !(max > min) {
		return nil
	}
	var ticks []plot.Tick
	for dec := math.Floor(min); dec <= math.Ceil(max); dec++ {
		for _, m := range []float64{1, 2, 5} {
			v := math.Log10(m) + dec
			if v < min || v > max {
				continue
			}
			ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(m*math.Pow10(int(dec)), 5)})
		}
	}
	return ticks
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
