// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package seis holds the in-memory waveform model shared by the sources,
// the processing chain and the plots.
package seis

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Stats is the header of a trace.
type Stats struct {
	Network      string
	Station      string
	Location     string
	Channel      string
	StartTime    time.Time
	SamplingRate float64
}

// ID returns NET.STA.LOC.CHA.
func (s Stats) ID() string {
	return strings.Join([]string{s.Network, s.Station, s.Location, s.Channel}, ".")
}

// Delta is the sample interval.
func (s Stats) Delta() time.Duration {
	if s.SamplingRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.SamplingRate)
}

// Component is the last letter of the channel code.
func (s Stats) Component() string {
	if len(s.Channel) == 0 {
		return ""
	}
	return s.Channel[len(s.Channel)-1:]
}

type Trace struct {
	Stats
	Data []float64
}

// NewDummyTrace stands in for a station that returned no data so that the
// plot keeps one panel per requested station.
func NewDummyTrace(station string, start time.Time) *Trace {
	return &Trace{
		Stats: Stats{
			Station:      station,
			StartTime:    start,
			SamplingRate: 100.0,
		},
		Data: make([]float64, 2),
	}
}

func (t *Trace) Npts() int {
	return len(t.Data)
}

// EndTime is the time of the last sample.
func (t *Trace) EndTime() time.Time {
	if len(t.Data) == 0 {
		return t.StartTime
	}
	return t.TimeAt(len(t.Data) - 1)
}

// TimeAt is the time of sample i.
func (t *Trace) TimeAt(i int) time.Time {
	return t.StartTime.Add(time.Duration(float64(i) / t.SamplingRate * float64(time.Second)))
}

// Seconds returns the sample times relative to ref.
func (t *Trace) Seconds(ref time.Time) []float64 {
	offset := t.StartTime.Sub(ref).Seconds()
	secs := make([]float64, len(t.Data))
	for i := range secs {
		secs[i] = offset + float64(i)/t.SamplingRate
	}
	return secs
}

func (t *Trace) Copy() *Trace {
	data := make([]float64, len(t.Data))
	copy(data, t.Data)
	return &Trace{Stats: t.Stats, Data: data}
}

// Trim cuts the trace to the samples inside [start, end]. It reports whether
// any samples remain.
func (t *Trace) Trim(start, end time.Time) bool {
	if len(t.Data) == 0 || t.SamplingRate <= 0 {
		return false
	}
	first := 0
	if start.After(t.StartTime) {
		first = int(math.Ceil(start.Sub(t.StartTime).Seconds()*t.SamplingRate - 1e-6))
	}
	last := len(t.Data) - 1
	if end.Before(t.EndTime()) {
		last = int(math.Floor(end.Sub(t.StartTime).Seconds()*t.SamplingRate + 1e-6))
	}
	if first > last || first >= len(t.Data) || last < 0 {
		t.Data = nil
		return false
	}
	t.StartTime = t.TimeAt(first)
	t.Data = t.Data[first : last+1]
	return true
}

// ParseID splits NET.STA.LOC.CHA into its codes.
func ParseID(id string) (Stats, error) {
	chunks := strings.Split(id, ".")
	if len(chunks) != 4 {
		return Stats{}, fmt.Errorf("malformed id %q", id)
	}
	return Stats{
		Network:  chunks[0],
		Station:  chunks[1],
		Location: chunks[2],
		Channel:  chunks[3],
	}, nil
}

var ErrEmptyWindow = errors.New("window end is not after its start")

// Window is a closed time interval.
type Window struct {
	Start, End time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, ErrEmptyWindow
	}
	return Window{Start: start, End: end}, nil
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days lists the UTC midnights of every day the window touches.
func (w Window) Days() []time.Time {
	var days []time.Time
	start := w.Start.UTC()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for !day.After(w.End) {
		days = append(days, day)
		day = day.AddDate(0, 0, 1)
	}
	return days
}
