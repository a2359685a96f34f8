// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package seis

import (
	"math"
	"path"
	"sort"
	"time"
)

type Stream []*Trace

// Selector matches traces by glob patterns. Empty fields match anything.
type Selector struct {
	Network   string
	Station   string
	Location  string
	Channel   string
	Component string
}

func match(pattern, value string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(pattern, value)
	return err == nil && ok
}

func (sel Selector) Matches(s Stats) bool {
	return match(sel.Network, s.Network) &&
		match(sel.Station, s.Station) &&
		match(sel.Location, s.Location) &&
		match(sel.Channel, s.Channel) &&
		match(sel.Component, s.Component())
}

func (st Stream) Select(sel Selector) Stream {
	var out Stream
	for _, tr := range st {
		if sel.Matches(tr.Stats) {
			out = append(out, tr)
		}
	}
	return out
}

// SelectIDs keeps the traces whose id is wanted, in the order of ids.
func (st Stream) SelectIDs(ids []string) Stream {
	var out Stream
	for _, id := range ids {
		for _, tr := range st {
			if tr.ID() == id {
				out = append(out, tr)
			}
		}
	}
	return out
}

// Trim cuts every trace to the window and drops the empty ones.
func (st Stream) Trim(start, end time.Time) Stream {
	var out Stream
	for _, tr := range st {
		if tr.Trim(start, end) {
			out = append(out, tr)
		}
	}
	return out
}

// Merge joins traces of the same id that follow on from each other within
// half a sample. Gaps and overlaps leave separate traces.
func (st Stream) Merge() Stream {
	sorted := make(Stream, len(st))
	copy(sorted, st)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ID() != sorted[j].ID() {
			return sorted[i].ID() < sorted[j].ID()
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var out Stream
	for _, tr := range sorted {
		if len(tr.Data) == 0 {
			continue
		}
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.ID() == tr.ID() && last.SamplingRate == tr.SamplingRate {
				next := last.TimeAt(len(last.Data))
				tol := time.Duration(0.5 / tr.SamplingRate * float64(time.Second))
				if diff := tr.StartTime.Sub(next); math.Abs(float64(diff)) <= float64(tol) {
					last.Data = append(last.Data, tr.Data...)
					continue
				}
			}
		}
		out = append(out, tr.Copy())
	}
	return out
}

// SortByNetwork orders the traces on their network code, which the channel
// selection uses to carry plot position.
func (st Stream) SortByNetwork() {
	sort.SliceStable(st, func(i, j int) bool {
		return st[i].Network < st[j].Network
	})
}

// Stations lists the distinct station codes in order of appearance.
func (st Stream) Stations() []string {
	seen := make(map[string]bool)
	var stations []string
	for _, tr := range st {
		if !seen[tr.Station] {
			seen[tr.Station] = true
			stations = append(stations, tr.Station)
		}
	}
	return stations
}

// FixSeisanIDs rewrites the ids of traces read from SEISAN files, which come
// without a network and with the component in the location field.
func (st Stream) FixSeisanIDs(onFix func(from, to string)) {
	for _, tr := range st {
		if tr.Network != "" {
			continue
		}
		from := tr.ID()
		channel := tr.Channel + tr.Location
		if tr.Station == "MBGA" || tr.Channel == "S Z" {
			channel = "SHZ"
		}
		tr.Network = "MV"
		tr.Location = ""
		tr.Channel = channel
		if onFix != nil {
			onFix(from, tr.ID())
		}
	}
}

// MergeFill joins all traces of each id into one trace spanning them,
// filling gaps with zeros. Where traces overlap the later one wins.
func (st Stream) MergeFill() Stream {
	var out Stream
	for _, group := range st.groups() {
		first, end := group[0], group[0].EndTime()
		for _, tr := range group[1:] {
			if tr.EndTime().After(end) {
				end = tr.EndTime()
			}
		}
		n := int(math.Round(end.Sub(first.StartTime).Seconds()*first.SamplingRate)) + 1
		merged := &Trace{Stats: first.Stats, Data: make([]float64, n)}
		for _, tr := range group {
			offset := int(math.Round(tr.StartTime.Sub(first.StartTime).Seconds() * first.SamplingRate))
			for i, v := range tr.Data {
				if j := offset + i; j >= 0 && j < n {
					merged.Data[j] = v
				}
			}
		}
		out = append(out, merged)
	}
	return out
}

// groups splits the traces with data by id, each group in time order, the
// groups in order of first appearance. Rates must match within a group.
func (st Stream) groups() []Stream {
	index := make(map[string]int)
	var out []Stream
	for _, tr := range st {
		if len(tr.Data) == 0 || tr.SamplingRate <= 0 {
			continue
		}
		i, ok := index[tr.ID()]
		if !ok {
			i = len(out)
			index[tr.ID()] = i
			out = append(out, nil)
		}
		if len(out[i]) > 0 && out[i][0].SamplingRate != tr.SamplingRate {
			continue
		}
		out[i] = append(out[i], tr)
	}
	for _, g := range out {
		sort.SliceStable(g, func(a, b int) bool { return g[a].StartTime.Before(g[b].StartTime) })
	}
	return out
}
