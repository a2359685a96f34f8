// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/seis"
)

// PlotNetwork is the network code that orders a trace on the plot: its
// 1-based position, two digits.
func PlotNetwork(position int) string {
	return fmt.Sprintf("%02d", position)
}

// componentSlot is the offset of a channel within a station's triple.
func componentSlot(channel string) int {
	switch {
	case strings.HasSuffix(channel, "Z"):
		return 1
	case strings.HasSuffix(channel, "1"), strings.HasSuffix(channel, "E"):
		return 2
	case strings.HasSuffix(channel, "2"), strings.HasSuffix(channel, "N"):
		return 3
	}
	return 0
}

// SelectChannels picks the traces a plot shows for each station and class.
// Each trace's network becomes its plot position. Stations without data
// get a dummy trace for the z and h classes and are skipped for 3c.
func SelectChannels(st seis.Stream, stations []string, class string, start time.Time) seis.Stream {
	var out seis.Stream
	pos := 0
	for _, sta := range stations {
		switch class {
		case catalogue.Class3C:
			triple := st.Select(seis.Selector{Station: sta, Channel: "HH*"})
			if len(triple) != 3 {
				triple = st.Select(seis.Selector{Station: sta, Channel: "BH*"})
			}
			if len(triple) == 3 {
				for _, tr := range triple {
					tr = tr.Copy()
					tr.Network = PlotNetwork(pos + componentSlot(tr.Channel))
					out = append(out, tr)
				}
				pos += 3
				continue
			}
			single := st.Select(seis.Selector{Station: sta, Channel: "SHZ"})
			if len(single) != 1 {
				single = st.Select(seis.Selector{Station: sta, Channel: "BLZ"})
			}
			if len(single) == 1 {
				pos++
				tr := single[0].Copy()
				tr.Network = PlotNetwork(pos)
				out = append(out, tr)
			}
		default:
			pos++
			sel := seis.Selector{Station: sta, Component: "Z"}
			if class == catalogue.ClassH {
				sel = seis.Selector{Station: sta, Channel: "HDF"}
			}
			var tr *seis.Trace
			if found := st.Select(sel); len(found) > 0 {
				tr = found[0].Copy()
			} else {
				tr = seis.NewDummyTrace(sta, start)
			}
			tr.Network = PlotNetwork(pos)
			out = append(out, tr)
		}
	}
	out.SortByNetwork()
	return out
}
