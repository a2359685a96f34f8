// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"fmt"
	"time"

	"github.com/mvo-seismic/getnplot/seis"
)

func orAny(pattern string) string {
	if pattern == "" {
		return "*"
	}
	return pattern
}

// SDSPattern is the glob of the day file for day in an archive laid out as
// <root>/<NET>/<STA>/<YEAR>.<DOY>.<NET>.<STA>.<LOC>.<CHA>.mseed.
func SDSPattern(root string, sel seis.Selector, day time.Time) string {
	net, sta := orAny(sel.Network), orAny(sel.Station)
	loc, cha := orAny(sel.Location), orAny(sel.Channel)
	name := fmt.Sprintf("%04d.%03d.%s.%s.%s.%s.mseed", day.Year(), day.YearDay(), net, sta, loc, cha)
	return joinLocation(root, net, sta, name)
}

func joinLocation(root string, parts ...string) string {
	out := root
	for _, p := range parts {
		if len(out) > 0 && out[len(out)-1] != '/' {
			out += "/"
		}
		out += p
	}
	return out
}

// ReadSDS reads every archive day file the window touches that matches sel
// and trims the result to the window.
func ReadSDS(ctx context.Context, root string, sel seis.Selector, w seis.Window, credentials string) (seis.Stream, error) {
	if root == "" {
		return nil, fmt.Errorf("no miniseed archive configured")
	}

	var st seis.Stream
	for _, day := range w.Days() {
		files, err := ListResource(ctx, SDSPattern(root, sel, day), credentials)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			part, err := ReadMseed(ctx, f, credentials)
			if err != nil {
				return nil, err
			}
			st = append(st, part.Select(sel)...)
		}
	}
	return st.Merge().Trim(w.Start, w.End), nil
}
