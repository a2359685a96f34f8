// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package data loads waveforms from the wave server, miniseed archives and
// files, picks the channels a plot needs and runs the processing chain.
package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mvo-seismic/getnplot/seis"
)

var ErrNoStreams = errors.New("no streams loaded")

type Op interface {
	GetDescription() string
	Run(st seis.Stream) (seis.Stream, error)
}

type OpArray []Op

func (ops OpArray) Run(st seis.Stream) (seis.Stream, error) {
	var err error
	for i, o := range ops {
		st, err = o.Run(st)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, o.GetDescription(), err)
		}
	}
	return st, nil
}

// Describe lists the ops, one numbered line each.
func (ops OpArray) Describe() string {
	var desc []string
	for i, o := range ops {
		desc = append(desc, strconv.Itoa(i)+") "+o.GetDescription())
	}
	return strings.Join(desc, "\n")
}
