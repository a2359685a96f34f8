// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"github.com/mvo-seismic/getnplot/seis"
)

type StreamProcessor func(seis.Stream) (seis.Stream, error)

// StreamOp transforms the whole stream at once.
type StreamOp struct {
	Description     string
	StreamProcessor StreamProcessor
}

func (o StreamOp) GetDescription() string {
	return o.Description
}

func (o StreamOp) Run(st seis.Stream) (seis.Stream, error) {
	return o.StreamProcessor(st)
}
