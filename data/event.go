// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"fmt"

	"github.com/mvo-seismic/getnplot/seis"
)

type TraceProcessor func(*seis.Trace) error

// TraceOp applies its processor to every trace in place.
type TraceOp struct {
	Description    string
	TraceProcessor TraceProcessor
}

func (o TraceOp) GetDescription() string {
	return o.Description
}

func (o TraceOp) Run(st seis.Stream) (seis.Stream, error) {
	for _, tr := range st {
		if err := o.TraceProcessor(tr); err != nil {
			return nil, fmt.Errorf("%s: %w", tr.ID(), err)
		}
	}
	return st, nil
}
