// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"fmt"

	"github.com/mvo-seismic/getnplot/mseed"
	"github.com/mvo-seismic/getnplot/seis"
)

// SaveNetwork replaces the plot position codes when traces are saved.
const SaveNetwork = "MV"

// SaveMseed writes copies of the traces as int32 miniseed, with the network
// set to network when it is not empty.
func SaveMseed(ctx context.Context, location, credentials string, st seis.Stream, network string) (err error) {
	out := make(seis.Stream, len(st))
	for i, tr := range st {
		out[i] = tr.Copy()
		if network != "" {
			out[i].Network = network
		}
	}

	w, err := GetWriter(ctx, location, credentials)
	if err != nil {
		return fmt.Errorf("create %s: %w", location, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", location, cerr)
		}
	}()

	if err = mseed.Write(w, out, mseed.EncodingInt32); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	return nil
}
