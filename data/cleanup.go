// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"go.uber.org/zap"

	"github.com/mvo-seismic/getnplot/seis"
)

// FixIDs rewrites the ids of traces read from SEISAN files, which carry no
// network code. It does nothing when the first trace has a network.
func FixIDs(st seis.Stream, logger *zap.SugaredLogger) seis.Stream {
	if len(st) == 0 || st[0].Network != "" {
		return st
	}
	st.FixSeisanIDs(func(from, to string) {
		logger.Infow("changing code", "from", from, "to", to)
	})
	return st
}

// KeepWanted trims the stream to the window and keeps only the wanted ids.
func KeepWanted(st seis.Stream, w seis.Window, wanted []string) seis.Stream {
	return st.Trim(w.Start, w.End).SelectIDs(wanted)
}
