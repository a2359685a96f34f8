// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvo-seismic/getnplot/seis"
)

func TestPlotName(t *testing.T) {
	day := time.Date(2023, 6, 9, 0, 0, 0, 0, time.UTC)

	stats, err := seis.ParseID("MV.MSS1..SHZ")
	require.NoError(t, err)
	assert.Equal(t, "MSS1_SHZ_MV_--.20230609.png", plotName(stats, day))

	stats, err = seis.ParseID("MV.MBLG.00.HHZ")
	require.NoError(t, err)
	assert.Equal(t, "MBLG_HHZ_MV_00.20230609.png", plotName(stats, day))
}
