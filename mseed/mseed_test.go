// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package mseed

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvo-seismic/getnplot/seis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2020, 11, 8, 3, 40, 0, 123456000, time.UTC)

func testTrace(id string, n int, rate float64) *seis.Trace {
	stats, _ := seis.ParseID(id)
	stats.StartTime = start
	stats.SamplingRate = rate
	data := make([]float64, n)
	for i := range data {
		data[i] = float64((i*37)%2001 - 1000)
	}
	return &seis.Trace{Stats: stats, Data: data}
}

func TestRoundTripPreservesHeader(t *testing.T) {
	st := seis.Stream{
		testTrace("MV.MBLY.00.HHZ", 2500, 100),
		testTrace("MV.MSS1..SHZ", 700, 75),
		testTrace("MC.AIRS..BLZ", 30, 0.1),
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, st, EncodingInt32))
	assert.Equal(t, 0, buf.Len()%defaultRecordSize)

	got, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := make(map[string]*seis.Trace)
	for _, tr := range got {
		byID[tr.ID()] = tr
	}
	for _, want := range st {
		tr, ok := byID[want.ID()]
		require.True(t, ok, want.ID())
		assert.Equal(t, want.Network, tr.Network)
		assert.Equal(t, want.Station, tr.Station)
		assert.Equal(t, want.Location, tr.Location)
		assert.Equal(t, want.Channel, tr.Channel)
		assert.True(t, want.StartTime.Equal(tr.StartTime), "%v != %v", want.StartTime, tr.StartTime)
		assert.InDelta(t, want.SamplingRate, tr.SamplingRate, 1e-9)
		assert.Equal(t, want.Npts(), tr.Npts())
		assert.Equal(t, want.Data, tr.Data)
	}
}

func TestRoundTripFile(t *testing.T) {
	fileOut := filepath.Join(t.TempDir(), "test.mseed")
	f, err := os.Create(fileOut)
	require.NoError(t, err)
	require.NoError(t, Write(f, seis.Stream{testTrace("MV.MBFR..BHZ", 100, 50)}, EncodingFloat32))
	require.NoError(t, f.Close())

	f, err = os.Open(fileOut)
	require.NoError(t, err)
	defer f.Close()
	st, err := Read(f)
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, "MV.MBFR..BHZ", st[0].ID())
	assert.Equal(t, 50.0, st[0].SamplingRate)
	assert.Equal(t, -1000.0, st[0].Data[0])
}

func TestWriteTruncatesToInt32(t *testing.T) {
	tr := testTrace("MV.MSS1..SHZ", 3, 100)
	tr.Data = []float64{1.9, -1.9, 3e10}
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, seis.Stream{tr}, EncodingInt32))
	st, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1, 2147483647}, st[0].Data)
}

func TestRateFactors(t *testing.T) {
	for _, rate := range []float64{100, 40, 1, 0.1, 0.05, 2.5, 18.75} {
		f, m := rateFactors(rate)
		h := header{rateFactor: f, rateMult: m}
		assert.InDelta(t, rate, h.samplingRate(), 1e-9, "rate %v", rate)
	}
}

// steimRecord rewrites a record made by Writer so that it carries one Steim
// frame instead of int32 samples.
func steimRecord(t *testing.T, enc Encoding, nsamples int, frame [16]uint32) []byte {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, seis.Stream{testTrace("MV.MBGH..BHZ", 1, 100)}, EncodingInt32))
	rec := buf.Bytes()
	rec[52] = byte(enc)
	binary.BigEndian.PutUint16(rec[30:32], uint16(nsamples))
	for i := dataOffset; i < len(rec); i++ {
		rec[i] = 0
	}
	for i, w := range frame {
		binary.BigEndian.PutUint32(rec[dataOffset+4*i:], w)
	}
	return rec
}

func TestSteim1(t *testing.T) {
	var frame [16]uint32
	frame[0] = 1<<24 | 3<<22
	frame[1] = 10
	frame[2] = 100
	frame[3] = 0x0002fd00
	frame[4] = 91

	st, err := Read(bytes.NewReader(steimRecord(t, EncodingSteim1, 5, frame)))
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, []float64{10, 12, 9, 9, 100}, st[0].Data)
}

func TestSteim2(t *testing.T) {
	neg4 := uint32(0x7fff) & uint32(0xfffffffc)
	var frame [16]uint32
	frame[0] = 1<<24 | 2<<22
	frame[1] = 5
	frame[2] = 3
	frame[3] = 0x0001fe00
	frame[4] = 2<<30 | 3<<15 | neg4

	st, err := Read(bytes.NewReader(steimRecord(t, EncodingSteim2, 6, frame)))
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, []float64{5, 6, 4, 4, 7, 3}, st[0].Data)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader(bytes.Repeat([]byte{0xff}, 128)))
	assert.Error(t, err)
}
