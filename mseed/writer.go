// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package mseed

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/mvo-seismic/getnplot/seis"
)

// Writer emits 4096-byte big-endian data records with blockettes 1000 and
// 1001.
type Writer struct {
	Encoding Encoding

	w   io.Writer
	seq int
}

func NewWriter(w io.Writer, enc Encoding) *Writer {
	return &Writer{Encoding: enc, w: w}
}

// Write encodes st into w.
func Write(w io.Writer, st seis.Stream, enc Encoding) error {
	mw := NewWriter(w, enc)
	for _, tr := range st {
		if err := mw.WriteTrace(tr); err != nil {
			return err
		}
	}
	return nil
}

func (mw *Writer) WriteTrace(tr *seis.Trace) error {
	if mw.Encoding != EncodingInt32 && mw.Encoding != EncodingFloat32 {
		return fmt.Errorf("cannot write %v records", mw.Encoding)
	}
	if tr.SamplingRate <= 0 {
		return fmt.Errorf("%s: sampling rate %v", tr.ID(), tr.SamplingRate)
	}
	perRecord := (defaultRecordSize - dataOffset) / 4
	for first := 0; first < len(tr.Data); first += perRecord {
		last := first + perRecord
		if last > len(tr.Data) {
			last = len(tr.Data)
		}
		mw.seq = mw.seq%999999 + 1
		rec := mw.record(tr, first, tr.Data[first:last])
		if _, err := mw.w.Write(rec); err != nil {
			return fmt.Errorf("writing %s: %w", tr.ID(), err)
		}
	}
	return nil
}

func (mw *Writer) record(tr *seis.Trace, first int, samples []float64) []byte {
	order := binary.BigEndian
	rec := make([]byte, defaultRecordSize)

	copy(rec[0:6], fmt.Sprintf("%06d", mw.seq))
	rec[6] = 'D'
	rec[7] = ' '
	copy(rec[8:13], padCode(tr.Station, 5))
	copy(rec[13:15], padCode(tr.Location, 2))
	copy(rec[15:18], padCode(tr.Channel, 3))
	copy(rec[18:20], padCode(tr.Network, 2))

	start := tr.TimeAt(first).UTC()
	order.PutUint16(rec[20:22], uint16(start.Year()))
	order.PutUint16(rec[22:24], uint16(start.YearDay()))
	rec[24] = byte(start.Hour())
	rec[25] = byte(start.Minute())
	rec[26] = byte(start.Second())
	micros := start.Nanosecond() / int(time.Microsecond)
	order.PutUint16(rec[28:30], uint16(micros/100))

	order.PutUint16(rec[30:32], uint16(len(samples)))
	factor, mult := rateFactors(tr.SamplingRate)
	order.PutUint16(rec[32:34], uint16(factor))
	order.PutUint16(rec[34:36], uint16(mult))
	rec[39] = 2
	order.PutUint16(rec[44:46], dataOffset)
	order.PutUint16(rec[46:48], fixedHeaderSize)

	// blockette 1000
	order.PutUint16(rec[48:50], 1000)
	order.PutUint16(rec[50:52], 56)
	rec[52] = byte(mw.Encoding)
	rec[53] = 1
	rec[54] = recordSizeExp

	// blockette 1001
	order.PutUint16(rec[56:58], 1001)
	order.PutUint16(rec[58:60], 0)
	rec[60] = 100
	rec[61] = byte(int8(micros % 100))

	for i, v := range samples {
		b := rec[dataOffset+4*i : dataOffset+4*i+4]
		if mw.Encoding == EncodingFloat32 {
			order.PutUint32(b, math.Float32bits(float32(v)))
		} else {
			order.PutUint32(b, uint32(toInt32(v)))
		}
	}
	return rec
}

// toInt32 truncates toward zero and saturates.
func toInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}
