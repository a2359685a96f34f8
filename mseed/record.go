// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package mseed reads and writes SEED 2.4 data records (miniseed).
package mseed

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// Encoding is the data encoding format code of blockette 1000.
type Encoding uint8

const (
	EncodingInt16   Encoding = 1
	EncodingInt32   Encoding = 3
	EncodingFloat32 Encoding = 4
	EncodingFloat64 Encoding = 5
	EncodingSteim1  Encoding = 10
	EncodingSteim2  Encoding = 11
)

func (e Encoding) String() string {
	switch e {
	case EncodingInt16:
		return "INT16"
	case EncodingInt32:
		return "INT32"
	case EncodingFloat32:
		return "FLOAT32"
	case EncodingFloat64:
		return "FLOAT64"
	case EncodingSteim1:
		return "STEIM1"
	case EncodingSteim2:
		return "STEIM2"
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

const (
	fixedHeaderSize   = 48
	defaultRecordSize = 4096
	recordSizeExp     = 12
	dataOffset        = 64
	frameSize         = 64
)

// header is the fixed section of a data record plus what the blockettes add.
type header struct {
	seq          int
	quality      byte
	station      string
	location     string
	channel      string
	network      string
	start        time.Time
	nsamples     int
	rateFactor   int16
	rateMult     int16
	activity     uint8
	nblockettes  uint8
	timeCorr     int32
	dataOffset   int
	firstBlkt    int
	encoding     Encoding
	bigEndian    bool
	recordLength int
	hasB1000     bool
}

func (h *header) samplingRate() float64 {
	f := float64(h.rateFactor)
	m := float64(h.rateMult)
	switch {
	case f == 0 || m == 0:
		return 0
	case f > 0 && m > 0:
		return f * m
	case f > 0 && m < 0:
		return -f / m
	case f < 0 && m > 0:
		return -m / f
	default:
		return 1 / (f * m)
	}
}

// rateFactors picks the factor and multiplier that express rate exactly, or
// as closely as an int16 pair allows.
func rateFactors(rate float64) (int16, int16) {
	if rate <= 0 {
		return 0, 0
	}
	if rate >= 1 && rate <= math.MaxInt16 && rate == math.Trunc(rate) {
		return int16(rate), 1
	}
	if period := 1 / rate; period <= math.MaxInt16 && math.Abs(period-math.Round(period)) < 1e-9 {
		return -int16(math.Round(period)), 1
	}
	bestF, bestM := int16(0), int16(0)
	bestErr := math.Inf(1)
	for d := 1; d <= math.MaxInt16; d++ {
		f := math.Round(rate * float64(d))
		if f < 1 || f > math.MaxInt16 {
			if f > math.MaxInt16 {
				break
			}
			continue
		}
		if e := math.Abs(f/float64(d) - rate); e < bestErr {
			bestF, bestM, bestErr = int16(f), -int16(d), e
			if e < 1e-12 {
				break
			}
		}
	}
	return bestF, bestM
}

func trimCode(b []byte) string {
	return strings.TrimSpace(string(b))
}

func padCode(s string, n int) []byte {
	b := []byte(strings.Repeat(" ", n))
	copy(b, s)
	return b
}

// parseHeader decodes the fixed header and blockettes 1000 and 1001 of the
// record starting at rec.
func parseHeader(rec []byte) (*header, error) {
	if len(rec) < fixedHeaderSize {
		return nil, fmt.Errorf("short record header: %d bytes", len(rec))
	}
	var order binary.ByteOrder = binary.BigEndian
	if year := order.Uint16(rec[20:22]); year < 1900 || year > 2500 {
		order = binary.LittleEndian
		if year = order.Uint16(rec[20:22]); year < 1900 || year > 2500 {
			return nil, fmt.Errorf("cannot detect header byte order")
		}
	}

	h := &header{
		quality:     rec[6],
		station:     trimCode(rec[8:13]),
		location:    trimCode(rec[13:15]),
		channel:     trimCode(rec[15:18]),
		network:     trimCode(rec[18:20]),
		nsamples:    int(order.Uint16(rec[30:32])),
		rateFactor:  int16(order.Uint16(rec[32:34])),
		rateMult:    int16(order.Uint16(rec[34:36])),
		activity:    rec[36],
		nblockettes: rec[39],
		timeCorr:    int32(order.Uint32(rec[40:44])),
		dataOffset:  int(order.Uint16(rec[44:46])),
		firstBlkt:   int(order.Uint16(rec[46:48])),
		bigEndian:   true,
	}
	fmt.Sscanf(string(rec[0:6]), "%d", &h.seq)

	year := int(order.Uint16(rec[20:22]))
	doy := int(order.Uint16(rec[22:24]))
	fract := int(order.Uint16(rec[28:30]))
	h.start = time.Date(year, 1, 1, int(rec[24]), int(rec[25]), int(rec[26]), fract*100000, time.UTC).
		AddDate(0, 0, doy-1)
	if h.activity&0x02 == 0 && h.timeCorr != 0 {
		h.start = h.start.Add(time.Duration(h.timeCorr) * 100 * time.Microsecond)
	}

	next := h.firstBlkt
	for i := 0; i < int(h.nblockettes) && next >= fixedHeaderSize && next+4 <= len(rec); i++ {
		btype := order.Uint16(rec[next : next+2])
		following := int(order.Uint16(rec[next+2 : next+4]))
		switch btype {
		case 1000:
			if next+8 > len(rec) {
				return nil, fmt.Errorf("truncated blockette 1000")
			}
			h.encoding = Encoding(rec[next+4])
			h.bigEndian = rec[next+5] == 1
			h.recordLength = 1 << rec[next+6]
			h.hasB1000 = true
		case 1001:
			if next+8 > len(rec) {
				return nil, fmt.Errorf("truncated blockette 1001")
			}
			h.start = h.start.Add(time.Duration(int8(rec[next+5])) * time.Microsecond)
		}
		if following <= next {
			break
		}
		next = following
	}

	if !h.hasB1000 {
		return nil, fmt.Errorf("record %d of %s.%s has no blockette 1000", h.seq, h.network, h.station)
	}
	return h, nil
}

// isData reports whether the quality indicator marks a data record.
func (h *header) isData() bool {
	switch h.quality {
	case 'D', 'R', 'Q', 'M':
		return true
	}
	return false
}
