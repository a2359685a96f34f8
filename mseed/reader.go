// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package mseed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mvo-seismic/getnplot/seis"
)

// Read decodes every data record in r and merges contiguous records of the
// same channel into one trace.
func Read(r io.Reader) (seis.Stream, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var st seis.Stream
	for off := 0; off+fixedHeaderSize <= len(buf); {
		h, err := parseHeader(buf[off:])
		if err != nil {
			return nil, fmt.Errorf("record at byte %d: %w", off, err)
		}
		if h.recordLength < fixedHeaderSize || off+h.recordLength > len(buf) {
			return nil, fmt.Errorf("record at byte %d: bad record length %d", off, h.recordLength)
		}
		rec := buf[off : off+h.recordLength]
		off += h.recordLength

		if !h.isData() || h.nsamples == 0 {
			continue
		}
		data, err := decode(rec, h)
		if err != nil && !errors.Is(err, ErrIntegrity) {
			return nil, fmt.Errorf("record %d of %s.%s.%s.%s: %w",
				h.seq, h.network, h.station, h.location, h.channel, err)
		}
		st = append(st, &seis.Trace{
			Stats: seis.Stats{
				Network:      h.network,
				Station:      h.station,
				Location:     h.location,
				Channel:      h.channel,
				StartTime:    h.start,
				SamplingRate: h.samplingRate(),
			},
			Data: data,
		})
	}
	return st.Merge(), nil
}

func decode(rec []byte, h *header) ([]float64, error) {
	if h.dataOffset < fixedHeaderSize || h.dataOffset > len(rec) {
		return nil, fmt.Errorf("bad data offset %d", h.dataOffset)
	}
	payload := rec[h.dataOffset:]
	var order binary.ByteOrder = binary.LittleEndian
	if h.bigEndian {
		order = binary.BigEndian
	}

	width := 0
	switch h.encoding {
	case EncodingInt16:
		width = 2
	case EncodingInt32, EncodingFloat32:
		width = 4
	case EncodingFloat64:
		width = 8
	case EncodingSteim1:
		return decodeSteim(payload, h.nsamples, 1, order)
	case EncodingSteim2:
		return decodeSteim(payload, h.nsamples, 2, order)
	default:
		return nil, fmt.Errorf("unsupported encoding %v", h.encoding)
	}
	if len(payload) < width*h.nsamples {
		return nil, fmt.Errorf("%v payload holds %d bytes, need %d", h.encoding, len(payload), width*h.nsamples)
	}

	out := make([]float64, h.nsamples)
	for i := range out {
		b := payload[i*width : (i+1)*width]
		switch h.encoding {
		case EncodingInt16:
			out[i] = float64(int16(order.Uint16(b)))
		case EncodingInt32:
			out[i] = float64(int32(order.Uint32(b)))
		case EncodingFloat32:
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case EncodingFloat64:
			out[i] = math.Float64frombits(order.Uint64(b))
		}
	}
	return out, nil
}
