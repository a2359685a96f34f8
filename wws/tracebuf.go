// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package wws

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mvo-seismic/getnplot/seis"
)

const traceBufHeaderSize = 64

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}

// parseTraceBufs decodes back-to-back TRACEBUF2 packets. The datatype field
// carries the byte order: s and t are big-endian, i and f little-endian;
// t and f are floating point.
func parseTraceBufs(buf []byte) (seis.Stream, error) {
	var st seis.Stream
	for off := 0; off < len(buf); {
		if len(buf)-off < traceBufHeaderSize {
			return nil, fmt.Errorf("truncated tracebuf header at byte %d", off)
		}
		head := buf[off : off+traceBufHeaderSize]
		off += traceBufHeaderSize

		dtype := cString(head[57:60])
		if len(dtype) != 2 {
			return nil, fmt.Errorf("tracebuf datatype %q", dtype)
		}
		var order binary.ByteOrder
		switch dtype[0] {
		case 's', 't':
			order = binary.BigEndian
		case 'i', 'f':
			order = binary.LittleEndian
		default:
			return nil, fmt.Errorf("tracebuf datatype %q", dtype)
		}
		isFloat := dtype[0] == 't' || dtype[0] == 'f'
		width := int(dtype[1] - '0')
		if width != 2 && width != 4 && width != 8 {
			return nil, fmt.Errorf("tracebuf datatype %q", dtype)
		}

		nsamp := int(int32(order.Uint32(head[4:8])))
		start := math.Float64frombits(order.Uint64(head[8:16]))
		rate := math.Float64frombits(order.Uint64(head[24:32]))
		if nsamp < 0 || len(buf)-off < nsamp*width {
			return nil, fmt.Errorf("tracebuf of %d samples overruns payload", nsamp)
		}

		data := make([]float64, nsamp)
		for i := range data {
			b := buf[off+i*width : off+(i+1)*width]
			switch {
			case width == 2:
				data[i] = float64(int16(order.Uint16(b)))
			case width == 4 && isFloat:
				data[i] = float64(math.Float32frombits(order.Uint32(b)))
			case width == 4:
				data[i] = float64(int32(order.Uint32(b)))
			case isFloat:
				data[i] = math.Float64frombits(order.Uint64(b))
			default:
				data[i] = float64(int64(order.Uint64(b)))
			}
		}
		off += nsamp * width

		st = append(st, &seis.Trace{
			Stats: seis.Stats{
				Network:      cString(head[39:48]),
				Station:      cString(head[32:39]),
				Location:     fromWireLocation(cString(head[52:55])),
				Channel:      cString(head[48:52]),
				StartTime:    epoch(start),
				SamplingRate: rate,
			},
			Data: data,
		})
	}
	return st, nil
}
