// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package mseed

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrIntegrity marks Steim data whose last sample disagrees with the frame's
// reverse integration constant. The samples are still returned.
var ErrIntegrity = errors.New("steim reverse integration constant mismatch")

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// unpack splits word into n fields of the given width, most significant
// first.
func unpack(word uint32, n int, bits uint) []int32 {
	out := make([]int32, n)
	mask := uint32(1)<<bits - 1
	for i := 0; i < n; i++ {
		shift := bits * uint(n-1-i)
		out[i] = signExtend((word>>shift)&mask, bits)
	}
	return out
}

// decodeSteim integrates the differences stored in Steim-1 or Steim-2
// frames into nsamples values.
func decodeSteim(buf []byte, nsamples int, level int, order binary.ByteOrder) ([]float64, error) {
	if len(buf)%frameSize != 0 {
		buf = buf[:len(buf)-len(buf)%frameSize]
	}
	var diffs []int32
	var x0, xn int32
	for f := 0; f*frameSize < len(buf) && len(diffs) < nsamples; f++ {
		frame := buf[f*frameSize : (f+1)*frameSize]
		nibbles := order.Uint32(frame[0:4])
		for w := 1; w < 16; w++ {
			word := order.Uint32(frame[w*4 : w*4+4])
			code := (nibbles >> uint(30-2*w)) & 0x3
			if f == 0 && w == 1 {
				x0 = int32(word)
				continue
			}
			if f == 0 && w == 2 {
				xn = int32(word)
				continue
			}
			d, err := steimWord(word, code, level)
			if err != nil {
				return nil, fmt.Errorf("frame %d word %d: %w", f, w, err)
			}
			diffs = append(diffs, d...)
		}
	}
	if nsamples == 0 {
		return nil, nil
	}
	if len(diffs) < nsamples {
		return nil, fmt.Errorf("steim frames hold %d samples, header says %d", len(diffs), nsamples)
	}

	out := make([]float64, nsamples)
	last := x0
	out[0] = float64(last)
	for i := 1; i < nsamples; i++ {
		last += diffs[i]
		out[i] = float64(last)
	}
	if last != xn {
		return out, fmt.Errorf("%w: ends at %d, constant is %d", ErrIntegrity, last, xn)
	}
	return out, nil
}

func steimWord(word, code uint32, level int) ([]int32, error) {
	switch code {
	case 0:
		return nil, nil
	case 1:
		return unpack(word, 4, 8), nil
	}
	if level == 1 {
		if code == 2 {
			return unpack(word, 2, 16), nil
		}
		return []int32{int32(word)}, nil
	}

	dnib := word >> 30
	payload := word & 0x3fffffff
	if code == 2 {
		switch dnib {
		case 1:
			return unpack(payload, 1, 30), nil
		case 2:
			return unpack(payload, 2, 15), nil
		case 3:
			return unpack(payload, 3, 10), nil
		}
	} else {
		switch dnib {
		case 0:
			return unpack(payload, 5, 6), nil
		case 1:
			return unpack(payload, 6, 5), nil
		case 2:
			return unpack(payload, 7, 4), nil
		}
	}
	return nil, fmt.Errorf("invalid steim2 nibble %d/%d", code, dnib)
}
