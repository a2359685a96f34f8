// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package wws

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2023, 6, 10, 12, 0, 0, 0, time.UTC)

func traceBuf(order binary.ByteOrder, dtype, sta, cha, net, loc string, start time.Time, rate float64, samples []int32) []byte {
	head := make([]byte, traceBufHeaderSize)
	order.PutUint32(head[0:4], 1)
	order.PutUint32(head[4:8], uint32(len(samples)))
	startSec := toEpoch(start)
	order.PutUint64(head[8:16], math.Float64bits(startSec))
	order.PutUint64(head[16:24], math.Float64bits(startSec+float64(len(samples)-1)/rate))
	order.PutUint64(head[24:32], math.Float64bits(rate))
	copy(head[32:39], sta)
	copy(head[39:48], net)
	copy(head[48:52], cha)
	copy(head[52:55], loc)
	copy(head[55:57], "20")
	copy(head[57:60], dtype)

	buf := bytes.NewBuffer(head)
	for _, s := range samples {
		binary.Write(buf, order, s)
	}
	return buf.Bytes()
}

// fakeServer answers MENU and GETSCNLRAW requests, one per connection.
func fakeServer(t *testing.T, menu string, packets []byte) *Client {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			line, _ := bufio.NewReader(conn).ReadString('\n')
			fields := strings.Fields(line)
			switch {
			case len(fields) > 1 && fields[0] == "MENU:":
				fmt.Fprintf(conn, "%s %s\n", fields[1], menu)
			case len(fields) > 6 && fields[0] == "GETSCNLRAW:":
				rid, sta, cha, nw, loc := fields[1], fields[2], fields[3], fields[4], fields[5]
				if sta != "MSS1" || packets == nil {
					fmt.Fprintf(conn, "%s 1 %s %s %s %s FN\n", rid, sta, cha, nw, loc)
					break
				}
				fmt.Fprintf(conn, "%s 1 %s %s %s %s F s4 %s %s %d\n", rid, sta, cha, nw, loc, fields[6], fields[7], len(packets))
				conn.Write(packets)
			}
			conn.Close()
		}
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	var p int
	fmt.Sscanf(port, "%d", &p)
	return NewClient(host, p, 2*time.Second)
}

func TestMenu(t *testing.T) {
	menu := "1 MSS1 SHZ MV -- 1686398400.000000 1686402000.000000 s4  2 MBLY HHZ MV 00 1686398400.0 1686402000.0 s4  3 AIRS BLZ MC -- 1686398400.0 1686402000.0 i4"
	c := fakeServer(t, menu, nil)

	entries, err := c.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "MSS1", entries[0].Station)
	assert.Equal(t, "", entries[0].Location)
	assert.Equal(t, "00", entries[1].Location)
	assert.Equal(t, t0.Add(time.Hour), entries[0].End)

	avail, err := c.Availability(context.Background(), "MV", "M*", "*")
	require.NoError(t, err)
	assert.Len(t, avail, 2)
}

func TestGetWaveforms(t *testing.T) {
	first := make([]int32, 100)
	second := make([]int32, 100)
	for i := range first {
		first[i] = int32(i)
		second[i] = int32(100 + i)
	}
	packets := append(
		traceBuf(binary.BigEndian, "s4", "MSS1", "SHZ", "MV", "--", t0, 100, first),
		traceBuf(binary.BigEndian, "s4", "MSS1", "SHZ", "MV", "--", t0.Add(time.Second), 100, second)...,
	)
	c := fakeServer(t, "", packets)

	st, err := c.GetWaveforms(context.Background(), "MV", "MSS1", "", "SHZ", t0, t0.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, "MV.MSS1..SHZ", st[0].ID())
	assert.Equal(t, 200, st[0].Npts())
	assert.Equal(t, 199.0, st[0].Data[199])

	_, err = c.GetWaveforms(context.Background(), "MV", "MBLY", "00", "HHZ", t0, t0.Add(time.Minute))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseTraceBufLittleEndian(t *testing.T) {
	buf := traceBuf(binary.LittleEndian, "i4", "MBFL", "HDF", "MV", "00", t0, 50, []int32{-3, 7, 11})
	st, err := parseTraceBufs(buf)
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Equal(t, "MV.MBFL.00.HDF", st[0].ID())
	assert.Equal(t, []float64{-3, 7, 11}, st[0].Data)
	assert.Equal(t, 50.0, st[0].SamplingRate)

	_, err = parseTraceBufs(buf[:70])
	assert.Error(t, err)
}

func TestDialFailure(t *testing.T) {
	c := NewClient("127.0.0.1", 1, 200*time.Millisecond)
	_, err := c.Menu(context.Background())
	assert.Error(t, err)
}
