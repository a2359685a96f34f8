// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package wws is a client for the request protocol spoken by Earthworm and
// Winston wave servers.
package wws

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/mvo-seismic/getnplot/seis"

	"github.com/google/uuid"
)

const DefaultTimeout = 20 * time.Second

// ErrNoData is returned when the server holds nothing for the request.
var ErrNoData = errors.New("no data on wave server")

type Client struct {
	Addr    string
	Timeout time.Duration
}

func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		Addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		Timeout: timeout,
	}
}

// MenuEntry is one channel of the server's menu.
type MenuEntry struct {
	Pin      int
	Station  string
	Channel  string
	Network  string
	Location string
	Start    time.Time
	End      time.Time
	DataType string
}

func requestID() string {
	return "gnp" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, fmt.Errorf("wave server %s: %w", c.Addr, err)
	}
	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)
	return conn, nil
}

// Menu lists every channel the server holds.
func (c *Client) Menu(ctx context.Context) ([]MenuEntry, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rid := requestID()
	if _, err := fmt.Fprintf(conn, "MENU: %s SCNL\n", rid); err != nil {
		return nil, fmt.Errorf("sending menu request: %w", err)
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, fmt.Errorf("reading menu: %w", err)
	}
	return parseMenu(line, rid)
}

func parseMenu(line, rid string) ([]MenuEntry, error) {
	tokens := strings.Fields(line)
	if len(tokens) > 0 && tokens[0] == rid {
		tokens = tokens[1:]
	}
	if len(tokens)%8 != 0 {
		return nil, fmt.Errorf("menu has %d fields, not a multiple of 8", len(tokens))
	}

	var menu []MenuEntry
	for i := 0; i < len(tokens); i += 8 {
		f := tokens[i : i+8]
		pin, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("menu pin %q: %w", f[0], err)
		}
		start, err := strconv.ParseFloat(f[5], 64)
		if err != nil {
			return nil, fmt.Errorf("menu start %q: %w", f[5], err)
		}
		end, err := strconv.ParseFloat(f[6], 64)
		if err != nil {
			return nil, fmt.Errorf("menu end %q: %w", f[6], err)
		}
		menu = append(menu, MenuEntry{
			Pin:      pin,
			Station:  f[1],
			Channel:  f[2],
			Network:  f[3],
			Location: fromWireLocation(f[4]),
			Start:    epoch(start),
			End:      epoch(end),
			DataType: f[7],
		})
	}
	return menu, nil
}

// Availability filters the menu with glob patterns; empty patterns match
// anything.
func (c *Client) Availability(ctx context.Context, network, station, channel string) ([]MenuEntry, error) {
	menu, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	var out []MenuEntry
	for _, m := range menu {
		if globMatch(network, m.Network) && globMatch(station, m.Station) && globMatch(channel, m.Channel) {
			out = append(out, m)
		}
	}
	return out, nil
}

func globMatch(pattern, value string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(pattern, value)
	return err == nil && ok
}

// GetWaveforms fetches one channel for [start, end].
func (c *Client) GetWaveforms(ctx context.Context, network, station, location, channel string, start, end time.Time) (seis.Stream, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rid := requestID()
	req := fmt.Sprintf("GETSCNLRAW: %s %s %s %s %s %f %f\n",
		rid, station, channel, network, toWireLocation(location),
		toEpoch(start), toEpoch(end))
	if _, err := io.WriteString(conn, req); err != nil {
		return nil, fmt.Errorf("sending waveform request: %w", err)
	}

	br := bufio.NewReader(conn)
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading waveform response: %w", err)
	}
	tokens := strings.Fields(line)
	if len(tokens) < 7 {
		return nil, fmt.Errorf("short waveform response %q", strings.TrimSpace(line))
	}
	if flag := tokens[6]; flag != "F" {
		return nil, fmt.Errorf("%w: %s.%s.%s.%s flag %s", ErrNoData, network, station, location, channel, flag)
	}
	nbytes, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil {
		return nil, fmt.Errorf("waveform response size %q: %w", tokens[len(tokens)-1], err)
	}
	payload := make([]byte, nbytes)
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, fmt.Errorf("reading %d bytes of tracebufs: %w", nbytes, err)
	}

	st, err := parseTraceBufs(payload)
	if err != nil {
		return nil, err
	}
	return st.Merge().Trim(start, end), nil
}

func fromWireLocation(loc string) string {
	if loc == "--" {
		return ""
	}
	return loc
}

func toWireLocation(loc string) string {
	if loc == "" {
		return "--"
	}
	return loc
}

func epoch(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e6))*1000).UTC()
}

func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
