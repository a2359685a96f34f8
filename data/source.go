// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mvo-seismic/getnplot/mseed"
	"github.com/mvo-seismic/getnplot/seis"
	"github.com/mvo-seismic/getnplot/wws"
)

// Source names understood by Load. Anything else is a file name.
const (
	SourceAuto  = "auto"
	SourceWWS   = "wws"
	SourceMseed = "mseed"
	SourceCont  = "cont"
	SourceEvent = "event"
)

// ArchiveNetworks are the networks the automatic source reads from the
// miniseed archive when the wave server has nothing.
var ArchiveNetworks = []string{"MV", "MC", "CU", "TR"}

// WaveServer is the part of the wave server client the loader uses.
type WaveServer interface {
	Availability(ctx context.Context, network, station, channel string) ([]wws.MenuEntry, error)
	GetWaveforms(ctx context.Context, network, station, location, channel string, start, end time.Time) (seis.Stream, error)
}

// Loader fetches the raw waveforms of a window.
type Loader struct {
	WaveServer  WaveServer
	MseedRoot   string
	WavRoot     string
	Credentials string
	Logger      *zap.SugaredLogger
}

// Load fetches the window from source and reports where the data came from.
// Sources fall back silently; an empty result is ErrNoStreams.
func (l *Loader) Load(ctx context.Context, source string, w seis.Window) (seis.Stream, string, error) {
	var (
		st   seis.Stream
		from string
		err  error
	)

	switch source {
	case SourceAuto:
		from = "waveserver"
		st, err = l.FromWaveServer(ctx, "*", "*", "*", w)
		if err != nil {
			l.Logger.Debugw("wave server unavailable", "error", err)
		}
		if len(st) == 0 {
			from = "continuous miniseed data"
			for _, network := range ArchiveNetworks {
				part, err := ReadSDS(ctx, l.MseedRoot, seis.Selector{Network: network}, w, l.Credentials)
				if err != nil {
					l.Logger.Debugw("archive read failed", "network", network, "error", err)
					continue
				}
				st = append(st, part...)
			}
		}
		l.Logger.Infow("streams loaded", "source", from, "streams", len(st))
	case SourceWWS:
		from = "waveserver"
		st, err = l.FromWaveServer(ctx, "MV", "M*", "*", w)
		if err != nil {
			l.Logger.Warnw("wave server unavailable", "error", err)
		}
	case SourceMseed:
		from = "miniseed archive"
		st, err = ReadSDS(ctx, l.MseedRoot, seis.Selector{}, w, l.Credentials)
		if err != nil {
			l.Logger.Warnw("archive read failed", "error", err)
		}
	case SourceCont, SourceEvent:
		from = source
		l.Logger.Warnf("source %s not implemented", source)
	default:
		st, from, err = l.fromFile(ctx, source)
		if err != nil {
			l.Logger.Warnw("no data file", "file", source, "error", err)
		}
	}

	if len(st) == 0 {
		return nil, from, ErrNoStreams
	}
	return st, from, nil
}

// FromWaveServer fetches every channel the wave server lists for the
// network, station and channel patterns. Channels without data are skipped.
func (l *Loader) FromWaveServer(ctx context.Context, network, station, channel string, w seis.Window) (seis.Stream, error) {
	if l.WaveServer == nil {
		return nil, errors.New("no wave server configured")
	}
	menu, err := l.WaveServer.Availability(ctx, network, station, channel)
	if err != nil {
		return nil, err
	}

	var st seis.Stream
	for _, m := range menu {
		part, err := l.WaveServer.GetWaveforms(ctx, m.Network, m.Station, m.Location, m.Channel, w.Start, w.End)
		if err != nil {
			if !errors.Is(err, wws.ErrNoData) {
				l.Logger.Debugw("waveform request failed",
					"channel", m.Network+"."+m.Station+"."+m.Location+"."+m.Channel, "error", err)
			}
			continue
		}
		st = append(st, part...)
	}
	return st, nil
}

// fromFile reads a named miniseed file, looking under the event WAV tree
// when it is not found as given.
func (l *Loader) fromFile(ctx context.Context, name string) (seis.Stream, string, error) {
	location := name
	if !Exists(ctx, location, l.Credentials) {
		l.Logger.Infow("no file in local directory", "file", name)
		if l.WavRoot == "" {
			return nil, name, fmt.Errorf("%s: not found", name)
		}
		found, err := FindFile(name, l.WavRoot)
		if err != nil {
			return nil, name, fmt.Errorf("no file in %s: %w", l.WavRoot, err)
		}
		location = found
	}
	l.Logger.Infow("data file", "file", location)

	st, err := ReadMseed(ctx, location, l.Credentials)
	return st, location, err
}

// ReadMseed reads a whole miniseed file from any storage location.
func ReadMseed(ctx context.Context, location, credentials string) (seis.Stream, error) {
	r, err := GetReader(ctx, location, credentials)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	st, err := mseed.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return st, nil
}
