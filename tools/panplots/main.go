// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/data"
	"github.com/mvo-seismic/getnplot/log"
	"github.com/mvo-seismic/getnplot/params"
	"github.com/mvo-seismic/getnplot/seis"
	"github.com/mvo-seismic/getnplot/shows"
	"github.com/mvo-seismic/getnplot/wws"
)

const dayLength = 24 * time.Hour

type options struct {
	quiet       bool
	debug       bool
	date        string
	dir         string
	wwsIP       string
	wwsPort     int
	mseedPath   string
	catalogue   string
	credentials string
}

func main() {
	start := time.Now()
	defaults := params.DefaultArgs()
	o := options{}

	app := &cli.App{
		Name:      "panplots",
		Usage:     "Plot a day of each panacea channel",
		UsageText: "panplots [options]\n\nExample: panplots --date yesterday",
		Version:   "1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Destination: &o.quiet, Usage: "no screen output"},
			&cli.BoolFlag{Name: "debug", Destination: &o.debug, Usage: "development logging"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Value: "yesterday", Destination: &o.date, Usage: "day to plot (UTC): today | yesterday | yyyy-mm-dd | yyyy.jjj"},
			&cli.StringFlag{Name: "dir", Value: defaults.Dir, Destination: &o.dir, EnvVars: []string{"SEIS_OUT_DIR"}, Usage: "directory or gs:// prefix for plots"},
			&cli.StringFlag{Name: "wwsip", Value: defaults.WWSIP, Destination: &o.wwsIP, EnvVars: []string{"WWS_IP"}, Usage: "wave server address"},
			&cli.IntFlag{Name: "wwsport", Value: defaults.WWSPort, Destination: &o.wwsPort, EnvVars: []string{"WWS_PORT"}, Usage: "wave server port"},
			&cli.StringFlag{Name: "mseedpath", Value: "/mnt/mvohvs3/MVOSeisD6/mseed", Destination: &o.mseedPath, EnvVars: []string{"SEIS_MSEED_PATH"}, Usage: "miniseed archive root"},
			&cli.StringFlag{Name: "catalogue", Destination: &o.catalogue, Usage: "station catalogue (HCL) replacing the built-in one"},
			&cli.StringFlag{Name: "credentials", Destination: &o.credentials, Usage: "GCS service account JSON"},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, o)
		},
	}

	err := app.Run(os.Args)
	fmt.Println("  Elapsed time: " + time.Since(start).String())
	if err != nil {
		log.Logger().Errorw("panplots failed", "error", err)
		log.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// plotName is STA_CHA_NET_LOC.YYYYmmdd.png with "--" for an empty location.
func plotName(stats seis.Stats, day time.Time) string {
	loc := stats.Location
	if loc == "" {
		loc = "--"
	}
	scnl := strings.Join([]string{stats.Station, stats.Channel, stats.Network, loc}, "_")
	return scnl + "." + day.Format("20060102") + ".png"
}

func run(ctx context.Context, o options) error {
	if err := log.Init(o.debug, o.quiet); err != nil {
		return err
	}
	defer log.Sync()
	logger := log.Logger()

	cat, err := catalogue.Load(o.catalogue)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	day, err := params.ResolveDate(o.date, false, false, now)
	if err != nil {
		return err
	}
	w, err := seis.NewWindow(day, day.Add(dayLength))
	if err != nil {
		return err
	}
	creds, err := data.LoadCredentials(o.credentials)
	if err != nil {
		return err
	}

	loader := &data.Loader{
		WaveServer:  wws.NewClient(o.wwsIP, o.wwsPort, wws.DefaultTimeout),
		MseedRoot:   o.mseedPath,
		Credentials: creds,
		Logger:      logger,
	}
	for _, ch := range cat.Panacea() {
		if err := plotChannel(ctx, loader, ch, w, o.dir, o.quiet); err != nil {
			logger.Errorw("panacea plot failed", "channel", ch.ID, "error", err)
		}
	}
	return nil
}

// loadChannel tries the wave server for the channel, then the archive.
func loadChannel(ctx context.Context, l *data.Loader, stats seis.Stats, w seis.Window) (seis.Stream, string) {
	st, err := l.FromWaveServer(ctx, stats.Network, stats.Station, stats.Channel, w)
	if err != nil {
		l.Logger.Debugw("wave server unavailable", "error", err)
	}
	st = st.SelectIDs([]string{stats.ID()})
	if len(st) > 0 {
		return st, "waveserver"
	}

	sel := seis.Selector{Network: stats.Network, Station: stats.Station, Location: stats.Location, Channel: stats.Channel}
	st, err = data.ReadSDS(ctx, l.MseedRoot, sel, w, l.Credentials)
	if err != nil {
		l.Logger.Debugw("archive read failed", "error", err)
	}
	return st.SelectIDs([]string{stats.ID()}), "continuous miniseed data"
}

func plotChannel(ctx context.Context, l *data.Loader, ch catalogue.PanaceaChannel, w seis.Window, dir string, quiet bool) (err error) {
	stats, err := seis.ParseID(ch.ID)
	if err != nil {
		return err
	}
	st, from := loadChannel(ctx, l, stats, w)
	l.Logger.Infow("streams loaded", "channel", ch.ID, "source", from, "streams", len(st))
	if len(st) == 0 {
		if !quiet {
			fmt.Println("No streams loaded")
		}
		return nil
	}

	ops := data.Processing{}.Ops()
	if st, err = ops.Run(st); err != nil {
		return err
	}
	merged := st.MergeFill()
	if len(merged) == 0 {
		return nil
	}
	tr := merged[0]

	out := params.JoinPath(dir, plotName(stats, w.Start))
	if !quiet {
		fmt.Println("  Plot file: " + out)
	}
	wr, err := data.GetWriter(ctx, out, l.Credentials)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer func() {
		if cerr := wr.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", out, cerr)
		}
	}()
	err = shows.RenderPanacea(wr, tr, w.Start, ch.Gain)
	if errors.Is(err, shows.ErrNoTraces) {
		l.Logger.Warnw("channel has too few samples", "channel", ch.ID)
		return nil
	}
	return err
}
