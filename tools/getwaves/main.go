// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/data"
	"github.com/mvo-seismic/getnplot/log"
	"github.com/mvo-seismic/getnplot/params"
	"github.com/mvo-seismic/getnplot/wws"
)

type options struct {
	args        params.Args
	debug       bool
	credentials string
}

func main() {
	start := time.Now()
	o := options{args: params.DefaultArgs()}
	o.args.Mode = params.ModeGet

	app := &cli.App{
		Name:      "getwaves",
		Usage:     "Get seismic data and save as mseed file",
		UsageText: "getwaves [options]\n\nExample: getwaves --date yesterday --time 12:37 --pre 20 --dur 90",
		Version:   "2.0-dev",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Destination: &o.args.Quiet, Usage: "no screen output"},
			&cli.BoolFlag{Name: "debug", Destination: &o.debug, Usage: "development logging"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Value: o.args.Date, Destination: &o.args.Date, Usage: "event date (UTC): today | yesterday | yyyy-mm-dd | yyyy.jjj"},
			&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Value: o.args.Time, Destination: &o.args.Time, Usage: "event time (UTC): hh:mm | hh:mm:ss | hh:mm:ss.s | now | now-X"},
			&cli.StringFlag{Name: "pre", Aliases: []string{"p"}, Value: o.args.Pre, Destination: &o.args.Pre, Usage: "window start before the event, s, m or h suffix"},
			&cli.StringFlag{Name: "dur", Aliases: []string{"l"}, Value: o.args.Dur, Destination: &o.args.Dur, Usage: "window duration, s, m or h suffix"},
			&cli.StringFlag{Name: "wwsip", Value: o.args.WWSIP, Destination: &o.args.WWSIP, EnvVars: []string{"WWS_IP"}, Usage: "wave server address"},
			&cli.IntFlag{Name: "wwsport", Value: o.args.WWSPort, Destination: &o.args.WWSPort, EnvVars: []string{"WWS_PORT"}, Usage: "wave server port"},
			&cli.StringFlag{Name: "dir", Value: o.args.Dir, Destination: &o.args.Dir, EnvVars: []string{"SEIS_OUT_DIR"}, Usage: "output directory or gs:// prefix"},
			&cli.StringFlag{Name: "credentials", Destination: &o.credentials, Usage: "GCS service account JSON"},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, o)
		},
	}

	err := app.Run(os.Args)
	fmt.Println("Elapsed time: ", time.Since(start))
	if err != nil {
		log.Logger().Errorw("getwaves failed", "error", err)
		log.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fileName is <event stamp>-allChannels-<window>.mseed, the window always
// in seconds.
func fileName(cfg *params.Config) string {
	return fmt.Sprintf("%s-allChannels-%s.mseed", params.EventStamp(cfg.Event, 4), params.WindowTag(cfg.Dur, cfg.Pre, "s"))
}

func run(ctx context.Context, o options) error {
	if err := log.Init(o.debug, o.args.Quiet); err != nil {
		return err
	}
	defer log.Sync()
	logger := log.Logger()

	cat, err := catalogue.Default()
	if err != nil {
		return err
	}
	cfg, err := params.New(o.args, cat, time.Now().UTC())
	if err != nil {
		return err
	}
	creds, err := data.LoadCredentials(o.credentials)
	if err != nil {
		return err
	}

	loader := &data.Loader{
		WaveServer: wws.NewClient(cfg.WWSIP, cfg.WWSPort, wws.DefaultTimeout),
		Logger:     logger,
	}
	st, err := loader.FromWaveServer(ctx, "*", "*", "*", cfg.Window)
	if err != nil {
		return err
	}
	if len(st) == 0 {
		if !cfg.Quiet {
			fmt.Println("No streams loaded")
		}
		return nil
	}

	out := params.JoinPath(cfg.Dir, fileName(cfg))
	if err := data.SaveMseed(ctx, out, creds, st, ""); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Printf("  %d streams saved to %s\n", len(st), out)
	}
	return nil
}
