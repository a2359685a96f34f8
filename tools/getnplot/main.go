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

	"github.com/skratchdot/open-golang/open"
	"github.com/urfave/cli/v2"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/data"
	"github.com/mvo-seismic/getnplot/log"
	"github.com/mvo-seismic/getnplot/params"
	"github.com/mvo-seismic/getnplot/seis"
	"github.com/mvo-seismic/getnplot/shows"
	"github.com/mvo-seismic/getnplot/wws"
)

const (
	defaultMseedPath = "/mnt/mvohvs3/MVOSeisD6/mseed"
	defaultWavPath   = "/mnt/mvofls2/Seismic_Data/WAV/MVOE_"
)

type paths struct {
	catalogue   string
	mseed       string
	wav         string
	credentials string
	debug       bool
}

func main() {
	start := time.Now()
	args := params.DefaultArgs()
	var p paths

	app := &cli.App{
		Name:      "getnplot",
		Usage:     "Get seismic data and plot it",
		UsageText: "getnplot [options] [event time]\n\nExample: getnplot --kind allZ --date yesterday --time 12:37 --pre 20 --dur 90",
		Version:   "2.0",
		Flags:     flags(&args, &p),
		Action: func(c *cli.Context) error {
			if c.Args().Len() > 0 {
				args.Time = c.Args().First()
			}
			return run(c.Context, args, p)
		},
	}

	err := app.Run(os.Args)
	fmt.Println("Elapsed time: ", time.Since(start))
	if err != nil {
		log.Logger().Errorw("getnplot failed", "error", err)
		log.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func flags(a *params.Args, p *paths) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "mode", Value: a.Mode, Destination: &a.Mode, Usage: "getnplot | get | plot | test"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Destination: &a.Quiet, Usage: "no screen output"},
		&cli.BoolFlag{Name: "debug", Destination: &p.debug, Usage: "development logging"},
		&cli.StringFlag{Name: "source", Value: a.Source, Destination: &a.Source, Usage: "auto | wws | mseed | cont | event | <file>"},
		&cli.StringFlag{Name: "wwsip", Value: a.WWSIP, Destination: &a.WWSIP, EnvVars: []string{"WWS_IP"}, Usage: "wave server address"},
		&cli.IntFlag{Name: "wwsport", Value: a.WWSPort, Destination: &a.WWSPort, EnvVars: []string{"WWS_PORT"}, Usage: "wave server port"},
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: a.Kind, Destination: &a.Kind, Usage: "plot kind"},
		&cli.StringFlag{Name: "sta", Value: a.Station, Destination: &a.Station, Usage: "station(s), comma separated, for single station kinds"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Value: a.Date, Destination: &a.Date, Usage: "event date (UTC): today | yesterday | yyyy-mm-dd | yyyy.jjj"},
		&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Value: a.Time, Destination: &a.Time, Usage: "event time (UTC): hh:mm | hh:mm:ss | hh:mm:ss.s | now | now-X"},
		&cli.BoolFlag{Name: "yesterday", Destination: &a.Yesterday, Usage: "event date is yesterday"},
		&cli.BoolFlag{Name: "today", Destination: &a.Today, Usage: "event date is today"},
		&cli.StringFlag{Name: "pre", Aliases: []string{"p"}, Value: a.Pre, Destination: &a.Pre, Usage: "window start before the event, s, m or h suffix"},
		&cli.StringFlag{Name: "dur", Aliases: []string{"l"}, Value: a.Dur, Destination: &a.Dur, Usage: "window duration, s, m or h suffix"},
		&cli.StringFlag{Name: "twin", Value: a.Twin, Destination: &a.Twin, Usage: "particle motion analysis window"},
		&cli.StringFlag{Name: "shape", Value: a.Shape, Destination: &a.Shape, Usage: "landscape | portrait | square | long | xlong | xxlong | xxxlong | thin"},
		&cli.IntFlag{Name: "size", Value: a.Size, Destination: &a.Size, Usage: "plot size in pixels"},
		&cli.StringFlag{Name: "tscale", Value: a.Tscale, Destination: &a.Tscale, Usage: "time axis: d (from duration) | s | m | h"},
		&cli.StringFlag{Name: "fscale", Value: a.Fscale, Destination: &a.Fscale, Usage: "frequency axis: linear | log"},
		&cli.StringFlag{Name: "zscale", Value: a.Zscale, Destination: &a.Zscale, Usage: "spectrogram colour: amp | power | log | sqrt"},
		&cli.BoolFlag{Name: "plotspec", Destination: &a.PlotSpec, Usage: "add a spectrum to tfr and specialZ plots"},
		&cli.BoolFlag{Name: "plotnorms", Destination: &a.PlotNorms, Usage: "no RMS in lahar plot"},
		&cli.BoolFlag{Name: "show", Destination: &a.Show, Usage: "open the plot when done"},
		&cli.BoolFlag{Name: "grid", Destination: &a.Grid, Usage: "draw a grid"},
		&cli.StringFlag{Name: "title", Destination: &a.Title, Usage: "plot title"},
		&cli.BoolFlag{Name: "bigtitle", Destination: &a.BigTitle, Usage: "large title"},
		&cli.BoolFlag{Name: "nogreen", Destination: &a.NoGreen, Usage: "no event time line"},
		&cli.Float64Flag{Name: "linewidth", Value: a.LineWidth, Destination: &a.LineWidth, Usage: "trace line width"},
		&cli.Float64Flag{Name: "fmin", Value: a.Fmin, Destination: &a.Fmin, Usage: "minimum plot frequency"},
		&cli.Float64Flag{Name: "fmax", Value: a.Fmax, Destination: &a.Fmax, Usage: "maximum plot frequency"},
		&cli.Float64Flag{Name: "hpfilt", Value: a.HPFilt, Destination: &a.HPFilt, Usage: "high-pass filter (Hz), 0 for none"},
		&cli.Float64Flag{Name: "lpfilt", Value: a.LPFilt, Destination: &a.LPFilt, Usage: "low-pass filter (Hz), 0 for none"},
		&cli.StringFlag{Name: "norm", Value: a.Norm, Destination: &a.Norm, Usage: "normalization: no | yes | 3c"},
		&cli.Float64Flag{Name: "mult", Value: a.Mult, Destination: &a.Mult, Usage: "data multiplier"},
		&cli.BoolFlag{Name: "integrate", Destination: &a.Integrate, Usage: "integrate to displacement"},
		&cli.StringFlag{Name: "dir", Value: a.Dir, Destination: &a.Dir, EnvVars: []string{"SEIS_OUT_DIR"}, Usage: "output directory or gs:// prefix"},
		&cli.StringFlag{Name: "tag", Destination: &a.Tag, Usage: "filename tag"},
		&cli.StringFlag{Name: "plotfile", Destination: &a.PlotFile, Usage: "plot file name"},
		&cli.StringFlag{Name: "datafile", Destination: &a.DataFile, Usage: "miniseed file name"},
		&cli.IntFlag{Name: "datimtag", Value: a.DatimTag, Destination: &a.DatimTag, Usage: "event time digits in file names: 4, 6 or 7"},
		&cli.IntFlag{Name: "downsample", Value: a.Downsample, Destination: &a.Downsample, Usage: "decimation factor"},
		&cli.StringFlag{Name: "catalogue", Destination: &p.catalogue, Usage: "station catalogue (HCL) replacing the built-in one"},
		&cli.StringFlag{Name: "mseedpath", Value: defaultMseedPath, Destination: &p.mseed, EnvVars: []string{"SEIS_MSEED_PATH"}, Usage: "miniseed archive root"},
		&cli.StringFlag{Name: "wavpath", Value: defaultWavPath, Destination: &p.wav, EnvVars: []string{"SEIS_WAV_PATH"}, Usage: "event WAV directory"},
		&cli.StringFlag{Name: "credentials", Destination: &p.credentials, Usage: "GCS service account JSON"},
	}
}

func run(ctx context.Context, args params.Args, p paths) error {
	if err := log.Init(p.debug, args.Quiet); err != nil {
		return err
	}
	defer log.Sync()
	logger := log.Logger()

	cat, err := catalogue.Load(p.catalogue)
	if err != nil {
		return err
	}
	cfg, err := params.New(args, cat, time.Now().UTC())
	if err != nil {
		return err
	}
	if !cfg.Quiet {
		cfg.Report(os.Stdout)
	}
	if cfg.Mode == params.ModeTest {
		return nil
	}

	creds, err := data.LoadCredentials(p.credentials)
	if err != nil {
		return err
	}
	loader := &data.Loader{
		WaveServer:  wws.NewClient(cfg.WWSIP, cfg.WWSPort, wws.DefaultTimeout),
		MseedRoot:   p.mseed,
		WavRoot:     p.wav,
		Credentials: creds,
		Logger:      logger,
	}
	st, from, err := loader.Load(ctx, cfg.Source, cfg.Window)
	if errors.Is(err, data.ErrNoStreams) {
		if !cfg.Quiet {
			fmt.Println("No streams loaded")
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Printf("  Streams from %s: %d\n", from, len(st))
	}

	st = data.FixIDs(st, logger)
	st = data.KeepWanted(st, cfg.Window, cat.Wanted())
	st = data.SelectChannels(st, cfg.Selection.Stations, cfg.Selection.Class, cfg.Window.Start)
	if !cfg.Quiet {
		fmt.Printf("  Streams extracted for plot: %d\n", len(st))
	}

	ops := data.Processing{
		LPFilt:     cfg.LPFilt,
		HPFilt:     cfg.HPFilt,
		Integrate:  cfg.Integrate,
		Downsample: cfg.Downsample,
		Mult:       cfg.Mult,
	}.Ops()
	logger.Debugw("processing", "ops", ops.Describe())
	if st, err = ops.Run(st); err != nil {
		return err
	}

	if cfg.Mode == params.ModeGet || cfg.Mode == params.ModeGetnPlot {
		if err := data.SaveMseed(ctx, cfg.DataPath, creds, st, data.SaveNetwork); err != nil {
			return err
		}
		logger.Infow("data saved", "file", cfg.DataPath)
		if cfg.Mode == params.ModeGet {
			return nil
		}
	}

	st, equal := data.Normalize(st, cfg.Norm, cfg.Selection.Stations)
	if err := savePlot(ctx, cfg, creds, st, equal); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Println("  Plot file: " + cfg.PlotPath)
	}

	if cfg.Show && !strings.HasPrefix(cfg.PlotPath, "gs://") {
		if err := open.Run(cfg.PlotPath); err != nil {
			logger.Warnw("can't open plot", "file", cfg.PlotPath, "error", err)
		}
	}
	return nil
}

func savePlot(ctx context.Context, cfg *params.Config, creds string, st seis.Stream, equal bool) (err error) {
	w, err := data.GetWriter(ctx, cfg.PlotPath, creds)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.PlotPath, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", cfg.PlotPath, cerr)
		}
	}()
	return shows.Render(w, st, shows.FromConfig(cfg, equal))
}
