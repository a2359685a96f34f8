// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package params turns getnplot's command line arguments into the window,
// station selection, plot geometry and output names of a run.
package params

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mvo-seismic/getnplot/catalogue"
	"github.com/mvo-seismic/getnplot/seis"
)

// Run modes.
const (
	ModeGetnPlot = "getnplot"
	ModeGet      = "get"
	ModePlot     = "plot"
	ModeTest     = "test"
)

// Args holds the raw argument values.
type Args struct {
	Mode    string
	Quiet   bool
	Source  string
	WWSIP   string
	WWSPort int

	Kind    string
	Station string

	Date      string
	Time      string
	Yesterday bool
	Today     bool
	Pre       string
	Dur       string
	Twin      string

	Shape     string
	Size      int
	Tscale    string
	Fscale    string
	Zscale    string
	PlotSpec  bool
	PlotNorms bool
	Show      bool
	Grid      bool
	Title     string
	BigTitle  bool
	NoGreen   bool
	LineWidth float64

	Fmin      float64
	Fmax      float64
	HPFilt    float64
	LPFilt    float64
	Norm      string
	Mult      float64
	Integrate bool

	Dir        string
	Tag        string
	PlotFile   string
	DataFile   string
	DatimTag   int
	Downsample int
}

// DefaultArgs mirrors the command line defaults.
func DefaultArgs() Args {
	return Args{
		Mode:       ModeGetnPlot,
		Source:     "auto",
		WWSIP:      "172.17.102.60",
		WWSPort:    16022,
		Kind:       "allZ",
		Station:    "MSS1",
		Date:       "today",
		Time:       "now",
		Pre:        "10",
		Dur:        "60",
		Twin:       "30",
		Shape:      "landscape",
		Size:       1920,
		Tscale:     "d",
		Fscale:     "linear",
		Zscale:     "sqrt",
		LineWidth:  0.5,
		Fmax:       100,
		Norm:       catalogue.Norm3C,
		Mult:       1,
		Dir:        ".",
		DatimTag:   4,
		Downsample: 1,
	}
}

// Config is a fully resolved run.
type Config struct {
	Args

	Kind      string
	Station   string
	Selection catalogue.Selection

	Event  time.Time
	Window seis.Window
	Pre    float64
	Dur    float64
	Twin   float64
	Tscale string

	Width  int
	Height int

	PlotFmin float64
	PlotFmax float64
	DataFmin float64
	DataFmax float64

	EventStamp string
	WindowTag  string
	PlotBase   string
	PlotPath   string
	DataPath   string
	Title      string
}

// Shapes maps a shape name to its pixel size for the given long side.
var Shapes = map[string]func(size int) (int, int){
	"landscape": func(s int) (int, int) { return s, int(float64(s) / 1.5) },
	"portrait":  func(s int) (int, int) { return int(float64(s) / 1.5), s },
	"square":    func(s int) (int, int) { return s, s },
	"long":      func(s int) (int, int) { return s, int(float64(s) / 2.4) },
	"xlong":     func(s int) (int, int) { return s, int(float64(s) / 3.0) },
	"xxlong":    func(s int) (int, int) { return s, int(float64(s) / 5.0) },
	"xxxlong":   func(s int) (int, int) { return 2 * s, 2 * int(float64(s)/7.5) },
	"thin":      func(s int) (int, int) { return int(float64(s) / 2.5), s },
}

var secondsTags = map[string]bool{
	"MSS1_trigger": true,
	"MBFR_trigger": true,
	"MBLG_trigger": true,
	"MBLY_trigger": true,
}

// New resolves args against the catalogue at time now.
func New(args Args, cat *catalogue.Catalogue, now time.Time) (*Config, error) {
	c := &Config{Args: args}

	switch args.Mode {
	case ModeGetnPlot, ModeGet, ModePlot, ModeTest:
	default:
		return nil, fmt.Errorf("unknown mode %q", args.Mode)
	}
	if c.Mode == ModePlot && c.Source == "" {
		c.Source = "dataTmp.mseed"
	}

	c.Kind = strings.ToLower(args.Kind)
	c.Station = args.Station
	if c.Kind == "3c" && c.Station == "MSS1" {
		c.Station = "MBLY"
	} else if c.Kind == "strainplus" {
		c.Station = "MBLY"
	}

	var err error
	var durUnit byte
	if c.Pre, _, err = ParseDuration(args.Pre); err != nil {
		return nil, fmt.Errorf("--pre: %w", err)
	}
	if c.Dur, durUnit, err = ParseDuration(args.Dur); err != nil {
		return nil, fmt.Errorf("--dur: %w", err)
	}
	if c.Twin, _, err = ParseDuration(args.Twin); err != nil {
		return nil, fmt.Errorf("--twin: %w", err)
	}
	c.Tscale = resolveTscale(args.Tscale, durUnit)

	date, err := ResolveDate(args.Date, args.Today, args.Yesterday, now)
	if err != nil {
		return nil, err
	}
	if c.Event, err = ResolveEventTime(args.Time, date, now, c.Pre); err != nil {
		return nil, err
	}
	start := c.Event.Add(-seconds(c.Pre))
	if c.Window, err = seis.NewWindow(start, start.Add(seconds(c.Dur))); err != nil {
		return nil, fmt.Errorf("--dur %s: %w", args.Dur, err)
	}

	shape, ok := Shapes[args.Shape]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q", args.Shape)
	}
	c.Width, c.Height = shape(args.Size)

	c.PlotFmin, c.PlotFmax = args.Fmin, args.Fmax
	if (args.Fscale == "log" || c.Kind == "tfr") && c.PlotFmin == 0 {
		c.PlotFmin = 0.5
	}
	c.DataFmin, c.DataFmax = c.PlotFmin, c.PlotFmax
	if (c.Kind == "tfr" || c.Kind == "forai") && c.Station == "MSS1" {
		c.PlotFmax = 50
	}

	c.Selection = cat.Resolve(c.Kind, c.Station, args.Norm, args.Tag)
	c.Kind = c.Selection.Kind
	c.Norm = c.Selection.Normalize
	c.Tag = c.Selection.Tag

	c.names()

	if c.Kind == "forai" {
		c.Size = 800
		c.Width, c.Height = 800, 800
	}
	return c, nil
}

func resolveTscale(tscale string, durUnit byte) string {
	if tscale == "d" {
		switch durUnit {
		case 'm':
			return "m"
		case 'h':
			return "h"
		}
		return "s"
	}
	return tscale
}

// WindowTag is "<dur>s<pre>", "<dur>m<pre>" or "<dur>h<pre>" in the time
// scale's unit.
func WindowTag(dur, pre float64, tscale string) string {
	switch tscale {
	case "h":
		return strconv.Itoa(int(dur/3600)) + "h" + strconv.Itoa(int(pre/3600))
	case "m":
		return strconv.Itoa(int(dur/60)) + "m" + strconv.Itoa(int(pre/60))
	}
	return strconv.Itoa(int(dur)) + "s" + strconv.Itoa(int(pre))
}

// EventStamp formats t as YYYYmmdd-HHMM, with seconds when digits is 6 and
// tenths of seconds when it is 7.
func EventStamp(t time.Time, digits int) string {
	t = t.UTC()
	switch digits {
	case 7:
		return t.Format("20060102-150405") + strconv.Itoa(t.Nanosecond()/1e8)
	case 6:
		return t.Format("20060102-150405")
	}
	return t.Format("20060102-1504")
}

// FormatFrequency writes f the way file names have always shown filter
// corners: shortest form, with ".0" on whole numbers.
func FormatFrequency(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (c *Config) names() {
	c.WindowTag = WindowTag(c.Dur, c.Pre, c.Tscale)

	base := c.PlotFile
	if base == "" {
		digits := c.DatimTag
		if secondsTags[c.Tag] {
			digits = 6
		} else if c.Tag == "VT_string_event" {
			digits = 7
		}
		c.EventStamp = EventStamp(c.Event, digits)

		parts := []string{c.EventStamp, "-" + c.Tag}
		staTag := c.Selection.FileTag()
		switch c.Kind {
		case "allz", "all3c":
			parts = append(parts, c.Kind, c.WindowTag)
		case "tfr", "forai", "partmot", "strain", "strainplus":
			parts = append(parts, staTag, c.Kind, c.WindowTag)
		case "spectrumz":
			parts = append(parts, staTag, "spectrum", c.WindowTag)
		case "rockfall":
			parts = append(parts, "amplitudes")
		default:
			parts = append(parts, staTag, c.WindowTag)
		}
		if c.HPFilt > 0 {
			parts = append(parts, "hp"+FormatFrequency(c.HPFilt)+"Hz")
		}
		if c.LPFilt > 0 {
			parts = append(parts, "lp"+FormatFrequency(c.LPFilt)+"Hz")
		}
		if c.Integrate {
			parts = append(parts, "integrated")
		}
		base = strings.Join(parts, "-")
		c.Title = base
	} else {
		c.EventStamp = EventStamp(c.Event, c.DatimTag)
		c.Title = base + "  " + c.Event.UTC().Format("2006-01-02 15:04:05")
	}
	c.PlotBase = base

	dataBase := c.DataFile
	if dataBase == "" {
		dataBase = base
	}
	c.PlotPath = JoinPath(c.Dir, base+".png")
	c.DataPath = JoinPath(c.Dir, dataBase+".mseed")

	if c.Args.Title != "" {
		c.Title = c.Args.Title
	} else {
		c.Title = MakeTitle(c.Title, c.Event)
	}
}

// MakeTitle builds the plot title from a file base name: the event time to
// tenths of a second, then the part of name from its first "--" with '-'
// spaced out and '_' turned into a space.
func MakeTitle(name string, event time.Time) string {
	if i := strings.Index(name, "--"); i >= 0 {
		name = name[i:]
	}
	name = strings.ReplaceAll(name, "-", "  ")
	name = strings.ReplaceAll(name, "_", " ")
	return event.UTC().Format("2006-01-02 15:04:05.0") + "  " + name
}

// JoinPath places name under dir, which may be a local directory or a
// storage URL such as gs://bucket/prefix.
func JoinPath(dir, name string) string {
	if strings.Contains(dir, "://") {
		return strings.TrimRight(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
