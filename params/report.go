// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package params

import (
	"fmt"
	"io"
	"strings"
)

const reportTime = "2006-01-02 15:04:05"

// Report writes every argument and derived value, grouped the way the run
// uses them.
func (c *Config) Report(w io.Writer) {
	section := func(name string) { fmt.Fprintln(w, name) }
	line := func(label string, v interface{}) { fmt.Fprintf(w, " %-17s%v\n", label+":", v) }

	section("Script running")
	line("Mode", c.Mode)
	line("Quiet", c.Quiet)

	section("Data")
	line("Source", c.Source)
	line("WWS IP", c.WWSIP)
	line("WWS port", c.WWSPort)
	line("Station", c.Station)
	line("Stations", strings.Join(c.Selection.Stations, ","))
	line("N stations", len(c.Selection.Stations))
	line("Event date", c.Args.Date)
	line("Event time", c.Args.Time)
	line("Event", c.Event.Format(reportTime+".0"))
	line("Window pre", fmt.Sprintf("%g seconds", c.Pre))
	line("Window dur", fmt.Sprintf("%g seconds", c.Dur))
	line("Analysis window", fmt.Sprintf("%g seconds", c.Twin))
	line("Data begins", c.Window.Start.Format(reportTime))
	line("Data ends", c.Window.End.Format(reportTime))

	section("Plot")
	line("Plot kind", c.Kind)
	line("Plot shape", c.Shape)
	line("Plot size", c.Size)
	line("Plot size (2)", fmt.Sprintf("(%d, %d)", c.Width, c.Height))
	line("Plot timescale", c.Tscale)
	line("Plot freq scale", c.Fscale)
	line("Plot Z scale", c.Zscale)
	line("Max plot freq", c.PlotFmax)
	line("Min plot freq", c.PlotFmin)
	line("Plot title", c.Title)
	line("Big title", c.BigTitle)
	line("Plot grid", c.Grid)
	line("Plot line width", c.LineWidth)
	line("No green line", c.NoGreen)

	section("Data processing")
	line("Max frequency", c.DataFmax)
	line("Min frequency", c.DataFmin)
	line("HP filter", c.HPFilt)
	line("LP filter", c.LPFilt)
	line("Normalize", c.Norm)
	line("Multiplier", c.Mult)
	line("Integrate", c.Integrate)
	line("Downsampling", c.Downsample)

	section("Output")
	line("Output dir", c.Dir)
	line("Filename tag", c.Tag)
	line("Stations tag", c.Selection.FileTag())
	line("Plot file", c.PlotPath)
	line("Data file", c.DataPath)
	line("Spec in TFR", c.PlotSpec)
	line("RMS in lahar", !c.PlotNorms)
	line("Show plot", c.Show)
}
