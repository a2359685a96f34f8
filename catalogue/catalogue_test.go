// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package catalogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedStationLists(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cases := []struct {
		kind     string
		stations []string
		class    string
	}{
		{"allZ", []string{"MSS1", "MBFR", "MBLY", "MBLG", "MBRY", "MBBY", "MBHA", "MBGH", "MBWH", "MBFL", "MBGB", "MBRV"}, ClassZ},
		{"closeZ", []string{"MSS1", "MBFR", "MBLG", "MBLY", "MBRY"}, ClassZ},
		{"close3C", []string{"MSS1", "MBFR", "MBLG", "MBLY", "MBRY"}, Class3C},
		{"radianZ", []string{"MBFR", "MBLG", "MBLY", "MBBY", "MBGH", "MBFL", "MBGB"}, ClassZ},
		{"all3C", []string{"MBFR", "MBLY", "MBLG", "MBRY", "MBBY", "MBGH", "MBWH", "MBFL", "MBGB", "MBRV"}, Class3C},
		{"irish3C", []string{"MBLG", "MBHA", "MSS1"}, Class3C},
		{"lahar", []string{"MSS1", "MBFR", "MBLY", "MBBY"}, ClassZ},
		{"rockfall", []string{"MSS1", "MBRY", "MBLY", "MBLG", "MBGH", "MBBY", "MBFR"}, ClassZ},
		{"strain", []string{"AIRS", "OLV1", "TRNT"}, ClassZ},
		{"infra", []string{"MBFL"}, ClassH},
		{"all", []string{"MSS1", "MBFR", "MBLY", "MBLG", "MBRY", "MBBY", "MBHA", "MBGH", "MBWH", "MBFL", "MBGB", "MBRV"}, Class3C},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			sel := c.Resolve(tc.kind, "MSS1", Norm3C, "")
			assert.Equal(t, tc.stations, sel.Stations)
			assert.Equal(t, tc.class, sel.Class)
		})
	}
}

func TestStationArgument(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	sel := c.Resolve("Z", "MBLY,MBFR", NormYes, "")
	assert.Equal(t, []string{"MBLY", "MBFR"}, sel.Stations)

	sel = c.Resolve("strainplus", "MBLY", Norm3C, "")
	assert.Equal(t, []string{"AIRS", "OLV1", "TRNT", "MBLY"}, sel.Stations)
	assert.Equal(t, Class3C, sel.Class)

	sel = c.Resolve("tfr", "MSS1", Norm3C, "")
	assert.Equal(t, []string{"MSS1"}, sel.Stations)
	assert.Equal(t, ClassZ, sel.Class)
	assert.Equal(t, Norm3C, sel.Normalize)
}

func TestUnknownKindFallsBack(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	sel := c.Resolve("nonsense", "", Norm3C, "")
	assert.Equal(t, "allz", sel.Kind)
	assert.Len(t, sel.Stations, 12)
}

func TestNormalizationRules(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, NormNo, c.Resolve("allZ", "", Norm3C, "").Normalize)
	assert.Equal(t, NormYes, c.Resolve("allZ", "", NormYes, "").Normalize)
	assert.Equal(t, Norm3C, c.Resolve("all3C", "", NormYes, "").Normalize)
	assert.Equal(t, NormNo, c.Resolve("all3C", "", NormNo, "").Normalize)

	sel := c.Resolve("rockfall", "", Norm3C, "")
	assert.Equal(t, NormNo, sel.Normalize)
	assert.Equal(t, "Rockfall", sel.Tag)
	assert.Equal(t, "mine", c.Resolve("rockfall", "", Norm3C, "mine").Tag)
}

func TestWantedAndPanacea(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Contains(t, c.Wanted(), "MV.MSS1..SHZ")
	assert.Contains(t, c.Wanted(), "MC.OLV1..BLZ")
	assert.Contains(t, c.Wanted(), "MV.MBFL.00.HDF")

	gains := map[string]float64{}
	for _, p := range c.Panacea() {
		gains[p.ID] = p.Gain
	}
	assert.Equal(t, map[string]float64{
		"MV.MBLG.00.HHZ": 0.1,
		"MV.MBLY.00.HHZ": 0.1,
		"MV.MBRY..BHZ":   0.3,
		"MV.MSS1..SHZ":   1.0,
	}, gains)
}

func TestFileTag(t *testing.T) {
	sel := Selection{Stations: []string{"MSS1", "MBLY"}, Class: Class3C}
	assert.Equal(t, "MSS1_MBLY-3C", sel.FileTag())
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.hcl")
	src := `
default_kind = "one"

kind "one" {
  class    = "z"
  stations = ["AAA"]
}

wanted = ["XX.AAA..HHZ"]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, c.Kinds())
	assert.Equal(t, []string{"AAA"}, c.Resolve("other", "", NormNo, "").Stations)
	assert.Empty(t, c.Panacea())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`default_kind = "x"
wanted = []
kind "y" {
  class = "q"
}
`), "bad.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`default_kind = "x"
wanted = []
`), "nodefault.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`kind {`), "syntax.hcl")
	assert.Error(t, err)
}
