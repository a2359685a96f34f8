// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

// Package catalogue maps plot kinds to the monitoring stations and channel
// class they display.
package catalogue

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gobuffalo/packr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

var Box = packr.NewBox("./data")

const builtinName = "catalogue.hcl"

// Channel classes.
const (
	ClassZ  = "z"
	Class3C = "3c"
	ClassH  = "h"
)

// Normalization modes.
const (
	NormNo  = "no"
	NormYes = "yes"
	Norm3C  = "3c"
)

type document struct {
	DefaultKind string         `hcl:"default_kind"`
	Kinds       []kindBlock    `hcl:"kind,block"`
	Wanted      []string       `hcl:"wanted"`
	Panacea     []panaceaBlock `hcl:"panacea,block"`
}

type kindBlock struct {
	Name       string   `hcl:"name,label"`
	Class      string   `hcl:"class"`
	Stations   []string `hcl:"stations,optional"`
	StationArg string   `hcl:"station_arg,optional"`
	PlainNorm  bool     `hcl:"plain_norm,optional"`
	Tag        string   `hcl:"tag,optional"`
}

type panaceaBlock struct {
	ID   string  `hcl:"id,label"`
	Gain float64 `hcl:"gain"`
}

// Kind describes how one plot kind picks its data.
type Kind struct {
	Name       string
	Class      string
	Stations   []string
	StationArg string
	PlainNorm  bool
	Tag        string
}

// PanaceaChannel is a channel drawn by the daily panacea plots.
type PanaceaChannel struct {
	ID   string
	Gain float64
}

// Catalogue is the decoded station document.
type Catalogue struct {
	defaultKind string
	kinds       map[string]*Kind
	order       []string
	wanted      []string
	panacea     []PanaceaChannel
}

// Selection is the outcome of resolving a plot kind against the arguments.
type Selection struct {
	Kind      string
	Stations  []string
	Class     string
	Normalize string
	Tag       string
}

// Parse decodes an HCL catalogue. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Catalogue, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", filename, diags)
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalogue %s: %w", filename, diags)
	}

	c := &Catalogue{
		defaultKind: strings.ToLower(doc.DefaultKind),
		kinds:       make(map[string]*Kind, len(doc.Kinds)),
		wanted:      doc.Wanted,
	}
	for _, kb := range doc.Kinds {
		name := strings.ToLower(kb.Name)
		if _, dup := c.kinds[name]; dup {
			return nil, fmt.Errorf("catalogue %s: kind %q defined twice", filename, kb.Name)
		}
		switch kb.Class {
		case ClassZ, Class3C, ClassH:
		default:
			return nil, fmt.Errorf("catalogue %s: kind %q has unknown class %q", filename, kb.Name, kb.Class)
		}
		switch kb.StationArg {
		case "", "replace", "append":
		default:
			return nil, fmt.Errorf("catalogue %s: kind %q has unknown station_arg %q", filename, kb.Name, kb.StationArg)
		}
		c.kinds[name] = &Kind{
			Name:       name,
			Class:      kb.Class,
			Stations:   kb.Stations,
			StationArg: kb.StationArg,
			PlainNorm:  kb.PlainNorm,
			Tag:        kb.Tag,
		}
		c.order = append(c.order, name)
	}
	if _, ok := c.kinds[c.defaultKind]; !ok {
		return nil, fmt.Errorf("catalogue %s: default kind %q not defined", filename, doc.DefaultKind)
	}
	for _, pb := range doc.Panacea {
		c.panacea = append(c.panacea, PanaceaChannel{ID: pb.ID, Gain: pb.Gain})
	}
	return c, nil
}

// Load reads a catalogue from path, or the built-in one when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return Parse(src, path)
}

var (
	defaultMutex sync.Mutex
	builtin      *Catalogue
)

// Default returns the catalogue built into the binary.
func Default() (*Catalogue, error) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	if builtin != nil {
		return builtin, nil
	}

	src, err := Box.Find(builtinName)
	if err != nil {
		return nil, fmt.Errorf("cannot find %s: %w", builtinName, err)
	}
	c, err := Parse(src, builtinName)
	if err != nil {
		return nil, err
	}
	builtin = c
	return builtin, nil
}

// Kinds lists the kind names in document order.
func (c *Catalogue) Kinds() []string {
	return append([]string(nil), c.order...)
}

// Kind looks up a kind case-insensitively.
func (c *Catalogue) Kind(name string) (*Kind, bool) {
	k, ok := c.kinds[strings.ToLower(name)]
	return k, ok
}

// Wanted is every channel id any plot may use.
func (c *Catalogue) Wanted() []string {
	return append([]string(nil), c.wanted...)
}

// Panacea lists the channels of the daily panacea plots.
func (c *Catalogue) Panacea() []PanaceaChannel {
	return append([]PanaceaChannel(nil), c.panacea...)
}

// Resolve picks the stations and channel class for kind. sta is the comma
// separated --sta argument, norm and tag the requested normalization and
// file name tag, both possibly adjusted by the kind. An unknown kind
// resolves as the default kind.
func (c *Catalogue) Resolve(kind, sta, norm, tag string) Selection {
	k, ok := c.Kind(kind)
	if !ok {
		k = c.kinds[c.defaultKind]
	}

	var stations []string
	switch k.StationArg {
	case "replace":
		stations = splitStations(sta)
	case "append":
		stations = append(append(stations, k.Stations...), splitStations(sta)...)
	default:
		stations = append(stations, k.Stations...)
	}

	if k.PlainNorm || strings.HasSuffix(k.Name, ClassZ) {
		if norm == Norm3C {
			norm = NormNo
		}
	}
	if k.Class == Class3C && norm != NormNo {
		norm = Norm3C
	}
	if tag == "" {
		tag = k.Tag
	}

	return Selection{
		Kind:      k.Name,
		Stations:  stations,
		Class:     k.Class,
		Normalize: norm,
		Tag:       tag,
	}
}

// FileTag is the station part of output file names: the stations joined by
// '_', then '-' and the upper-cased class.
func (s Selection) FileTag() string {
	return strings.Join(s.Stations, "_") + "-" + strings.ToUpper(s.Class)
}

func splitStations(sta string) []string {
	var out []string
	for _, s := range strings.Split(sta, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
