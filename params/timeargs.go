// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadDuration = errors.New("bad duration")

// ParseDuration reads "<number>[s|m|h]" as seconds. unit is the suffix seen,
// 's' when there is none.
func ParseDuration(s string) (seconds float64, unit byte, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty", ErrBadDuration)
	}

	unit = 's'
	mult := 1.0
	switch s[len(s)-1] {
	case 's':
		s = s[:len(s)-1]
	case 'm':
		unit, mult = 'm', 60
		s = s[:len(s)-1]
	case 'h':
		unit, mult = 'h', 3600
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}
	return v * mult, unit, nil
}

func seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006.002",
	"2006/01/02",
	"20060102",
	"2006-01-02T15:04:05",
}

// ResolveDate turns a date argument into UTC midnight. The today and
// yesterday flags take precedence over arg.
func ResolveDate(arg string, today, yesterday bool, now time.Time) (time.Time, error) {
	switch {
	case yesterday || arg == "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	case today || arg == "today" || arg == "":
		return midnight(now), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, arg, time.UTC); err == nil {
			return midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", arg)
}

// ResolveEventTime combines a time argument with date. "now" means now less
// the window pre time, "now-X" now less X (s, m or h suffix allowed), and
// hh:mm, hh:mm:ss or hh:mm:ss.s are offsets into date.
func ResolveEventTime(arg string, date, now time.Time, pre float64) (time.Time, error) {
	if strings.HasPrefix(arg, "now") {
		back := pre
		if strings.HasPrefix(arg, "now-") {
			sec, _, err := ParseDuration(arg[len("now-"):])
			if err != nil {
				return time.Time{}, fmt.Errorf("event time %q: %w", arg, err)
			}
			back = sec
		} else if arg != "now" {
			return time.Time{}, fmt.Errorf("unrecognised event time %q", arg)
		}
		return now.UTC().Add(-seconds(back)), nil
	}

	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("unrecognised event time %q", arg)
	}
	var hms [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("event time %q: %w", arg, err)
		}
		hms[i] = v
	}
	offset := hms[0]*3600 + hms[1]*60 + hms[2]
	return date.UTC().Add(seconds(offset)), nil
}
