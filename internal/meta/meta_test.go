// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package meta

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/inertial_viewer/internal/table"
)

func mustTable(t *testing.T, text string) *table.Table {
	t.Helper()
	tbl, err := table.Parse([]byte(text))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tbl
}

func TestResolveByEventColumn(t *testing.T) {
	tbl := mustTable(t, `"event";"experiment time";"system time";"system time text"
"START";0.000000000E0;1.764846926548E9;2025-12-04 11:15:26.548 UTC+01:00
"PAUSE";9.297000000E0;1.764846935845E9;2025-12-04 11:15:35.845 UTC+01:00
`)
	a, err := Resolve(tbl)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a.Start != 1764846926.548 || a.Pause != 1764846935.845 {
		t.Fatalf("unexpected anchors %+v", a)
	}
	if math.Abs(a.Duration()-9.297) > 1e-6 {
		t.Fatalf("unexpected duration %f", a.Duration())
	}
}

func TestResolveEventOrderIndependent(t *testing.T) {
	tbl := mustTable(t, "Event,System Time\nPAUSE,1010\nSTART,1000\n")
	a, err := Resolve(tbl)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a.Start != 1000 || a.Pause != 1010 {
		t.Fatalf("unexpected anchors %+v", a)
	}
}

func TestResolvePositionalFallback(t *testing.T) {
	tbl := mustTable(t, "system time,note\n1000.5,a\n1012.25,b\n")
	a, err := Resolve(tbl)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a.Start != 1000.5 || a.Pause != 1012.25 {
		t.Fatalf("unexpected anchors %+v", a)
	}
}

func TestResolveFailures(t *testing.T) {
	cases := map[string]string{
		"missing columns":  "foo,bar\n1,2\n3,4\n",
		"missing pause":    "event,system time\nSTART,1000\n",
		"not a number":     "event,system time\nSTART,abc\nPAUSE,1010\n",
		"one row fallback": "system time\n1000\n",
		"inverted":         "event,system time\nSTART,1010\nPAUSE,1000\n",
		"equal":            "system time\n1000\n1000\n",
	}
	for name, text := range cases {
		if _, err := Resolve(mustTable(t, text)); !errors.Is(err, ErrMetadata) {
			t.Fatalf("%s: expected ErrMetadata, got %v", name, err)
		}
	}
}

func TestResolveBytesNMEA(t *testing.T) {
	log := `$GPRMC,123456.00,A,4807.038,N,01131.000,E,0.5,84.4,061225,,,A*64
$GPRMC,123506.50,A,4807.040,N,01131.002,E,0.4,84.1,061225,,,A*6C
$GPRMC,123507.00,V,4807.040,N,01131.002,E,0.0,0.0,061225,,,N*49
`
	a, err := ResolveBytes([]byte(log))
	if err != nil {
		t.Fatalf("resolve nmea: %v", err)
	}
	if math.Abs(a.Duration()-10.5) > 1e-6 {
		t.Fatalf("expected void fix ignored, duration %f", a.Duration())
	}

	if _, err := ResolveBytes([]byte(strings.Split(log, "\n")[0])); !errors.Is(err, ErrMetadata) {
		t.Fatalf("expected ErrMetadata for a single fix, got %v", err)
	}
}

func TestResolveBytesCSVParseError(t *testing.T) {
	if _, err := ResolveBytes(nil); !errors.Is(err, table.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestToTime(t *testing.T) {
	got := ToTime(1000.25, nil)
	want := time.Date(1970, 1, 1, 0, 16, 40, 250000000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("unexpected time %v", got)
	}
}
