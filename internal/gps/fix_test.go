// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"math"
	"testing"
	"time"
)

const rmcLog = `$GPRMC,123456.00,A,4807.038,N,01131.000,E,0.5,84.4,061225,,,A*64
garbage line
$GPRMC,123456.00,A,4807.038,N,01131.000,E,0.5,84.4,061225,,,A*00
$GPRMC,123506.50,A,4807.040,N,01131.002,E,0.4,84.1,061225,,,A*6C
$GPRMC,123507.00,V,4807.040,N,01131.002,E,0.0,0.0,061225,,,N*49
`

func TestParseFixes(t *testing.T) {
	fixes := ParseFixes(rmcLog)
	if len(fixes) != 3 {
		t.Fatalf("expected 3 RMC fixes (bad checksum skipped), got %d", len(fixes))
	}

	want := float64(time.Date(2025, 12, 6, 12, 34, 56, 0, time.UTC).Unix())
	if math.Abs(fixes[0].Epoch-want) > 1e-6 {
		t.Fatalf("unexpected epoch %f, want %f", fixes[0].Epoch, want)
	}
	if math.Abs(fixes[1].Epoch-fixes[0].Epoch-10.5) > 1e-6 {
		t.Fatalf("expected 10.5s between fixes, got %f", fixes[1].Epoch-fixes[0].Epoch)
	}
	if !fixes[0].Valid() || !fixes[1].Valid() {
		t.Fatalf("expected active fixes to be valid")
	}
	if fixes[2].Valid() {
		t.Fatalf("expected void fix to be invalid")
	}
	if math.Abs(fixes[0].Latitude-48.1173) > 1e-4 {
		t.Fatalf("unexpected latitude %f", fixes[0].Latitude)
	}
}
