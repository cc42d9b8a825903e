// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Fix represents a single RMC fix read back from an NMEA log.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.5000"
	Date       string  `json:"date"`        // e.g. "06/12/25"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void)

	// Epoch is the UTC fix time as UNIX seconds, 0 if date or time is missing.
	Epoch float64 `json:"epoch"`
}

// Valid reports whether the receiver flagged the fix as usable and it
// carries a full timestamp.
func (f Fix) Valid() bool {
	return f.Validity == nmea.ValidRMC && f.Epoch > 0
}

// ParseFixes reads every RMC sentence from an NMEA log. Lines that are not
// sentences or fail their checksum are skipped, like a noisy serial feed.
func ParseFixes(text string) []Fix {
	var fixes []Fix
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}
		if sentence.DataType() != nmea.TypeRMC {
			continue
		}
		m := sentence.(nmea.RMC)

		fixes = append(fixes, Fix{
			Time:       m.Time.String(),
			Date:       m.Date.String(),
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			SpeedKnots: m.Speed,
			CourseDeg:  m.Course,
			Validity:   string(m.Validity),
			Epoch:      epoch(m.Date, m.Time),
		})
	}
	return fixes
}

// epoch combines an RMC date (two digit year, 2000-based) and time.
func epoch(d nmea.Date, t nmea.Time) float64 {
	if !d.Valid || !t.Valid {
		return 0
	}
	ts := time.Date(2000+d.YY, time.Month(d.MM), d.DD,
		t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC)
	return float64(ts.UnixMilli()) / 1000
}
