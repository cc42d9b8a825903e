// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package meta resolves the START and PAUSE wall-clock anchors of a
// recording from its metadata upload.
//
// Anchors are UNIX epoch seconds. No time zone is ever inferred here; the
// zone only matters when an anchor is rendered for display.
package meta

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/relabs-tech/inertial_viewer/internal/gps"
	"github.com/relabs-tech/inertial_viewer/internal/table"
)

// ErrMetadata is returned when anchors cannot be resolved or are inconsistent.
var ErrMetadata = errors.New("metadata error")

const (
	EventStart = "START"
	EventPause = "PAUSE"

	// fallbackColumn is read positionally when no event column exists.
	fallbackColumn = "system time"
)

// SessionAnchors are the absolute start and pause times of one recording.
type SessionAnchors struct {
	Start float64 `json:"start"`
	Pause float64 `json:"pause"`
}

// Duration is the session length implied by the two anchors.
func (a SessionAnchors) Duration() float64 {
	return a.Pause - a.Start
}

// Validate enforces Pause > Start. Inverted anchors are reported, never swapped.
func (a SessionAnchors) Validate() error {
	if math.IsNaN(a.Start) || math.IsInf(a.Start, 0) || math.IsNaN(a.Pause) || math.IsInf(a.Pause, 0) {
		return fmt.Errorf("%w: anchors must be finite", ErrMetadata)
	}
	if a.Pause <= a.Start {
		return fmt.Errorf("%w: PAUSE (%.3f) is not after START (%.3f)", ErrMetadata, a.Pause, a.Start)
	}
	return nil
}

// Resolve locates START and PAUSE in a parsed metadata table.
//
// Layouts, tried in order:
//  1. a column containing "event" and one containing "system" (both
//     case-insensitive); the rows whose event equals START and PAUSE give
//     the anchors.
//  2. positional fallback: row 0 is START and row 1 is PAUSE, read from a
//     column named "system time".
func Resolve(t *table.Table) (SessionAnchors, error) {
	eventCol := t.Find(func(name string) bool {
		return strings.Contains(strings.ToLower(name), "event")
	})
	sysCol := t.Find(func(name string) bool {
		return strings.Contains(strings.ToLower(name), "system")
	})

	var (
		a   SessionAnchors
		err error
	)
	if eventCol >= 0 && sysCol >= 0 {
		a, err = byEvent(t, eventCol, sysCol)
	} else {
		a, err = byPosition(t)
	}
	if err != nil {
		return SessionAnchors{}, err
	}
	if err := a.Validate(); err != nil {
		return SessionAnchors{}, err
	}
	return a, nil
}

func byEvent(t *table.Table, eventCol, sysCol int) (SessionAnchors, error) {
	start, pause := -1, -1
	for i := 0; i < t.Len(); i++ {
		switch t.Cell(i, eventCol) {
		case EventStart:
			if start < 0 {
				start = i
			}
		case EventPause:
			if pause < 0 {
				pause = i
			}
		}
	}
	if start < 0 {
		return SessionAnchors{}, fmt.Errorf("%w: no %s event in column %q", ErrMetadata, EventStart, t.Header[eventCol])
	}
	if pause < 0 {
		return SessionAnchors{}, fmt.Errorf("%w: no %s event in column %q", ErrMetadata, EventPause, t.Header[eventCol])
	}

	var (
		a   SessionAnchors
		err error
	)
	if a.Start, err = parseAnchor(t.Cell(start, sysCol), EventStart); err != nil {
		return SessionAnchors{}, err
	}
	if a.Pause, err = parseAnchor(t.Cell(pause, sysCol), EventPause); err != nil {
		return SessionAnchors{}, err
	}
	return a, nil
}

func byPosition(t *table.Table) (SessionAnchors, error) {
	col := t.Find(func(name string) bool {
		return strings.EqualFold(name, fallbackColumn)
	})
	if col < 0 {
		return SessionAnchors{}, fmt.Errorf("%w: missing necessary columns (event/system time or %q)", ErrMetadata, fallbackColumn)
	}
	if t.Len() < 2 {
		return SessionAnchors{}, fmt.Errorf("%w: need 2 rows (START, PAUSE), got %d", ErrMetadata, t.Len())
	}

	var (
		a   SessionAnchors
		err error
	)
	if a.Start, err = parseAnchor(t.Cell(0, col), EventStart); err != nil {
		return SessionAnchors{}, err
	}
	if a.Pause, err = parseAnchor(t.Cell(1, col), EventPause); err != nil {
		return SessionAnchors{}, err
	}
	return a, nil
}

func parseAnchor(cell, event string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s system time %q is not a number", ErrMetadata, event, cell)
	}
	return v, nil
}

// ResolveNMEA takes the first valid RMC fix as START and the last as PAUSE.
func ResolveNMEA(text string) (SessionAnchors, error) {
	var valid []gps.Fix
	for _, f := range gps.ParseFixes(text) {
		if f.Valid() {
			valid = append(valid, f)
		}
	}
	if len(valid) < 2 {
		return SessionAnchors{}, fmt.Errorf("%w: need 2 valid RMC fixes, got %d", ErrMetadata, len(valid))
	}

	a := SessionAnchors{Start: valid[0].Epoch, Pause: valid[len(valid)-1].Epoch}
	if err := a.Validate(); err != nil {
		return SessionAnchors{}, err
	}
	return a, nil
}

// ResolveBytes dispatches on content: an upload whose first non-empty line
// starts with '$' is an NMEA log, anything else is parsed as CSV.
func ResolveBytes(raw []byte) (SessionAnchors, error) {
	text := strings.ToValidUTF8(string(raw), "")
	if isNMEA(text) {
		return ResolveNMEA(text)
	}

	t, err := table.Parse(raw)
	if err != nil {
		return SessionAnchors{}, err
	}
	return Resolve(t)
}

func isNMEA(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "$")
	}
	return false
}

// ToTime converts an epoch anchor to a time in loc. Sub-second precision
// is kept to the microsecond.
func ToTime(epoch float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMicro(int64(math.Round(epoch * 1e6))).In(loc)
}
