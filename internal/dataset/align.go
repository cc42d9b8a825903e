// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dataset

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/inertial_viewer/internal/imu"
	"github.com/relabs-tech/inertial_viewer/internal/meta"
	"github.com/relabs-tech/inertial_viewer/internal/table"
)

// ErrAlignment is returned when a log has no usable relative time.
var ErrAlignment = errors.New("alignment error")

// Align maps each row of a parsed sensor log onto absolute time:
//
//	absolute[i] = start + relative[i]
//
// Rows are independent of each other, so columns are converted
// concurrently. Input order is kept; rows are assumed sorted by time and
// are not re-sorted. Cells that are not numbers become NaN; columns without
// a single number are treated as text and dropped.
func Align(t *table.Table, source string, start float64) (*Dataset, error) {
	timeCol := t.Find(imu.IsTime)
	if timeCol < 0 {
		return nil, fmt.Errorf("%w: no time column in %q", ErrAlignment, t.Header)
	}

	var (
		rel     []float64
		columns = make([][]float64, len(t.Header))
		numeric = make([]bool, len(t.Header))
	)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	g.Go(func() error {
		var err error
		rel, err = relativeTime(t, timeCol)
		return err
	})
	for col := range t.Header {
		if col == timeCol {
			continue
		}
		g.Go(func() error {
			columns[col], numeric[col] = channel(t, col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := New(source, t.Header[timeCol], start, rel)
	for col, name := range t.Header {
		if col == timeCol || name == "" || !numeric[col] {
			continue
		}
		if _, dup := d.Column(name); dup {
			continue
		}
		if err := d.SetColumn(name, columns[col]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// AlignAnchors is Align with the START anchor taken from a. The PAUSE
// anchor is not used for alignment; compare it with Drift.
func AlignAnchors(t *table.Table, source string, a meta.SessionAnchors) (*Dataset, error) {
	return Align(t, source, a.Start)
}

func relativeTime(t *table.Table, col int) ([]float64, error) {
	out := make([]float64, t.Len())
	for i := range out {
		cell := t.Cell(i, col)
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: time %q is not a number", ErrAlignment, i+1, cell)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: row %d: time %q is not finite", ErrAlignment, i+1, cell)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: row %d: negative time %g", ErrAlignment, i+1, v)
		}
		out[i] = v
	}
	return out, nil
}

func channel(t *table.Table, col int) ([]float64, bool) {
	out := make([]float64, t.Len())
	seen := t.Len() == 0
	for i := range out {
		v, err := strconv.ParseFloat(t.Cell(i, col), 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
		seen = true
	}
	return out, seen
}

// Drift is the clock drift diagnostic: PAUSE minus the computed session
// end. Positive means the device log ended before the host saw PAUSE. It is
// reported, never corrected.
func Drift(d *Dataset, a meta.SessionAnchors) float64 {
	return a.Pause - d.End()
}
