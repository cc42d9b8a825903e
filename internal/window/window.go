// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package window slices a dataset to a relative-time interval and
// summarises every channel in the slice.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/inertial_viewer/internal/dataset"
)

// ErrRange is returned for an inverted or non-numeric query window.
var ErrRange = errors.New("range error")

// QueryWindow is a sub-range of relative time, in seconds.
type QueryWindow struct {
	Min float64 `json:"t_min"`
	Max float64 `json:"t_max"`
}

// Full returns the window covering the whole dataset.
func Full(d *dataset.Dataset) QueryWindow {
	return QueryWindow{Min: 0, Max: d.MaxTime()}
}

// Duration is Max - Min.
func (w QueryWindow) Duration() float64 {
	return w.Max - w.Min
}

// Summary is the mean and sample standard deviation (divisor n-1) of one
// channel. Both are NaN when there are not enough samples.
type Summary struct {
	Mean dataset.Float `json:"mean"`
	Std  dataset.Float `json:"std"`
}

// Result is a window query answer.
type Result struct {
	Window  QueryWindow        `json:"window"` // after clamping
	Rows    int                `json:"rows"`
	Columns []string           `json:"columns"`
	Stats   map[string]Summary `json:"stats"`

	Slice *dataset.Dataset `json:"-"`
}

// Query validates and clamps w to [0, d.MaxTime()], keeps every sample with
// Min <= time <= Max (both inclusive) and summarises each channel. An empty
// slice is a valid answer with NaN statistics.
func Query(d *dataset.Dataset, w QueryWindow) (Result, error) {
	if math.IsNaN(w.Min) || math.IsNaN(w.Max) {
		return Result{}, fmt.Errorf("%w: window bounds must be numbers", ErrRange)
	}
	if w.Min > w.Max {
		return Result{}, fmt.Errorf("%w: t_min %g is after t_max %g", ErrRange, w.Min, w.Max)
	}
	w = clamp(w, d.MaxTime())

	var idx []int
	for i, t := range d.Time {
		if t >= w.Min && t <= w.Max {
			idx = append(idx, i)
		}
	}
	slice := d.Subset(idx)

	res := Result{
		Window:  w,
		Rows:    slice.Len(),
		Columns: slice.Names(),
		Stats:   make(map[string]Summary, len(slice.Names())),
		Slice:   slice,
	}
	for _, name := range res.Columns {
		values, _ := slice.Column(name)
		res.Stats[name] = Summarize(values)
	}
	return res, nil
}

func clamp(w QueryWindow, max float64) QueryWindow {
	return QueryWindow{
		Min: math.Min(math.Max(w.Min, 0), max),
		Max: math.Min(math.Max(w.Max, 0), max),
	}
}

// Summarize computes mean and sample standard deviation over the non-NaN
// samples, so a blank cell does not poison the whole column. Mean is NaN
// with no valid sample, std is NaN with fewer than two.
func Summarize(values []float64) Summary {
	var (
		n   int
		sum float64
	)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Summary{Mean: dataset.Float(math.NaN()), Std: dataset.Float(math.NaN())}
	}
	mean := sum / float64(n)

	if n < 2 {
		return Summary{Mean: dataset.Float(mean), Std: dataset.Float(math.NaN())}
	}
	var sq float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sq += (v - mean) * (v - mean)
	}
	return Summary{
		Mean: dataset.Float(mean),
		Std:  dataset.Float(math.Sqrt(sq / float64(n-1))),
	}
}
