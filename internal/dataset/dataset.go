// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package dataset holds an aligned sensor log: the device's relative time,
// the matching absolute time and every numeric channel, keyed by column
// name in upload order.
package dataset

import (
	"fmt"
	"time"

	"github.com/relabs-tech/inertial_viewer/internal/meta"
)

// Dataset is owned by the session that loaded it. It is replaced as a whole
// on a new upload; the only in-place change is appending derived columns.
type Dataset struct {
	Source     string
	TimeColumn string
	Start      float64 // START anchor, epoch seconds

	Time     []float64 // relative time, seconds since session start
	Absolute []float64 // Start + Time[i], epoch seconds

	names   []string
	columns map[string][]float64
}

// New returns an empty dataset with the given time base.
func New(source, timeColumn string, start float64, rel []float64) *Dataset {
	abs := make([]float64, len(rel))
	for i, t := range rel {
		abs[i] = start + t
	}
	return &Dataset{
		Source:     source,
		TimeColumn: timeColumn,
		Start:      start,
		Time:       rel,
		Absolute:   abs,
		columns:    map[string][]float64{},
	}
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Time)
}

// Names returns the channel column names in order. The time column is not
// included.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Column returns the values of a channel column.
func (d *Dataset) Column(name string) ([]float64, bool) {
	v, ok := d.columns[name]
	return v, ok
}

// SetColumn appends a column, or replaces the values of an existing one
// while keeping its position.
func (d *Dataset) SetColumn(name string, values []float64) error {
	if len(values) != d.Len() {
		return fmt.Errorf("column %q has %d values, dataset has %d samples", name, len(values), d.Len())
	}
	if _, ok := d.columns[name]; !ok {
		d.names = append(d.names, name)
	}
	d.columns[name] = values
	return nil
}

// MaxTime is the largest relative time, 0 for an empty dataset.
func (d *Dataset) MaxTime() float64 {
	max := 0.0
	for _, t := range d.Time {
		if t > max {
			max = t
		}
	}
	return max
}

// End is the computed session end: the absolute time of the last sample,
// or Start when there are no samples.
func (d *Dataset) End() float64 {
	if d.Len() == 0 {
		return d.Start
	}
	return d.Absolute[d.Len()-1]
}

// Subset returns a new dataset with only the samples at idx, in that order.
func (d *Dataset) Subset(idx []int) *Dataset {
	rel := make([]float64, len(idx))
	for i, j := range idx {
		rel[i] = d.Time[j]
	}
	out := New(d.Source, d.TimeColumn, d.Start, rel)
	for i, j := range idx {
		out.Absolute[i] = d.Absolute[j]
	}
	for _, name := range d.names {
		src := d.columns[name]
		vals := make([]float64, len(idx))
		for i, j := range idx {
			vals[i] = src[j]
		}
		out.names = append(out.names, name)
		out.columns[name] = vals
	}
	return out
}

// Frame is the columnar transport form handed to the presentation layer.
type Frame struct {
	Source       string             `json:"source"`
	TimeColumn   string             `json:"time_column"`
	Columns      []string           `json:"columns"`
	Time         []Float            `json:"time"`
	AbsoluteTime []string           `json:"absolute_time"`
	Data         map[string][]Float `json:"data"`
}

// AbsoluteLayout is how absolute timestamps are rendered in a Frame.
const AbsoluteLayout = "2006-01-02T15:04:05.000000Z07:00"

// Frame renders the dataset; absolute times are shown in loc (UTC if nil).
func (d *Dataset) Frame(loc *time.Location) Frame {
	if loc == nil {
		loc = time.UTC
	}
	f := Frame{
		Source:       d.Source,
		TimeColumn:   d.TimeColumn,
		Columns:      d.Names(),
		Time:         Floats(d.Time),
		AbsoluteTime: make([]string, d.Len()),
		Data:         make(map[string][]Float, len(d.names)),
	}
	for i, abs := range d.Absolute {
		f.AbsoluteTime[i] = meta.ToTime(abs, loc).Format(AbsoluteLayout)
	}
	for _, name := range d.names {
		f.Data[name] = Floats(d.columns[name])
	}
	return f
}
