// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package viewstate keeps the user's zoom and legend choices across
// re-renders of the same dataset and drops them when a different dataset
// is loaded.
package viewstate

import (
	"fmt"
	"maps"

	"github.com/cespare/xxhash/v2"
)

// Range is an axis range [lo, hi].
type Range [2]float64

// ViewState is what the renderer reapplies on the next draw. It is passed
// and returned by value; nothing here is global.
type ViewState struct {
	XRange  *Range       `json:"x_range,omitempty"`
	YRange  *Range       `json:"y_range,omitempty"`
	Visible map[int]bool `json:"series_visibility,omitempty"`
}

// IsEmpty reports whether no adjustment has been recorded.
func (v ViewState) IsEmpty() bool {
	return v.XRange == nil && v.YRange == nil && len(v.Visible) == 0
}

// Clone returns a deep copy.
func (v ViewState) Clone() ViewState {
	out := ViewState{Visible: maps.Clone(v.Visible)}
	if v.XRange != nil {
		r := *v.XRange
		out.XRange = &r
	}
	if v.YRange != nil {
		r := *v.YRange
		out.YRange = &r
	}
	return out
}

// Interaction is one user action: a zoom/pan (ranges), an autorange
// (reset flags) or a legend click (visibility per series index).
type Interaction struct {
	XRange  *Range       `json:"x_range,omitempty"`
	YRange  *Range       `json:"y_range,omitempty"`
	ResetX  bool         `json:"reset_x,omitempty"`
	ResetY  bool         `json:"reset_y,omitempty"`
	Visible map[int]bool `json:"visible,omitempty"`
}

// Merge applies one interaction to v and returns the result; v itself is
// not modified. Each key is last-write-wins.
func Merge(v ViewState, in Interaction) ViewState {
	out := v.Clone()
	if in.ResetX {
		out.XRange = nil
	}
	if in.ResetY {
		out.YRange = nil
	}
	if in.XRange != nil {
		r := *in.XRange
		out.XRange = &r
	}
	if in.YRange != nil {
		r := *in.YRange
		out.YRange = &r
	}
	if len(in.Visible) > 0 {
		if out.Visible == nil {
			out.Visible = make(map[int]bool, len(in.Visible))
		}
		for idx, vis := range in.Visible {
			out.Visible[idx] = vis
		}
	}
	return out
}

// Identity fingerprints a dataset by source name and row count. It is
// coarse on purpose: two different files with the same name and length
// are treated as the same dataset.
func Identity(source string, rows int) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%s_%d", source, rows)))
}
