// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package viewstate

import (
	"strconv"
	"strings"
	"time"
)

// Plotly sends date axis ranges as naive wall-clock strings in the zone the
// axis was drawn in.
var rangeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02",
}

// FromRelayout translates a Plotly relayoutData event. It understands
// "xaxis.range" ([lo, hi]), "xaxis.range[0]"/"xaxis.range[1]", the same
// for yaxis, and "xaxis.autorange"/"yaxis.autorange" which clear the stored
// range. Date strings without an offset are read as wall-clock time in loc
// (UTC if nil), the zone the absolute axis is rendered in, and converted to
// epoch seconds. The second return is false when the event carries nothing
// to merge.
func FromRelayout(ev map[string]any, loc *time.Location) (Interaction, bool) {
	if loc == nil {
		loc = time.UTC
	}
	var in Interaction
	in.XRange, in.ResetX = axisRange(ev, "xaxis", loc)
	in.YRange, in.ResetY = axisRange(ev, "yaxis", loc)
	return in, in.XRange != nil || in.YRange != nil || in.ResetX || in.ResetY
}

func axisRange(ev map[string]any, axis string, loc *time.Location) (*Range, bool) {
	if auto, ok := ev[axis+".autorange"].(bool); ok && auto {
		return nil, true
	}
	if pair, ok := ev[axis+".range"].([]any); ok && len(pair) == 2 {
		lo, ok1 := number(pair[0], loc)
		hi, ok2 := number(pair[1], loc)
		if ok1 && ok2 {
			return &Range{lo, hi}, false
		}
	}
	lo, ok1 := number(ev[axis+".range[0]"], loc)
	hi, ok2 := number(ev[axis+".range[1]"], loc)
	if ok1 && ok2 {
		return &Range{lo, hi}, false
	}
	return nil, false
}

// FromRestyle translates a Plotly restyleData event of the form
// [{"visible": [v0, v1, ...]}, [trace0, trace1, ...]]. A visibility of
// true is shown; false and "legendonly" are hidden.
func FromRestyle(ev []any) (Interaction, bool) {
	if len(ev) != 2 {
		return Interaction{}, false
	}
	props, ok := ev[0].(map[string]any)
	if !ok {
		return Interaction{}, false
	}
	traces, ok := ev[1].([]any)
	if !ok {
		return Interaction{}, false
	}

	var values []any
	switch v := props["visible"].(type) {
	case []any:
		values = v
	case nil:
		return Interaction{}, false
	default:
		values = []any{v}
	}
	if len(values) == 0 {
		return Interaction{}, false
	}

	in := Interaction{Visible: map[int]bool{}}
	for i, tr := range traces {
		idx, ok := number(tr, time.UTC)
		if !ok {
			continue
		}
		vis := values[0]
		if i < len(values) {
			vis = values[i]
		}
		in.Visible[int(idx)] = vis == true
	}
	return in, len(in.Visible) > 0
}

func number(v any, loc *time.Location) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f, true
		}
		for _, layout := range rangeLayouts {
			if t, err := time.ParseInLocation(layout, x, loc); err == nil {
				return float64(t.UnixMicro()) / 1e6, true
			}
		}
	}
	return 0, false
}
