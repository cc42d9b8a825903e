// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package window

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
)

// Label is the slider caption for a window.
func Label(w QueryWindow) string {
	return fmt.Sprintf("Start: %.3f s | End: %.3f s | Window: %.3f s", w.Min, w.Max, w.Duration())
}

// FormatStats renders the statistics as a text table with one column per
// channel and rows "mean" and "std".
func FormatStats(r Result) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "\t")
	for _, name := range r.Columns {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw)

	for _, row := range []string{"mean", "std"} {
		fmt.Fprintf(tw, "%s\t", row)
		for _, name := range r.Columns {
			s := r.Stats[name]
			v := float64(s.Mean)
			if row == "std" {
				v = float64(s.Std)
			}
			fmt.Fprintf(tw, "%s\t", formatValue(v))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	return b.String()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
