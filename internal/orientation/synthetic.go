// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"math"
	"strings"
)

// SyntheticGyroLog renders n samples of a gyroscope log in the phone
// logger's semicolon layout. Each axis rotates at a constant rate plus a
// sine wobble of the given amplitude (pass 0 for a pure constant rate).
// It is used for demos and tests.
func SyntheticGyroLog(rate [3]float64, wobble float64, dt float64, n int) string {
	var b strings.Builder
	b.WriteString("Time (s);Gyroscope x (rad/s);Gyroscope y (rad/s);Gyroscope z (rad/s);Absolute (rad/s)\n")
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		w := [3]float64{
			rate[0] + wobble*math.Sin(t),
			rate[1] + wobble*math.Cos(t*0.7),
			rate[2] + wobble*math.Sin(t*1.3),
		}
		abs := math.Sqrt(w[0]*w[0] + w[1]*w[1] + w[2]*w[2])
		fmt.Fprintf(&b, "%.6f;%.9f;%.9f;%.9f;%.9f\n", t, w[0], w[1], w[2], abs)
	}
	return b.String()
}
