// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"math"
)

// Angles is the cumulative orientation per sample, in radians.
type Angles struct {
	X, Y, Z []float64

	// Magnitude is sqrt(X² + Y² + Z²) of the per-axis integrated angles.
	// It is not the integral of the angular speed and does not equal the
	// total rotation angle when the rotation axis changes; this is a
	// modeling simplification kept for compatibility with existing plots.
	Magnitude []float64
}

// Trapezoid integrates w over t with the trapezoidal rule, starting at 0:
//
//	angle[0] = 0
//	angle[i] = angle[i-1] + 0.5*(w[i-1]+w[i])*(t[i]-t[i-1])
//
// Each step depends on the previous sum, so this is a sequential fold.
// Running it in parallel would need a prefix-sum over the same pairwise
// trapezoid terms. Non-finite inputs propagate into the output.
func Trapezoid(t, w []float64) []float64 {
	out := make([]float64, len(t))
	var acc float64
	for i := 1; i < len(t); i++ {
		acc += 0.5 * (w[i-1] + w[i]) * (t[i] - t[i-1])
		out[i] = acc
	}
	return out
}

// Integrate turns per-axis angular velocity (rad/s) sampled at relative
// times t (s) into cumulative angles. Relative time is used, never absolute
// time, so the result does not depend on the epoch anchors.
func Integrate(t, wx, wy, wz []float64) (Angles, error) {
	if len(wx) != len(t) || len(wy) != len(t) || len(wz) != len(t) {
		return Angles{}, fmt.Errorf("integrate: length mismatch (t=%d x=%d y=%d z=%d)", len(t), len(wx), len(wy), len(wz))
	}

	a := Angles{
		X: Trapezoid(t, wx),
		Y: Trapezoid(t, wy),
		Z: Trapezoid(t, wz),
	}
	a.Magnitude = Norm(a.X, a.Y, a.Z)
	return a, nil
}

// AngularSpeed is the instantaneous |ω| per sample.
func AngularSpeed(wx, wy, wz []float64) []float64 {
	return Norm(wx, wy, wz)
}

// Norm returns sqrt(x[i]² + y[i]² + z[i]²) for each i. The slices must
// have equal length.
func Norm(x, y, z []float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
	}
	return out
}
