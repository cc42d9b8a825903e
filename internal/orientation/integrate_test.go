// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"

	"github.com/relabs-tech/inertial_viewer/internal/dataset"
	"github.com/relabs-tech/inertial_viewer/internal/table"
)

const eps = 1e-12

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestIntegrateExample(t *testing.T) {
	times := []float64{0.0, 0.1, 0.2}
	wx := []float64{0.10, 0.20, 0.15}
	wy := []float64{0, 0.05, 0.10}
	wz := []float64{0, 0, 0}

	a, err := Integrate(times, wx, wy, wz)
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}

	wantX := []float64{0, 0.015, 0.0325}
	wantY := []float64{0, 0.0025, 0.01}
	for i := range times {
		if !near(a.X[i], wantX[i], eps) || !near(a.Y[i], wantY[i], eps) || a.Z[i] != 0 {
			t.Fatalf("sample %d: got (%g, %g, %g)", i, a.X[i], a.Y[i], a.Z[i])
		}
		want := math.Sqrt(a.X[i]*a.X[i] + a.Y[i]*a.Y[i] + a.Z[i]*a.Z[i])
		if a.Magnitude[i] != want {
			t.Fatalf("sample %d: magnitude %g != norm of angles %g", i, a.Magnitude[i], want)
		}
	}
}

func TestIntegrateConstantRate(t *testing.T) {
	const (
		w  = 0.7
		dt = 0.01
		n  = 1001
	)
	times := make([]float64, n)
	ws := make([]float64, n)
	zeros := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
		ws[i] = w
	}

	a, err := Integrate(times, ws, zeros, ws)
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}
	total := times[n-1]
	if !near(a.X[n-1], w*total, 1e-9) || !near(a.Z[n-1], w*total, 1e-9) {
		t.Fatalf("expected %g, got x=%g z=%g", w*total, a.X[n-1], a.Z[n-1])
	}
	if a.Y[n-1] != 0 {
		t.Fatalf("expected zero angle on idle axis")
	}
}

func TestIntegrateBaseCases(t *testing.T) {
	a, err := Integrate(nil, nil, nil, nil)
	if err != nil || len(a.X) != 0 || len(a.Magnitude) != 0 {
		t.Fatalf("expected empty result, got %+v, %v", a, err)
	}

	a, err = Integrate([]float64{3.2}, []float64{5}, []float64{-1}, []float64{2})
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}
	if a.X[0] != 0 || a.Y[0] != 0 || a.Z[0] != 0 || a.Magnitude[0] != 0 {
		t.Fatalf("expected zero angles for a single sample, got %+v", a)
	}

	if _, err := Integrate([]float64{0, 1}, []float64{1}, []float64{1, 1}, []float64{1, 1}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestIntegratePropagatesNaN(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	wx := []float64{0, math.NaN(), 0, 0}
	a, err := Integrate(times, wx, make([]float64, 4), make([]float64, 4))
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}
	if a.X[0] != 0 {
		t.Fatalf("expected first angle untouched")
	}
	for i := 1; i < 4; i++ {
		if !math.IsNaN(a.X[i]) || !math.IsNaN(a.Magnitude[i]) {
			t.Fatalf("expected NaN to propagate at %d, got %g", i, a.X[i])
		}
	}
}

func TestAngularSpeedIdentity(t *testing.T) {
	wx := []float64{0.1, -0.3, 1.7, 0}
	wy := []float64{0.2, 0.05, -2.2, 0}
	wz := []float64{0.3, 0.9, 0.4, 0}
	got := AngularSpeed(wx, wy, wz)
	for i := range wx {
		if got[i] != math.Sqrt(wx[i]*wx[i]+wy[i]*wy[i]+wz[i]*wz[i]) {
			t.Fatalf("sample %d: %g", i, got[i])
		}
	}
}

func TestEnrich(t *testing.T) {
	tbl, err := table.Parse([]byte(SyntheticGyroLog([3]float64{0.5, 0, -0.25}, 0, 0.02, 51)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d, err := dataset.Align(tbl, "gyro.csv", 1000)
	if err != nil {
		t.Fatalf("align: %v", err)
	}

	ok, err := Enrich(d)
	if err != nil || !ok {
		t.Fatalf("expected enrichment, got %v %v", ok, err)
	}
	for _, name := range []string{ColAngularSpeed, ColAngleX, ColAngleY, ColAngleZ, ColAngleMagnitude} {
		if _, ok := d.Column(name); !ok {
			t.Fatalf("missing derived column %q", name)
		}
	}
	ax, _ := d.Column(ColAngleX)
	az, _ := d.Column(ColAngleZ)
	if !near(ax[50], 0.5, 1e-6) || !near(az[50], -0.25, 1e-6) {
		t.Fatalf("expected 1s of rotation, got x=%g z=%g", ax[50], az[50])
	}
}

func TestEnrichPassesThroughAccelLogs(t *testing.T) {
	tbl, err := table.Parse([]byte("Time (s),Acceleration x (m/s^2),Acceleration y (m/s^2),Acceleration z (m/s^2)\n0,0,0,9.81\n0.1,0,0,9.81\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d, err := dataset.Align(tbl, "acc.csv", 0)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	before := d.Names()

	ok, err := Enrich(d)
	if err != nil || ok {
		t.Fatalf("expected pass-through, got %v %v", ok, err)
	}
	if len(d.Names()) != len(before) {
		t.Fatalf("expected dataset unmodified, got %q", d.Names())
	}

	ok, err = AppendTilt(d)
	if err != nil || !ok {
		t.Fatalf("expected tilt columns, got %v %v", ok, err)
	}
	roll, _ := d.Column(ColRoll)
	pitch, _ := d.Column(ColPitch)
	if roll[0] != 0 || pitch[0] != 0 {
		t.Fatalf("expected level tilt, got roll=%g pitch=%g", roll[0], pitch[0])
	}
}

func TestComputePoseFromAccel(t *testing.T) {
	p := ComputePoseFromAccel(0, 1, 0)
	if !near(p.Roll, 90, 1e-9) || !near(p.Pitch, 0, 1e-9) {
		t.Fatalf("unexpected pose %+v", p)
	}
}
