// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		axis Axis
	}{
		{"Gyroscope x (rad/s)", KindGyro, AxisX},
		{"Gyroscope y (rad/s)", KindGyro, AxisY},
		{"gyro_z", KindGyro, AxisZ},
		{"Linear Acceleration y (m/s^2)", KindAccel, AxisY},
		{"Acceleration x (m/s^2)", KindAccel, AxisX},
		{"Absolute (rad/s)", KindAbsolute, AxisNone},
		{"Time (s)", KindTime, AxisNone},
		{"Gyroscope", KindGyro, AxisNone},
		{"Pressure (hPa)", KindOther, AxisNone},
		{"accel-z", KindAccel, AxisZ},
		{"acc-z", KindOther, AxisNone},
		{"Horizontal Accuracy (m)", KindOther, AxisNone},
	}
	for _, tc := range cases {
		c := Classify(tc.name)
		if c.Kind != tc.kind || c.Axis != tc.axis {
			t.Fatalf("%q: expected %v/%q, got %v/%q", tc.name, tc.kind, tc.axis, c.Kind, c.Axis)
		}
	}
}

func TestFindTriple(t *testing.T) {
	names := []string{"Time (s)", "Gyroscope x (rad/s)", "Gyroscope y (rad/s)", "Gyroscope z (rad/s)", "Absolute (rad/s)"}
	tr, ok := FindTriple(names, KindGyro)
	if !ok {
		t.Fatalf("expected gyro triple")
	}
	if tr.X != names[1] || tr.Y != names[2] || tr.Z != names[3] {
		t.Fatalf("unexpected triple %+v", tr)
	}
	if _, ok := FindTriple(names, KindAccel); ok {
		t.Fatalf("expected no accel triple")
	}
	if _, ok := FindTriple(names[:3], KindGyro); ok {
		t.Fatalf("expected incomplete triple to be rejected")
	}
}

func TestIsTime(t *testing.T) {
	if !IsTime("Experiment TIME") || IsTime("Gyroscope x") {
		t.Fatalf("unexpected IsTime result")
	}
}
