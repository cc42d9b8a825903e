// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/relabs-tech/inertial_viewer/internal/dataset"
	"github.com/relabs-tech/inertial_viewer/internal/imu"
)

// Derived column names appended to a dataset.
const (
	ColAngularSpeed   = "Angular speed (rad/s)"
	ColAngleX         = "Angle x (rad)"
	ColAngleY         = "Angle y (rad)"
	ColAngleZ         = "Angle z (rad)"
	ColAngleMagnitude = "Angle magnitude (rad)"

	ColRoll  = "Roll (deg)"
	ColPitch = "Pitch (deg)"
)

// Enrich appends angular speed and integrated angles when the dataset has
// a full gyroscope x/y/z triple. Other logs (e.g. acceleration only) pass
// through unmodified and Enrich reports false.
func Enrich(d *dataset.Dataset) (bool, error) {
	tr, ok := imu.FindTriple(d.Names(), imu.KindGyro)
	if !ok {
		return false, nil
	}
	wx, _ := d.Column(tr.X)
	wy, _ := d.Column(tr.Y)
	wz, _ := d.Column(tr.Z)

	angles, err := Integrate(d.Time, wx, wy, wz)
	if err != nil {
		return false, err
	}

	derived := []struct {
		name   string
		values []float64
	}{
		{ColAngularSpeed, AngularSpeed(wx, wy, wz)},
		{ColAngleX, angles.X},
		{ColAngleY, angles.Y},
		{ColAngleZ, angles.Z},
		{ColAngleMagnitude, angles.Magnitude},
	}
	for _, c := range derived {
		if err := d.SetColumn(c.name, c.values); err != nil {
			return false, err
		}
	}
	return true, nil
}

// AppendTilt appends accelerometer roll/pitch columns when the dataset has
// a full accelerometer triple. It is opt-in and never run by Enrich.
func AppendTilt(d *dataset.Dataset) (bool, error) {
	tr, ok := imu.FindTriple(d.Names(), imu.KindAccel)
	if !ok {
		return false, nil
	}
	ax, _ := d.Column(tr.X)
	ay, _ := d.Column(tr.Y)
	az, _ := d.Column(tr.Z)

	roll := make([]float64, d.Len())
	pitch := make([]float64, d.Len())
	for i := range roll {
		p := ComputePoseFromAccel(ax[i], ay[i], az[i])
		roll[i], pitch[i] = p.Roll, p.Pitch
	}

	if err := d.SetColumn(ColRoll, roll); err != nil {
		return false, err
	}
	if err := d.SetColumn(ColPitch, pitch); err != nil {
		return false, err
	}
	return true, nil
}
