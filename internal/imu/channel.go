// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"strings"
	"unicode"
)

// Kind is the role a logged column plays, derived from its name.
type Kind int

const (
	KindOther Kind = iota
	KindTime
	KindGyro  // angular velocity, rad/s
	KindAccel // acceleration
	KindAbsolute
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindGyro:
		return "gyro"
	case KindAccel:
		return "accel"
	case KindAbsolute:
		return "absolute"
	}
	return "other"
}

// Axis is the sensor axis of a column, or AxisNone.
type Axis byte

const (
	AxisNone Axis = 0
	AxisX    Axis = 'x'
	AxisY    Axis = 'y'
	AxisZ    Axis = 'z'
)

// Channel is a classified column name.
type Channel struct {
	Name string
	Kind Kind
	Axis Axis
}

// IsTime reports whether a column name looks like the relative time column
// ("Time (s)", "time", "experiment time", ...).
func IsTime(name string) bool {
	return strings.Contains(strings.ToLower(name), "time")
}

// Classify maps a column header to its role. Matching is by substring on
// the lower-cased name with any "(unit)" suffix removed:
//
//	"Gyroscope x (rad/s)"             -> gyro, x
//	"gyro_z"                          -> gyro, z
//	"Linear Acceleration y (m/s^2)"   -> accel, y
//	"Absolute (rad/s)"                -> absolute
//	"Time (s)"                        -> time
func Classify(name string) Channel {
	c := Channel{Name: name}
	base := strings.ToLower(stripUnit(name))

	switch {
	case strings.Contains(base, "gyro"):
		c.Kind = KindGyro
	case strings.Contains(base, "accel"):
		c.Kind = KindAccel
	case strings.Contains(base, "absolute"):
		c.Kind = KindAbsolute
	case IsTime(base):
		c.Kind = KindTime
	}

	if c.Kind == KindGyro || c.Kind == KindAccel {
		c.Axis = axisSuffix(base)
	}
	return c
}

// Triple holds the column names for one x/y/z sensor.
type Triple struct {
	X, Y, Z string
}

// FindTriple returns the first x, y and z columns of the given kind, and
// false unless all three axes are present.
func FindTriple(names []string, kind Kind) (Triple, bool) {
	var t Triple
	for _, n := range names {
		c := Classify(n)
		if c.Kind != kind {
			continue
		}
		switch c.Axis {
		case AxisX:
			if t.X == "" {
				t.X = n
			}
		case AxisY:
			if t.Y == "" {
				t.Y = n
			}
		case AxisZ:
			if t.Z == "" {
				t.Z = n
			}
		}
	}
	return t, t.X != "" && t.Y != "" && t.Z != ""
}

func stripUnit(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// axisSuffix returns the axis named by the last word of the name, so that
// "gyroscope x", "gyro_y" and "accel-z" all resolve.
func axisSuffix(base string) Axis {
	words := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) < 2 {
		return AxisNone
	}
	switch words[len(words)-1] {
	case "x":
		return AxisX
	case "y":
		return AxisY
	case "z":
		return AxisZ
	}
	return AxisNone
}
