// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/relabs-tech/inertial_viewer/internal/orientation"
)

// MockRecording describes a synthetic gyroscope session.
type MockRecording struct {
	Rate    [3]float64 // rad/s per axis
	Wobble  float64    // rad/s sine amplitude added to each axis
	DT      float64    // seconds between samples
	Samples int
	Drift   float64   // seconds added to PAUSE after the last sample
	Start   time.Time // START anchor; zero means now
}

// RunMockRecording writes gyro_raw.csv and gyro_meta.csv into dir so the
// viewer can be tried without a phone.
func RunMockRecording(dir string, m MockRecording) (rawPath, metaPath string, err error) {
	if m.Samples < 1 || m.DT <= 0 {
		return "", "", fmt.Errorf("mock recording needs samples >= 1 and dt > 0")
	}
	if m.Start.IsZero() {
		m.Start = time.Now()
	}

	// Anchors are written with millisecond precision; compare what is written.
	start := math.Round(float64(m.Start.UnixMicro())/1e3) / 1e3
	pause := math.Round((start+float64(m.Samples-1)*m.DT+m.Drift)*1e3) / 1e3
	if pause <= start {
		return "", "", fmt.Errorf("mock recording PAUSE (%.3f) must be after START (%.3f); raise samples or drift", pause, start)
	}

	rawPath = filepath.Join(dir, "gyro_raw.csv")
	metaPath = filepath.Join(dir, "gyro_meta.csv")

	raw := orientation.SyntheticGyroLog(m.Rate, m.Wobble, m.DT, m.Samples)
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		return "", "", err
	}
	metaText := fmt.Sprintf("event;system time\nSTART;%.3f\nPAUSE;%.3f\n", start, pause)
	if err := os.WriteFile(metaPath, []byte(metaText), 0o644); err != nil {
		return "", "", err
	}

	log.Printf("mock: wrote %d samples to %s (drift %.3f s)", m.Samples, rawPath, m.Drift)
	return rawPath, metaPath, nil
}
