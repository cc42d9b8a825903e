// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/inertial_viewer/internal/app"
)

func main() {
	dir := flag.String("out", ".", "output directory")
	wx := flag.Float64("wx", 0.3, "x rate in rad/s")
	wy := flag.Float64("wy", -0.1, "y rate in rad/s")
	wz := flag.Float64("wz", 0.05, "z rate in rad/s")
	wobble := flag.Float64("wobble", 0.02, "sine wobble amplitude in rad/s")
	dt := flag.Float64("dt", 0.01, "sample interval in seconds")
	n := flag.Int("n", 1000, "number of samples")
	drift := flag.Float64("drift", 0.155, "seconds between the last sample and PAUSE")
	flag.Parse()

	log.Println("starting inertial-viewer mock recording")

	raw, meta, err := app.RunMockRecording(*dir, app.MockRecording{
		Rate:    [3]float64{*wx, *wy, *wz},
		Wobble:  *wobble,
		DT:      *dt,
		Samples: *n,
		Drift:   *drift,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	log.Printf("upload %s as RAW and %s as META", raw, meta)
}
