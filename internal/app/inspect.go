// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/relabs-tech/inertial_viewer/internal/config"
	"github.com/relabs-tech/inertial_viewer/internal/session"
)

// InspectOptions select the files and window for RunInspect. NaN bounds
// mean the start/end of the recording.
type InspectOptions struct {
	RawPath   string
	MetaPath  string
	From      float64
	To        float64
	Integrate *bool
}

// RunInspect loads a raw + metadata pair from disk and prints the status
// line, the window label and the statistics table.
func RunInspect(ctx context.Context, out io.Writer, cfg *config.Config, opts InspectOptions) error {
	raw, err := readUpload(opts.RawPath)
	if err != nil {
		return err
	}
	metaFile, err := readUpload(opts.MetaPath)
	if err != nil {
		return err
	}

	sess := session.New("inspect", nil, SessionOptions(cfg))
	rep, err := sess.Load(ctx, session.Input{Raw: raw, Meta: metaFile, Integrate: opts.Integrate})
	fmt.Fprintln(out, rep.Status)
	if err != nil {
		return err
	}
	if !rep.OK {
		return fmt.Errorf("nothing loaded")
	}

	fmt.Fprintf(out, "%s\n%s\n", rep.RawLabel, rep.MetaLabel)
	fmt.Fprintf(out, "rows: %d  drift: %.3f s\n", rep.Rows, rep.Drift)

	q := rep.Window
	if !math.IsNaN(opts.From) {
		q.Min = opts.From
	}
	if !math.IsNaN(opts.To) {
		q.Max = opts.To
	}
	view, err := sess.Window(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s  (%d samples)\n\n%s", view.Label, view.Rows, view.StatsText)
	return nil
}

func readUpload(path string) (session.Upload, error) {
	if path == "" {
		return session.Upload{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return session.Upload{Name: filepath.Base(path), Data: data}, nil
}
