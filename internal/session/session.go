// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package session owns one user's loaded dataset and drives the
// parse -> resolve -> align -> integrate pipeline on every upload.
//
// A committed dataset is never modified. Loads build a new one and swap it
// in only when every step succeeded, so a failed upload leaves whatever
// was loaded before untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/inertial_viewer/internal/dataset"
	"github.com/relabs-tech/inertial_viewer/internal/meta"
	"github.com/relabs-tech/inertial_viewer/internal/orientation"
	"github.com/relabs-tech/inertial_viewer/internal/table"
	"github.com/relabs-tech/inertial_viewer/internal/viewstate"
	"github.com/relabs-tech/inertial_viewer/internal/window"
	"golang.org/x/sync/errgroup"
)

// ErrNoDataset is returned by queries that arrive before a successful load.
var ErrNoDataset = errors.New("no dataset loaded")

const (
	StatusWaiting = "Waiting for both files..."
	StatusLoaded  = "Files loaded successfully."
)

// Options are the processing switches applied to every load.
type Options struct {
	Integrate bool
	AccelTilt bool
	DriftWarn float64        // seconds; |drift| above this is flagged
	Location  *time.Location // display zone for absolute timestamps
}

// Upload is one uploaded file.
type Upload struct {
	Name string
	Data []byte
}

func (u Upload) empty() bool {
	return len(u.Data) == 0
}

// Input is what a load needs. Integrate overrides Options.Integrate when set.
type Input struct {
	Raw       Upload
	Meta      Upload
	Integrate *bool
}

// Report describes the outcome of a load for the status panel.
type Report struct {
	OK         bool                 `json:"ok"`
	Status     string               `json:"status"`
	RawLabel   string               `json:"raw_label"`
	MetaLabel  string               `json:"meta_label"`
	Identity   string               `json:"identity,omitempty"`
	Rows       int                  `json:"rows"`
	Columns    []string             `json:"columns,omitempty"`
	TimeMin    float64              `json:"time_min"`
	TimeMax    float64              `json:"time_max"`
	Window     window.QueryWindow   `json:"window"`
	Anchors    *meta.SessionAnchors `json:"anchors,omitempty"`
	Drift      float64              `json:"drift"`
	Warning    bool                 `json:"drift_warning"`
	Integrated bool                 `json:"integrated"`
	Tilt       bool                 `json:"tilt"`
	View       viewstate.ViewState  `json:"view"`
}

// WindowView is everything the renderer needs for one slider position.
type WindowView struct {
	Window    window.QueryWindow        `json:"window"`
	Label     string                    `json:"label"`
	Rows      int                       `json:"rows"`
	Frame     dataset.Frame             `json:"frame"`
	Stats     map[string]window.Summary `json:"stats"`
	StatsText string                    `json:"stats_text"`
	View      viewstate.ViewState       `json:"view"`
}

// Session is one user's workspace.
type Session struct {
	ID string

	opts  Options
	views *viewstate.Cache

	// loading serialises whole loads; mu guards the committed fields.
	loading sync.Mutex
	mu      sync.RWMutex

	data     *dataset.Dataset
	anchors  meta.SessionAnchors
	identity string
	last     Report
}

// New creates an empty session. views may be shared between sessions.
func New(id string, views *viewstate.Cache, opts Options) *Session {
	if views == nil {
		views = viewstate.NewCache(nil)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Session{
		ID:    id,
		opts:  opts,
		views: views,
		last:  Report{Status: StatusWaiting, Window: window.QueryWindow{Min: 0, Max: 1}, TimeMax: 1},
	}
}

// Load runs the pipeline on a pair of uploads. On failure the returned
// report carries the diagnostic, the error wraps one of table.ErrParse,
// meta.ErrMetadata or dataset.ErrAlignment, and the previously loaded
// dataset stays active. A missing upload is not an error.
func (s *Session) Load(ctx context.Context, in Input) (Report, error) {
	s.loading.Lock()
	defer s.loading.Unlock()

	rep := Report{RawLabel: label("RAW", in.Raw.Name), MetaLabel: label("META", in.Meta.Name)}
	if in.Raw.empty() || in.Meta.empty() {
		rep.Status = StatusWaiting
		return rep, nil
	}

	var (
		tbl     *table.Table
		anchors meta.SessionAnchors
		rawErr  error
		metaErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		tbl, rawErr = table.Parse(in.Raw.Data)
		return rawErr
	})
	g.Go(func() error {
		anchors, metaErr = meta.ResolveBytes(in.Meta.Data)
		return metaErr
	})
	_ = g.Wait()

	switch {
	case rawErr != nil:
		return s.fail(rep, "Error parsing RAW", rawErr)
	case errors.Is(metaErr, table.ErrParse):
		return s.fail(rep, "Error parsing META", metaErr)
	case metaErr != nil:
		return s.fail(rep, "Error reading META", metaErr)
	}

	d, err := dataset.AlignAnchors(tbl, in.Raw.Name, anchors)
	if err != nil {
		return s.fail(rep, "Error aligning RAW", err)
	}

	integrate := s.opts.Integrate
	if in.Integrate != nil {
		integrate = *in.Integrate
	}
	if integrate {
		if rep.Integrated, err = orientation.Enrich(d); err != nil {
			return s.fail(rep, "Error integrating RAW", err)
		}
	}
	if s.opts.AccelTilt {
		if rep.Tilt, err = orientation.AppendTilt(d); err != nil {
			return s.fail(rep, "Error computing tilt", err)
		}
	}

	identity := viewstate.Identity(in.Raw.Name, d.Len())
	view, err := s.views.GetOrReset(ctx, s.ID, identity)
	if err != nil {
		log.Printf("session %s: view state unavailable: %v", s.ID, err)
		view = viewstate.ViewState{}
	}

	rep.OK = true
	rep.Identity = identity
	rep.Rows = d.Len()
	rep.Columns = d.Names()
	rep.TimeMin = 0
	rep.TimeMax = d.MaxTime()
	rep.Window = window.Full(d)
	rep.Anchors = &anchors
	rep.Drift = dataset.Drift(d, anchors)
	rep.Warning = math.Abs(rep.Drift) > s.opts.DriftWarn
	rep.View = view
	rep.Status = s.loadedStatus(d, anchors, rep)

	s.mu.Lock()
	s.data = d
	s.anchors = anchors
	s.identity = identity
	s.last = rep
	s.mu.Unlock()

	log.Printf("session %s: loaded %s (%d rows, identity %s, drift %.3f s)", s.ID, in.Raw.Name, d.Len(), identity, rep.Drift)
	if rep.Warning {
		log.Printf("session %s: WARNING clock drift %.3f s exceeds %.3f s", s.ID, rep.Drift, s.opts.DriftWarn)
	}
	return rep, nil
}

func (s *Session) fail(rep Report, what string, err error) (Report, error) {
	rep.Status = fmt.Sprintf("%s: %v", what, err)
	log.Printf("session %s: %s", s.ID, rep.Status)
	return rep, err
}

func (s *Session) loadedStatus(d *dataset.Dataset, a meta.SessionAnchors, rep Report) string {
	var b strings.Builder
	b.WriteString(StatusLoaded)
	fmt.Fprintf(&b, " START: %s | PAUSE: %s | computed end: %s | drift: %.3f s",
		s.stamp(a.Start), s.stamp(a.Pause), s.stamp(d.End()), rep.Drift)
	if rep.Warning {
		fmt.Fprintf(&b, " (WARNING: exceeds %.3f s)", s.opts.DriftWarn)
	}
	return b.String()
}

func (s *Session) stamp(epoch float64) string {
	return meta.ToTime(epoch, s.opts.Location).Format(dataset.AbsoluteLayout)
}

func label(kind, name string) string {
	if name == "" {
		return ""
	}
	return kind + ": " + name
}

// Report returns the outcome of the last successful load, or the waiting
// status if nothing was loaded yet.
func (s *Session) Report() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Location is the zone absolute times are rendered in.
func (s *Session) Location() *time.Location {
	return s.opts.Location
}

func (s *Session) snapshot() (*dataset.Dataset, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, "", ErrNoDataset
	}
	return s.data, s.identity, nil
}

// FullWindow is the window covering the whole loaded dataset.
func (s *Session) FullWindow() (window.QueryWindow, error) {
	d, _, err := s.snapshot()
	if err != nil {
		return window.QueryWindow{}, err
	}
	return window.Full(d), nil
}

// Window slices the loaded dataset to w and summarises it.
func (s *Session) Window(ctx context.Context, w window.QueryWindow) (WindowView, error) {
	d, identity, err := s.snapshot()
	if err != nil {
		return WindowView{}, err
	}

	res, err := window.Query(d, w)
	if err != nil {
		return WindowView{}, err
	}

	view, err := s.views.GetOrReset(ctx, s.ID, identity)
	if err != nil {
		log.Printf("session %s: view state unavailable: %v", s.ID, err)
		view = viewstate.ViewState{}
	}

	return WindowView{
		Window:    res.Window,
		Label:     window.Label(res.Window),
		Rows:      res.Rows,
		Frame:     res.Slice.Frame(s.opts.Location),
		Stats:     res.Stats,
		StatsText: window.FormatStats(res),
		View:      view,
	}, nil
}

// Interact merges one interaction into the view state of the loaded dataset.
func (s *Session) Interact(ctx context.Context, in viewstate.Interaction) (viewstate.ViewState, error) {
	_, identity, err := s.snapshot()
	if err != nil {
		return viewstate.ViewState{}, err
	}
	return s.views.Apply(ctx, s.ID, identity, in)
}

// Relayout merges a Plotly relayout event. Date ranges are read in the
// session's display zone, the zone the absolute axis was drawn in. An event
// with nothing to merge returns the current state.
func (s *Session) Relayout(ctx context.Context, ev map[string]any) (viewstate.ViewState, error) {
	in, ok := viewstate.FromRelayout(ev, s.opts.Location)
	if !ok {
		return s.View(ctx)
	}
	return s.Interact(ctx, in)
}

// View returns the current view state of the loaded dataset.
func (s *Session) View(ctx context.Context) (viewstate.ViewState, error) {
	_, identity, err := s.snapshot()
	if err != nil {
		return viewstate.ViewState{}, err
	}
	return s.views.GetOrReset(ctx, s.ID, identity)
}

// Close forgets the session's view state.
func (s *Session) Close(ctx context.Context) error {
	return s.views.Drop(ctx, s.ID)
}
