// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relabs-tech/inertial_viewer/internal/config"
	"github.com/relabs-tech/inertial_viewer/internal/dataset"
	"github.com/relabs-tech/inertial_viewer/internal/meta"
	"github.com/relabs-tech/inertial_viewer/internal/session"
	"github.com/relabs-tech/inertial_viewer/internal/table"
	"github.com/relabs-tech/inertial_viewer/internal/viewstate"
	"github.com/relabs-tech/inertial_viewer/internal/window"
)

// Server is the HTTP surface over a session registry.
type Server struct {
	cfg      *config.Config
	sessions *session.Registry
	pub      Publisher
}

func NewServer(cfg *config.Config, sessions *session.Registry, pub Publisher) *Server {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &Server{cfg: cfg, sessions: sessions, pub: pub}
}

// Routes returns the API mux. Static files from WEB_ROOT are served at /
// when the directory exists.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("POST /api/sessions/{id}/upload", s.handleUpload)
	mux.HandleFunc("GET /api/sessions/{id}/report", s.handleReport)
	mux.HandleFunc("GET /api/sessions/{id}/window", s.handleWindow)
	mux.HandleFunc("POST /api/sessions/{id}/interaction", s.handleInteraction)
	mux.HandleFunc("GET /api/sessions/{id}/view", s.handleView)
	mux.HandleFunc("GET /api/sessions/{id}/ws", s.handleWS)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)

	if st, err := os.Stat(s.cfg.WebRoot); err == nil && st.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.WebRoot)))
	}
	return mux
}

// RunWeb wires the configured stores and publisher and serves until
// SIGINT/SIGTERM.
func RunWeb() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}

	views, closeViews, err := newViewCache(cfg)
	if err != nil {
		return err
	}
	defer closeViews()

	var pub Publisher = noopPublisher{}
	if cfg.MQTTBroker != "" {
		if pub, err = ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb); err != nil {
			return err
		}
	}
	defer pub.Close()

	reg := session.NewRegistry(views, SessionOptions(cfg))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           NewServer(cfg, reg, pub).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("web: listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("web: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// SessionOptions maps configuration onto the load pipeline switches.
func SessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		Integrate: cfg.Integrate,
		AccelTilt: cfg.AccelTilt,
		DriftWarn: cfg.DriftWarnSeconds,
		Location:  cfg.Location(),
	}
}

func newViewCache(cfg *config.Config) (*viewstate.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return viewstate.NewCache(viewstate.NewMemoryStore()), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	log.Printf("web: view states stored in redis at %s", cfg.RedisAddr)
	return viewstate.NewCache(viewstate.NewRedisStore(client, cfg.ViewStateTTL())), func() { client.Close() }, nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	log.Printf("web: session %s created (%d live)", sess.ID, s.sessions.Len())
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		http.Error(w, fmt.Sprintf("invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	raw, err := formFile(r, "raw")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metaFile, err := formFile(r, "meta")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := session.Input{Raw: raw, Meta: metaFile}
	if v := r.FormValue("integrate"); v != "" {
		integrate, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid integrate value %q", v), http.StatusBadRequest)
			return
		}
		in.Integrate = &integrate
	}

	rep, err := sess.Load(r.Context(), in)
	publishReport(s.pub, s.cfg.TopicStatus, sess.ID, rep)
	if err != nil {
		writeJSON(w, statusFor(err), rep)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// formFile reads one multipart file; a missing field is an empty upload.
func formFile(r *http.Request, field string) (session.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return session.Upload{}, nil
	}
	if err != nil {
		return session.Upload{}, fmt.Errorf("%s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return session.Upload{}, fmt.Errorf("%s: %w", field, err)
	}
	return session.Upload{Name: hdr.Filename, Data: data}, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Report())
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q, err := sess.FullWindow()
	if err != nil {
		writeError(w, err)
		return
	}
	for key, dst := range map[string]*float64{"t_min": &q.Min, "t_max": &q.Max} {
		v := r.URL.Query().Get(key)
		if v == "" {
			continue
		}
		if *dst, err = strconv.ParseFloat(v, 64); err != nil {
			http.Error(w, fmt.Sprintf("invalid %s %q", key, v), http.StatusBadRequest)
			return
		}
	}

	view, err := sess.Window(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// InteractionRequest carries one Plotly event or an already translated
// interaction.
type InteractionRequest struct {
	Relayout    map[string]any         `json:"relayout,omitempty"`
	Restyle     []any                  `json:"restyle,omitempty"`
	Interaction *viewstate.Interaction `json:"interaction,omitempty"`
}

// Translate returns the interaction to merge; false means nothing to merge.
// Relayout dates without an offset are read in loc.
func (req InteractionRequest) Translate(loc *time.Location) (viewstate.Interaction, bool) {
	switch {
	case req.Interaction != nil:
		return *req.Interaction, true
	case req.Relayout != nil:
		return viewstate.FromRelayout(req.Relayout, loc)
	case req.Restyle != nil:
		return viewstate.FromRestyle(req.Restyle)
	}
	return viewstate.Interaction{}, false
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid interaction: %v", err), http.StatusBadRequest)
		return
	}

	in, ok := req.Translate(sess.Location())
	if !ok {
		view, err := sess.View(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, err := sess.Interact(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	view, err := sess.View(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("web: session %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoDataset):
		return http.StatusConflict
	case errors.Is(err, window.ErrRange):
		return http.StatusBadRequest
	case errors.Is(err, table.ErrParse),
		errors.Is(err, meta.ErrMetadata),
		errors.Is(err, dataset.ErrAlignment):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("web: %v", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}
