// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/relabs-tech/inertial_viewer/internal/viewstate"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Registry holds the live sessions of one process.
type Registry struct {
	opts  Options
	views *viewstate.Cache

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(views *viewstate.Cache, opts Options) *Registry {
	if views == nil {
		views = viewstate.NewCache(nil)
	}
	return &Registry{opts: opts, views: views, sessions: map[string]*Session{}}
}

// Create starts a new session with a random ID.
func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.views, r.opts)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session and its cached view state.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return s.Close(ctx)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
