// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package viewstate

import (
	"context"
	"sync"
)

// Entry is what a Store keeps per session: the identity of the dataset the
// state belongs to, and the state itself.
type Entry struct {
	Identity string    `json:"identity"`
	State    ViewState `json:"state"`
}

// Store persists one Entry per session for the lifetime of that session.
type Store interface {
	Load(ctx context.Context, sessionID string) (Entry, bool, error)
	Save(ctx context.Context, sessionID string, e Entry) error
	Delete(ctx context.Context, sessionID string) error
}

// Cache is the only mutable state shared between interactions of a
// session. Read-merge-write cycles are serialised, so concurrent
// interactions resolve as last-write-wins per field.
type Cache struct {
	store Store
	mu    sync.Mutex
}

// NewCache wraps a store. A nil store means an in-memory one.
func NewCache(store Store) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{store: store}
}

// GetOrReset returns the state saved for identity in this session. If the
// session holds state for a different identity (or none), it is discarded
// and an empty state is stored and returned.
func (c *Cache) GetOrReset(ctx context.Context, sessionID, identity string) (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getOrReset(ctx, sessionID, identity)
}

func (c *Cache) getOrReset(ctx context.Context, sessionID, identity string) (ViewState, error) {
	e, ok, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return ViewState{}, err
	}
	if ok && e.Identity == identity {
		return e.State.Clone(), nil
	}
	if err := c.store.Save(ctx, sessionID, Entry{Identity: identity}); err != nil {
		return ViewState{}, err
	}
	return ViewState{}, nil
}

// Apply merges one interaction into the session's state for identity and
// stores the result.
func (c *Cache) Apply(ctx context.Context, sessionID, identity string, in Interaction) (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.getOrReset(ctx, sessionID, identity)
	if err != nil {
		return ViewState{}, err
	}
	next := Merge(cur, in)
	if err := c.store.Save(ctx, sessionID, Entry{Identity: identity, State: next}); err != nil {
		return ViewState{}, err
	}
	return next, nil
}

// Drop forgets the session.
func (c *Cache) Drop(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(ctx, sessionID)
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[sessionID]
	if ok {
		e.State = e.State.Clone()
	}
	return e, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.State = e.State.Clone()
	m.entries[sessionID] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
