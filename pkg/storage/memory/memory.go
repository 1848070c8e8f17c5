// Package memory provides an in-memory implementation of storage.Store
// for lightweight use and testing. Sessions are lost when the process
// exits. Optional LRU eviction limits memory usage.
package memory

import (
	"container/list"
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/plauder-dev/plauder/pkg/storage"
)

// entry holds a stored session and its LRU position.
type entry struct {
	session *storage.Session
	lruElem *list.Element
}

// Store is an in-memory session store with optional LRU eviction.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	lruList *list.List // front = most recently used
	maxSize int        // 0 = unlimited
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an in-memory store. If maxSize is 0, the store grows
// without limit. If maxSize > 0, the least recently saved session is
// evicted when the limit is reached.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		maxSize: maxSize,
	}
}

// Save upserts a session, moving it to the front of the LRU order.
func (s *Store) Save(_ context.Context, session *storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneSession(session)
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	if e, exists := s.entries[session.ID]; exists {
		stored.CreatedAt = e.session.CreatedAt
		e.session = stored
		s.lruList.MoveToFront(e.lruElem)
		return nil
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	elem := s.lruList.PushFront(session.ID)
	s.entries[session.ID] = &entry{session: stored, lruElem: elem}
	return nil
}

// Get retrieves a session by ID. Returns ErrNotFound when absent.
func (s *Store) Get(_ context.Context, id string) (*storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneSession(e.session), nil
}

// List returns all sessions, most recently updated first.
func (s *Store) List(_ context.Context) ([]*storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*storage.Session, 0, len(s.entries))
	for _, e := range s.entries {
		sessions = append(sessions, cloneSession(e.session))
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	return sessions, nil
}

// Delete removes a session. Returns ErrNotFound when absent.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return storage.ErrNotFound
	}

	s.lruList.Remove(e.lruElem)
	delete(s.entries, id)
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// evictOldest removes the least recently used session.
// Must be called with s.mu held.
func (s *Store) evictOldest() {
	back := s.lruList.Back()
	if back == nil {
		return
	}

	id := back.Value.(string)
	s.lruList.Remove(back)
	delete(s.entries, id)
}

// cloneSession copies a session so callers cannot mutate stored state.
func cloneSession(in *storage.Session) *storage.Session {
	out := *in
	out.Messages = slices.Clone(in.Messages)
	return &out
}
