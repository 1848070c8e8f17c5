// Package storage defines session persistence for plauder conversations.
//
// A Session is a snapshot of one conversation: its model, system prompt,
// and full message history. Adapters (memory, postgres) implement the
// Store interface; the engine itself never touches storage, the CLI
// persists after each exchange.
package storage

import (
	"context"
	"time"

	"github.com/plauder-dev/plauder/pkg/api"
)

// Session is a persisted conversation.
type Session struct {
	ID        string        `json:"id"`
	Model     string        `json:"model"`
	System    string        `json:"system,omitempty"`
	Messages  []api.Message `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store persists conversation sessions.
type Store interface {
	// Save upserts a session. An existing session with the same ID is
	// replaced; UpdatedAt is set by the store.
	Save(ctx context.Context, session *Session) error

	// Get retrieves a session by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Delete removes a session. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
