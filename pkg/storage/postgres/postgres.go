// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and JSONB for message storage.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plauder-dev/plauder/pkg/storage"
)

// Store is a PostgreSQL-backed session store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Save upserts a session, preserving created_at on updates.
func (s *Store) Save(ctx context.Context, session *storage.Session) error {
	messagesJSON, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}

	now := time.Now()
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (id, model, system_prompt, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			model = EXCLUDED.model,
			system_prompt = EXCLUDED.system_prompt,
			messages = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at
	`,
		session.ID, session.Model, session.System, messagesJSON, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID. Returns storage.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id string) (*storage.Session, error) {
	var session storage.Session
	var messagesJSON []byte

	err := s.pool.QueryRow(ctx, `
		SELECT id, model, system_prompt, messages, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(
		&session.ID, &session.Model, &session.System,
		&messagesJSON, &session.CreatedAt, &session.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if err := json.Unmarshal(messagesJSON, &session.Messages); err != nil {
		return nil, fmt.Errorf("unmarshaling messages: %w", err)
	}

	return &session, nil
}

// List returns all sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*storage.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, model, system_prompt, messages, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*storage.Session
	for rows.Next() {
		var session storage.Session
		var messagesJSON []byte

		if err := rows.Scan(
			&session.ID, &session.Model, &session.System,
			&messagesJSON, &session.CreatedAt, &session.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal(messagesJSON, &session.Messages); err != nil {
			return nil, fmt.Errorf("unmarshaling messages: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session. Returns storage.ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
