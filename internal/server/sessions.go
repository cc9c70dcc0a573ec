package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/shop-scout/internal/db"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

// Snapshot is a persisted session: the serialized context plus where the
// run stopped. Suspended sessions resume from Stage.
type Snapshot struct {
	ID      string           `json:"id"`
	Stage   string           `json:"stage"`
	Status  string           `json:"status"`
	Context *session.Context `json:"context"`
}

// Session statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDone      = "done"
	StatusFailed    = "failed"
)

// SessionStore persists session snapshots in SQLite so a suspended session
// survives across stateless requests (and restarts).
type SessionStore struct {
	db *db.DB
}

// NewSessionStore creates a session store over the given database.
func NewSessionStore(database *db.DB) *SessionStore {
	return &SessionStore{db: database}
}

// Save upserts a snapshot.
func (s *SessionStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap.Context)
	if err != nil {
		return fmt.Errorf("serializing session %s: %w", snap.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, stage, context, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   stage = excluded.stage, context = excluded.context,
		   status = excluded.status, updated_at = datetime('now')`,
		snap.ID, snap.Stage, string(data), snap.Status,
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", snap.ID, err)
	}
	return nil
}

// Get loads a snapshot, or nil when the session is unknown.
func (s *SessionStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	var contextJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, stage, context, status FROM sessions WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Stage, &contextJSON, &snap.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}

	snap.Context = &session.Context{}
	if err := json.Unmarshal([]byte(contextJSON), snap.Context); err != nil {
		return nil, fmt.Errorf("deserializing session %s: %w", id, err)
	}
	return &snap, nil
}
