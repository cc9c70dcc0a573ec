package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shop-scout/internal/db"
)

// Entry is one recorded feedback rating for a session.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages persistence of session feedback.
type Store struct {
	db *db.DB
}

// NewStore creates a new feedback store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create records a feedback entry. Ratings outside 1..5 are rejected.
func (s *Store) Create(ctx context.Context, e Entry) (*Entry, error) {
	if e.Rating < 1 || e.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", e.Rating)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, session_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Rating, e.Comment, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting feedback: %w", err)
	}
	return &e, nil
}

// GetBySession returns the most recent feedback for a session, or nil when
// none exists.
func (s *Store) GetBySession(ctx context.Context, sessionID string) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, rating, comment, created_at
		 FROM feedback WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`,
		sessionID,
	).Scan(&e.ID, &e.SessionID, &e.Rating, &e.Comment, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting feedback: %w", err)
	}
	return &e, nil
}

// List returns the most recent feedback entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, rating, comment, created_at
		 FROM feedback ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Rating, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AverageRating returns the mean rating across all feedback, or 0 when
// none has been recorded.
func (s *Store) AverageRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM feedback`).Scan(&avg); err != nil {
		return 0, fmt.Errorf("averaging feedback: %w", err)
	}
	return avg.Float64, nil
}
