// Package audit records artifact lifecycle events for reviewers. It only
// appends to its own log and never touches the record set.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"careerfolio/internal/queue"
)

// MaxListLimit caps ListByEmail.
const MaxListLimit = 500

// Repository persists events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts an event. Replays of the same event id are ignored.
func (r *Repository) Record(ctx context.Context, msg queue.Message) error {
	if msg.ID == "" {
		return errors.New("event id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO artifact_events (id, type, email, kind, filename, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, msg.ID, msg.Type, msg.Email, msg.Kind, msg.Filename, msg.At)
	if err != nil {
		return fmt.Errorf("record event %s: %w", msg.ID, err)
	}
	return nil
}

// ListByEmail returns an account's events, newest first.
func (r *Repository) ListByEmail(ctx context.Context, email string, limit int) ([]queue.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, MaxListLimit)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, email, kind, filename, occurred_at
		FROM artifact_events
		WHERE email = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []queue.Message{}
	for rows.Next() {
		var m queue.Message
		if err := rows.Scan(&m.ID, &m.Type, &m.Email, &m.Kind, &m.Filename, &m.At); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
