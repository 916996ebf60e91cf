package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is the record of one executor batch.
type Run struct {
	ID            string `json:"id"`
	BoardID       string `json:"boardId"`
	UserID        string `json:"userId"`
	Source        string `json:"source"` // http, mcp, inbox
	CallsJSON     string `json:"callsJson"`
	Summary       string `json:"summary"`
	CreatedCount  int    `json:"createdCount"`
	ModifiedCount int    `json:"modifiedCount"`
	DeletedCount  int    `json:"deletedCount"`
	Error         string `json:"error,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

// RunStore keeps the executor run log.
type RunStore struct {
	db *DB
}

func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Insert stores r, filling ID and CreatedAt when empty.
func (s *RunStore) Insert(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = nowMillis()
	}
	if r.CallsJSON == "" {
		r.CallsJSON = "[]"
	}
	_, err := s.db.exec(ctx, s.db.conn,
		`INSERT INTO executor_runs (id, board_id, user_id, source, calls_json, summary, created_count, modified_count, deleted_count, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BoardID, r.UserID, r.Source, r.CallsJSON, r.Summary,
		r.CreatedCount, r.ModifiedCount, r.DeletedCount, r.Error, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the newest runs for a board first.
func (s *RunStore) List(ctx context.Context, boardID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT id, board_id, user_id, source, calls_json, summary, created_count, modified_count, deleted_count, error, created_at
		 FROM executor_runs WHERE board_id = ? ORDER BY created_at DESC LIMIT ?`, boardID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.BoardID, &r.UserID, &r.Source, &r.CallsJSON, &r.Summary,
			&r.CreatedCount, &r.ModifiedCount, &r.DeletedCount, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PruneBefore deletes runs older than cutoff and returns how many went.
func (s *RunStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.exec(ctx, s.db.conn, `DELETE FROM executor_runs WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
