package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Approval states.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Approval is a destructive MCP action waiting on a human decision.
type Approval struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Metadata    string `json:"metadata"`
	CreatedAt   int64  `json:"createdAt"`
}

// ApprovalStore backs the approval queue when the MCP server runs in a
// separate process from the HTTP server that shows the prompt.
type ApprovalStore struct {
	db *DB
}

func NewApprovalStore(db *DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

func (s *ApprovalStore) Insert(ctx context.Context, a Approval) error {
	if a.Metadata == "" {
		a.Metadata = "{}"
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = nowMillis()
	}
	_, err := s.db.exec(ctx, s.db.conn,
		`INSERT INTO mcp_approvals (id, tool, description, status, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Tool, a.Description, ApprovalPending, a.Metadata, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// Status returns the current state of an approval.
func (s *ApprovalStore) Status(ctx context.Context, id string) (string, error) {
	var status string
	err := s.db.queryRow(ctx, s.db.conn, `SELECT status FROM mcp_approvals WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("approval %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("approval status: %w", err)
	}
	return status, nil
}

// Resolve moves a pending approval to approved or rejected.
func (s *ApprovalStore) Resolve(ctx context.Context, id string, approved bool) error {
	status := ApprovalRejected
	if approved {
		status = ApprovalApproved
	}
	res, err := s.db.exec(ctx, s.db.conn,
		`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = ?`, status, id, ApprovalPending)
	if err != nil {
		return fmt.Errorf("resolve approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pending approval %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ApprovalStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.exec(ctx, s.db.conn, `DELETE FROM mcp_approvals WHERE id = ?`, id)
	return err
}

// ListPending returns approvals still waiting, oldest first.
func (s *ApprovalStore) ListPending(ctx context.Context) ([]Approval, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT id, tool, description, status, metadata, created_at FROM mcp_approvals WHERE status = ? ORDER BY created_at ASC`,
		ApprovalPending)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	out := []Approval{}
	for rows.Next() {
		var a Approval
		if err := rows.Scan(&a.ID, &a.Tool, &a.Description, &a.Status, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
