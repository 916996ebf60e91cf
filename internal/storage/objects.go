package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"whiteboard/internal/domain"
)

// Board is a named collection of objects.
type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// ObjectStore persists board objects. The whole object is kept as JSON in
// data_json; the other columns exist for ordering and filtering.
type ObjectStore struct {
	db *DB
}

func NewObjectStore(db *DB) *ObjectStore {
	return &ObjectStore{db: db}
}

// EnsureBoard creates the board row if it does not exist yet.
func (s *ObjectStore) EnsureBoard(ctx context.Context, id, name string) error {
	var n int
	if err := s.db.queryRow(ctx, s.db.conn, `SELECT COUNT(*) FROM boards WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("lookup board: %w", err)
	}
	if n > 0 {
		return nil
	}
	if name == "" {
		name = id
	}
	_, err := s.db.exec(ctx, s.db.conn, `INSERT INTO boards (id, name, created_at) VALUES (?, ?, ?)`, id, name, nowMillis())
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	return nil
}

func (s *ObjectStore) ListBoards(ctx context.Context) ([]Board, error) {
	rows, err := s.db.query(ctx, s.db.conn, `SELECT id, name, created_at FROM boards ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	boards := []Board{}
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// List returns a board's objects in z-order.
func (s *ObjectStore) List(ctx context.Context, boardID string) ([]domain.Object, error) {
	rows, err := s.db.query(ctx, s.db.conn,
		`SELECT data_json FROM board_objects WHERE board_id = ? ORDER BY z_index ASC, created_at ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	objs := []domain.Object{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		o, err := decodeObject(data)
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

// Get returns one object or ErrNotFound.
func (s *ObjectStore) Get(ctx context.Context, boardID, id string) (domain.Object, error) {
	return s.get(ctx, s.db.conn, boardID, id)
}

func (s *ObjectStore) get(ctx context.Context, q querier, boardID, id string) (domain.Object, error) {
	var data string
	err := s.db.queryRow(ctx, q, `SELECT data_json FROM board_objects WHERE board_id = ? AND id = ?`, boardID, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Object{}, fmt.Errorf("object %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Object{}, fmt.Errorf("get object: %w", err)
	}
	return decodeObject(data)
}

// ErrInvalidType is returned for objects whose type tag is not a known kind.
var ErrInvalidType = errors.New("unknown object type")

func decodeObject(data string) (domain.Object, error) {
	var o domain.Object
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return domain.Object{}, fmt.Errorf("decode object: %w", err)
	}
	if !o.Type.Valid() {
		return domain.Object{}, fmt.Errorf("decode object %s: %w %q", o.ID, ErrInvalidType, o.Type)
	}
	return o, nil
}

// CreateObjects inserts objs in one transaction; either all land or none do.
func (s *ObjectStore) CreateObjects(ctx context.Context, boardID string, objs []domain.Object) error {
	if len(objs) == 0 {
		return nil
	}
	for _, o := range objs {
		if !o.Type.Valid() {
			return fmt.Errorf("object %s: %w %q", o.ID, ErrInvalidType, o.Type)
		}
	}
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, o := range objs {
		data, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encode object %s: %w", o.ID, err)
		}
		_, err = s.db.exec(ctx, tx,
			`INSERT INTO board_objects (id, board_id, type, z_index, created_by, created_at, data_json) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.ID, boardID, string(o.Type), o.ZIndex, o.CreatedBy, o.CreatedAt, string(data),
		)
		if err != nil {
			return fmt.Errorf("insert object %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateObject applies patch to a stored object and returns the result.
func (s *ObjectStore) UpdateObject(ctx context.Context, boardID, id string, patch domain.ObjectPatch) (domain.Object, error) {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.Object{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	o, err := s.get(ctx, tx, boardID, id)
	if err != nil {
		return domain.Object{}, err
	}
	patch.Apply(&o)
	data, err := json.Marshal(o)
	if err != nil {
		return domain.Object{}, fmt.Errorf("encode object %s: %w", id, err)
	}
	_, err = s.db.exec(ctx, tx,
		`UPDATE board_objects SET data_json = ? WHERE board_id = ? AND id = ?`, string(data), boardID, id)
	if err != nil {
		return domain.Object{}, fmt.Errorf("update object %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Object{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

// DeleteObjects removes ids from the board and reports how many existed.
func (s *ObjectStore) DeleteObjects(ctx context.Context, boardID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks, args := inClause(ids)
	res, err := s.db.exec(ctx, s.db.conn,
		`DELETE FROM board_objects WHERE board_id = ? AND id IN (`+marks+`)`, append([]any{boardID}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("delete objects: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearBoard removes every object on the board in one statement.
func (s *ObjectStore) ClearBoard(ctx context.Context, boardID string) (int64, error) {
	res, err := s.db.exec(ctx, s.db.conn, `DELETE FROM board_objects WHERE board_id = ?`, boardID)
	if err != nil {
		return 0, fmt.Errorf("clear board: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
