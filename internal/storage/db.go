package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DB wraps the document store connection.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the store and runs migrations. For sqlite, dsn is a file
// path whose directory is created if needed.
func Open(driver, dsn string) (*DB, error) {
	var conn *sql.DB
	var err error
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		conn, err = sql.Open("sqlite", dsn+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// single writer, otherwise SQLITE_BUSY under concurrent batches
		conn.SetMaxOpenConns(1)
	case DriverPostgres, DriverMySQL:
		conn, err = sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxLifetime(10 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Driver() string {
	return db.driver
}

// Ping checks the connection, used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, db.rebind(query), args...)
}

// inClause returns "?, ?, ?" and the matching args.
func inClause(ids []string) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS board_objects (
			id VARCHAR(64) NOT NULL,
			board_id VARCHAR(64) NOT NULL,
			type VARCHAR(32) NOT NULL,
			z_index INTEGER NOT NULL DEFAULT 0,
			created_by VARCHAR(128) NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL,
			data_json TEXT NOT NULL,
			PRIMARY KEY (board_id, id)
		)`,
		`CREATE INDEX idx_board_objects_board ON board_objects(board_id, z_index)`,
		`CREATE TABLE IF NOT EXISTS executor_runs (
			id VARCHAR(64) PRIMARY KEY,
			board_id VARCHAR(64) NOT NULL,
			user_id VARCHAR(128) NOT NULL DEFAULT '',
			source VARCHAR(32) NOT NULL DEFAULT '',
			calls_json TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_count INTEGER NOT NULL DEFAULT 0,
			modified_count INTEGER NOT NULL DEFAULT 0,
			deleted_count INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX idx_executor_runs_board ON executor_runs(board_id, created_at)`,
		// cross-process approvals for the standalone MCP server
		`CREATE TABLE IF NOT EXISTS mcp_approvals (
			id VARCHAR(64) PRIMARY KEY,
			tool VARCHAR(64) NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'pending',
			metadata TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			// re-running CREATE INDEX fails on every driver; the index is there
			if strings.HasPrefix(m, "CREATE INDEX") && isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", firstLine(m), err)
		}
	}
	return nil
}

func isDuplicateIndex(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate key name")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
