// Package history keeps a local log of executed requests in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded request.
type Entry struct {
	ID         string
	CreatedAt  time.Time
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	BodyBytes  int
}

// Store is a SQLite-backed request log.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMP NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	body_bytes  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
`

// Open opens (and if needed initializes) a history store. Connection
// strings take the form "sqlite:path/to/history.db"; a bare path is
// treated as a SQLite file path.
func Open(connectionString string) (*Store, error) {
	dsn := parseConnectionString(connectionString)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	return &Store{
		db:           db,
		queryTimeout: 30 * time.Second,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record logs one executed request. It satisfies the runner's Recorder
// interface.
func (s *Store) Record(method, url string, statusCode int, duration time.Duration, bodyBytes int) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (id, created_at, method, url, status_code, duration_ms, body_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC(), method, url, statusCode, duration.Milliseconds(), bodyBytes)
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, method, url, status_code, duration_ms, body_bytes
		 FROM requests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Method, &e.URL, &e.StatusCode, &durationMs, &e.BodyBytes); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration error: %w", err)
	}

	return entries, nil
}

func parseConnectionString(connStr string) string {
	connStr = strings.TrimSpace(connStr)
	if strings.HasPrefix(connStr, "sqlite://") {
		return strings.TrimPrefix(connStr, "sqlite://")
	}
	if strings.HasPrefix(connStr, "sqlite:") {
		return strings.TrimPrefix(connStr, "sqlite:")
	}
	return connStr
}
