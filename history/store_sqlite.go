package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS invocations (
	invocation_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	tool TEXT NOT NULL,
	started_at TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_session ON invocations(session_id, started_at);`

const (
	defaultSQLiteDir = ".skystack"
	defaultSQLiteDB  = "skystack.db"
)

// SQLiteStore persists invocation records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns the default SQLite path for CLI storage.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("history: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultSQLiteDir, defaultSQLiteDB), nil
}

// NewSQLiteStore opens (or creates) a SQLite-backed history store at the
// given path, creating parent directories as needed.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("history: sqlite store dsn is required")
	}
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: sqlite store open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: sqlite store set WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: sqlite store create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts one invocation record.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: encode record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invocations (invocation_id, session_id, tool, started_at, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.InvocationID, rec.SessionID, rec.Tool,
		rec.StartedAt.UTC().Format(time.RFC3339Nano), payload,
	)
	if err != nil {
		return fmt.Errorf("history: insert record: %w", err)
	}
	return nil
}

// BySession returns the session's records ordered by start time.
func (s *SQLiteStore) BySession(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM invocations WHERE session_id = ? ORDER BY started_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("history: scan record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("history: decode record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate records: %w", err)
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
