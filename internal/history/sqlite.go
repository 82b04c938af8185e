// Package history keeps a local SQLite record of past builds.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded build.
type Entry struct {
	ID        string
	Product   string
	Version   string
	Target    string
	Outcome   string
	Archive   string
	Duration  time.Duration
	Timestamp time.Time
}

// SQLiteStore persists build entries in SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the history database at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		product TEXT NOT NULL,
		version TEXT NOT NULL,
		target TEXT NOT NULL,
		outcome TEXT NOT NULL,
		archive TEXT,
		duration_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_timestamp ON builds(timestamp);
	CREATE INDEX IF NOT EXISTS idx_builds_target ON builds(target);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores e. Recording the same ID twice replaces the earlier row.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds (id, product, version, target, outcome, archive, duration_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Product, e.Version, e.Target, e.Outcome, e.Archive, e.Duration.Milliseconds(), e.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty target matches
// every target.
func (s *SQLiteStore) Recent(ctx context.Context, target string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	query := "SELECT id, product, version, target, outcome, archive, duration_ms, timestamp FROM builds"
	args := []any{}
	if target != "" {
		query += " WHERE target = ?"
		args = append(args, target)
	}
	query += " ORDER BY timestamp DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			archive sql.NullString
			durMS   int64
			tsMS    int64
		)
		if err := rows.Scan(&e.ID, &e.Product, &e.Version, &e.Target, &e.Outcome, &archive, &durMS, &tsMS); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		e.Archive = archive.String
		e.Duration = time.Duration(durMS) * time.Millisecond
		e.Timestamp = time.UnixMilli(tsMS)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
