// internal/database/database.go
//
// SQLite helpers for the flag quiz.
// Responsibilities:
//   - Opening the SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Creating the parent directory for file paths (e.g. ./data/flagquiz.db).
//
// ":memory:" is accepted and pinned to a single connection so every query sees
// the same in-memory database (each connection would otherwise get its own).

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Memory is the DSN for a throwaway in-memory database.
const Memory = ":memory:"

// Open opens (and creates if missing) a SQLite database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != Memory {
		// Ensure directory exists for ./data/flagquiz.db, etc.
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}
