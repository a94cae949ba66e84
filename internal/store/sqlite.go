package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// SQLite keeps the best score in the kv table.
type SQLite struct{ db *sql.DB }

// NewSQLiteStore wraps a migrated database.
func NewSQLiteStore(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Read returns the stored best score.
// A missing row reads as 0. So does a value that is not a non-negative integer;
// that case is logged, not returned as an error.
func (s *SQLite) Read(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", Key, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		log.Warn().Str("key", Key).Str("value", raw).Msg("ignoring unparseable best score")
		return 0, nil
	}
	return n, nil
}

// Write upserts the best score.
func (s *SQLite) Write(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, Key, strconv.Itoa(score))
	if err != nil {
		return fmt.Errorf("write %s: %w", Key, err)
	}
	return nil
}
