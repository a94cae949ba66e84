// internal/migrations/migrations.go
//
// Schema migrations for the best-score database.
// Responsibilities:
//   - Embed the numbered *.sql files (goose format) into the binary.
//   - Apply pending ones at boot, before the store is used.
//
// Applied versions are recorded by goose, so Run is safe on every start.

package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

// Run applies all pending migrations against db.
func Run(db *sql.DB) error {
	goose.SetBaseFS(fs)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
