// Package migrations embeds the schema for the bot's subscription, profile
// and checklist tables, and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds the embedded SQL migration files, ordered by their numeric prefix.
//
//go:embed *.sql
var FS embed.FS

// Run brings db up to the latest schema version. It is called when the bot
// opens its database, so a fresh database file is usable without running the
// migrate tool first.
func Run(db *sql.DB) error {
	goose.SetBaseFS(FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
