// Command migrate manages the bot's SQLite schema. The bot applies pending
// migrations on startup; this tool exists for rollbacks and inspecting
// migration state on a live database.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"scholar_bot/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-db path] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up        apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  up-one    apply the next pending migration")
	fmt.Fprintln(os.Stderr, "  down      roll back the most recent migration")
	fmt.Fprintln(os.Stderr, "  redo      roll back and re-apply the most recent migration")
	fmt.Fprintln(os.Stderr, "  status    list migrations and whether each is applied")
	fmt.Fprintln(os.Stderr, "  version   print the current schema version")
	fmt.Fprintln(os.Stderr, "  reset     roll back everything")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "The database path defaults to $DATABASE_PATH, the same variable the bot reads.")
}

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/bot.db"), "sqlite database to migrate")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "up-one":
		err = goose.UpByOne(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "redo":
		err = goose.Redo(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		log.Fatalf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
