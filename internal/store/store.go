// Package store persists decks, their drill history, sessions and event
// logs in SQLite (default) or Postgres.
package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/ben-spiller/FlashTeacher/ent/migrate"

	// Postgres via database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database connection and hands out repositories.
type Store struct {
	db  *stdsql.DB
	drv *entsql.Driver
}

// Open connects to dsn and creates any missing tables. A dsn starting with
// postgres:// or postgresql:// selects Postgres; anything else is a SQLite
// file path or URI.
func Open(dsn string) (*Store, error) {
	driverName, dia := driverFor(dsn)
	db, err := stdsql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dia == dialect.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	drv := entsql.OpenDB(dia, db)
	if err := migrate.NewSchema(drv).Create(context.Background()); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db, drv: drv}, nil
}

func driverFor(dsn string) (driverName, dia string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx", dialect.Postgres
	}
	return "sqlite", dialect.SQLite
}

// Dialect is dialect.SQLite or dialect.Postgres.
func (s *Store) Dialect() string { return s.drv.Dialect() }

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *stdsql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error { return s.drv.Close() }

// Decks returns the deck and history repository.
func (s *Store) Decks() *DecksRepo { return &DecksRepo{s: s, Keep: DefaultHistoryKeep} }

// Sessions returns the session and answer log repository.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

// Events returns the LLM request log repository.
func (s *Store) Events() *EventRepo { return &EventRepo{s: s} }

func (s *Store) sql() *entsql.DialectBuilder { return entsql.Dialect(s.drv.Dialect()) }

func (s *Store) exec(ctx context.Context, q entsql.Querier) (stdsql.Result, error) {
	query, args := q.Query()
	return s.db.ExecContext(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, q entsql.Querier) (*stdsql.Rows, error) {
	query, args := q.Query()
	return s.db.QueryContext(ctx, query, args...)
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *stdsql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath picks the database location:
// FLASHTEACHER_DB, then $XDG_DATA_HOME/flashteacher/flashteacher.db, then
// ~/.local/share/flashteacher/flashteacher.db. The parent directory of a
// file path is created.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("FLASHTEACHER_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "flashteacher", "flashteacher.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a SQLite file path. DSNs that
// are not plain file paths are left alone.
func EnsureDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	if d, _ := driverFor(path); d != "sqlite" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
