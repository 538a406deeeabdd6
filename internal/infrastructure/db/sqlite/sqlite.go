// Package sqlite opens the SQLite-backed store used for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlstore"
)

//go:embed schema.sql
var schema string

// Dialect reports constraint violations from sqlite3 extended result codes.
var Dialect = sqlstore.Dialect{
	Name:                  "sqlite",
	IsUniqueViolation:     func(err error) bool { return hasCode(err, sqlite3.ErrConstraintUnique) },
	IsForeignKeyViolation: func(err error) bool { return hasCode(err, sqlite3.ErrConstraintForeignKey) },
}

func hasCode(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}

// Open opens (creating if needed) the database file at path and applies the
// schema. Foreign keys, WAL and the busy timeout are set through the DSN so
// every pooled connection gets them.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=3000&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if err := sqlstore.Migrate(ctx, db, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return sqlstore.New(db, Dialect), nil
}
