// Package postgres opens the Postgres-backed store.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlstore"
)

//go:embed schema.sql
var schema string

const defaultTimeout = 10 * time.Second

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Dialect reports constraint violations from pgconn.PgError codes.
var Dialect = sqlstore.Dialect{
	Name:                  "postgres",
	IsUniqueViolation:     func(err error) bool { return hasCode(err, codeUniqueViolation) },
	IsForeignKeyViolation: func(err error) bool { return hasCode(err, codeForeignKeyViolation) },
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

type Config struct {
	URL      string
	MaxConns int32
	Timeout  time.Duration
}

// DB is a migrated store over a pgx pool.
type DB struct {
	*sqlstore.Store
	pool *pgxpool.Pool
}

// Connect opens a pool, verifies it and applies the schema.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	poolCfg.ConnConfig.StatementCacheCapacity = 256

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := sqlstore.Migrate(ctx, db, schema); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &DB{Store: sqlstore.New(db, Dialect), pool: pool}, nil
}

// Close releases the database handle and then the pool behind it.
func (d *DB) Close() error {
	err := d.Store.Close()
	d.pool.Close()
	return err
}
