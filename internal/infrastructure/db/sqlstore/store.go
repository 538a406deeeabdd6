// Package sqlstore implements the repository ports on database/sql. The same
// queries run on every supported engine; a Dialect supplies the pieces that
// differ, namely how constraint violations are reported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.PostRepository    = (*PostRepository)(nil)
	_ ports.LikeRepository    = (*LikeRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)

// Dialect describes a SQL engine. Queries use $N placeholders, numbered in
// order of appearance, which both Postgres and SQLite accept.
type Dialect struct {
	Name                  string
	IsUniqueViolation     func(error) bool
	IsForeignKeyViolation func(error) bool
}

// Store bundles the repositories over one connection pool.
type Store struct {
	db      *sql.DB
	dialect Dialect

	Users    *UserRepository
	Posts    *PostRepository
	Likes    *LikeRepository
	Comments *CommentRepository
}

// New wraps db. The schema must already be migrated.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:       db,
		dialect:  dialect,
		Users:    &UserRepository{db: db, dialect: dialect},
		Posts:    &PostRepository{db: db, dialect: dialect},
		Likes:    &LikeRepository{db: db, dialect: dialect},
		Comments: &CommentRepository{db: db, dialect: dialect},
	}
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the engine name.
func (s *Store) Dialect() string { return s.dialect.Name }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// Migrate applies schema statement by statement. Every statement must be
// idempotent (CREATE ... IF NOT EXISTS).
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// batchSize caps the ids bound into one IN list, far below the SQLite
// (32766) and Postgres (65535) parameter limits. Every batch is padded to
// this length so each query keeps a single cached statement.
var batchSize = 500

// inBatches calls fn with the distinct ids in padded batches of batchSize.
// Padding repeats the batch's last id, which an IN list ignores.
func inBatches(ids []int64, fn func(batch []int64) error) error {
	seen := make(map[int64]struct{}, len(ids))
	distinct := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			distinct = append(distinct, id)
		}
	}

	batch := make([]int64, batchSize)
	for start := 0; start < len(distinct); start += batchSize {
		n := copy(batch, distinct[start:])
		for i := n; i < batchSize; i++ {
			batch[i] = batch[n-1]
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// inList renders placeholders $start..$start+n-1 and the matching args.
func inList(start int, ids []int64) (string, []any) {
	var b strings.Builder
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
		args[i] = id
	}
	return b.String(), args
}

func rowsAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

const userColumns = "u.id, u.email, u.name, u.password_hash, u.bio, u.profile_picture, u.created_at"

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Bio, &u.ProfilePicture, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
