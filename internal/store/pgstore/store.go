// Package pgstore is the PostgreSQL store driver, built on a pgx pool.
// The schema lives in db/migrations and is applied with cmd/migrate.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookworm/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// Open connects a pool to dsn and pings it.
func Open(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	s := New(pool, timeout)
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func New(db *pgxpool.Pool, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// mapErr translates driver errors into domain errors.
func mapErr(err error, kind, conflict string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("%s not found", kind)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("%s", conflict).WithCause(err)
	}
	return fmt.Errorf("%s: %w", kind, err)
}

func (s *Store) delete(ctx context.Context, table, kind, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.db.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return mapErr(err, kind, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("%s not found", kind)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
