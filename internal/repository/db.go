package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// psql builds PostgreSQL statements with $N placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	// ErrNotFound is returned when a lookup matches no rows
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned on unique constraint violations
	ErrDuplicate = errors.New("duplicate key")

	// ErrConflict is returned when a guarded write finds the row already taken
	ErrConflict = errors.New("conflicting update")
)

const uniqueViolation = "23505"

// DBError keeps the driver error behind one of the sentinel errors
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%v (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// mapError translates pgx errors into the package sentinels
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DBError{Sentinel: ErrDuplicate, Cause: err}
	}
	return err
}
