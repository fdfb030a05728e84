package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"ventapos/internal/core/apperror"
)

// PostgreSQL error codes the core reacts to.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsPgError reports whether err is a PgError with the given code.
func IsPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsUniqueViolation reports a unique constraint violation; when
// constraint is non-empty the violated constraint name must match.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// translateError maps driver-level failures onto the core error
// taxonomy. AppErrors pass through untouched so repository-level
// classification wins; anything unrecognized becomes StorageFailure.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return apperror.NewConcurrentModification("transaction", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return apperror.NewStorage(err)
}
