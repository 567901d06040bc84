package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation.
const codeUniqueViolation = "23505"

// MapError converts low-level database errors into the caller's domain
// sentinels: sql.ErrNoRows becomes notFoundErr, a unique constraint
// violation becomes duplicateErr, anything else passes through untouched.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return duplicateErr
	}

	return err
}
