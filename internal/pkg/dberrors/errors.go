// Package dberrors classifies PostgreSQL errors returned through pgx
package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func IsDuplicateKeyError(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsPrimaryKeyViolation reports a unique violation on the table's primary
// key, which postgres names <table>_pkey by default.
func IsPrimaryKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return strings.HasSuffix(pgErr.ConstraintName, "_pkey")
}

// ConstraintName returns the violated constraint, or "" for other errors.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUndefinedTableError reports whether the statement failed because the
// content table has not been created yet.
func IsUndefinedTableError(err error) bool {
	return pgCode(err) == codeUndefinedTable
}
