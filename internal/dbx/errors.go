package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation           = "23505"
	codeInvalidTextRepresentation = "22P02"
)

// SQLState returns the SQLSTATE carried by err, or "" when err does not come
// from the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraint is non-empty the violated constraint must match it too.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsInvalidInput reports whether the server rejected a literal, e.g. a
// malformed uuid passed as an id.
func IsInvalidInput(err error) bool {
	return SQLState(err) == codeInvalidTextRepresentation
}
