package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate
const (
	codeUniqueViolation           = "23505"
	codeCheckViolation            = "23514"
	codeForeignKeyViolation       = "23503"
	codeInvalidTextRepresentation = "22P02"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsUniqueViolation checks for any unique constraint violation
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation reports a CHECK constraint failure, e.g. an unknown event status
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// IsForeignKeyViolation reports a reference to a missing row
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsInvalidTextRepresentation reports malformed input such as a non-UUID id
func IsInvalidTextRepresentation(err error) bool {
	return hasCode(err, codeInvalidTextRepresentation)
}
