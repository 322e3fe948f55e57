package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgLockNotAvailable = "55P03"
	pgUniqueViolation  = "23505"
)

// IsLockTimeout reports whether the error is a Postgres lock_timeout
// expiration (the bounded row-lock wait ran out) or the SQLite busy/locked
// equivalent. Operations failing this way held no partial locks and are safe
// to retry from scratch.
func IsLockTimeout(err error) bool {
	if err == nil {
		return false
	}
	if code := pgCode(err); code == pgLockNotAvailable {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// IsUniqueViolation reports whether the provided error references a unique
// constraint. When constraintName is provided, the helper also looks for the
// constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if pgCode(err) == pgUniqueViolation || strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		if constraintName == "" {
			return true
		}
		return strings.Contains(msg, constraintName)
	}
	return false
}

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
