package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation.
// When constraintName is provided the violation must reference that
// constraint. Falls back to message matching for drivers that do not
// surface structured errors (sqlite in tests).
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
