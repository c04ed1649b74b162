package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes this layer cares about.
const (
	pgUniqueViolation  = "23505"
	pgSerializationErr = "40001"
	pgDeadlockDetected = "40P01"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isRetryableContention reports serialization failures and deadlocks, the two
// shapes counter contention takes under concurrent issuance.
func isRetryableContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationErr || pgErr.Code == pgDeadlockDetected
}
