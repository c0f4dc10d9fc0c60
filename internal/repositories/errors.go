package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced when a uniqueness constraint rejects a write.
// Callers decide whether that means retry (PIN/pickup-code allocation) or a
// user-facing conflict (double check-in, duplicate phone).
var (
	ErrPINTaken        = errors.New("pin already assigned in organization")
	ErrPhoneTaken      = errors.New("phone already registered in organization")
	ErrPickupCodeTaken = errors.New("pickup code already open in organization")
	ErrAlreadyOpen     = errors.New("person already has an open session")
)

// uniqueViolation reports whether err is a Postgres 23505 on the named
// constraint. An empty name matches any unique violation.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
