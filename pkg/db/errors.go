package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// violation. With a constraint name it matches that constraint
// specifically; the message check also covers SQLite in tests, where
// pgconn error codes are unavailable.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
