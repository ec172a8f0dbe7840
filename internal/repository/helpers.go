package repository

import (
	"database/sql"
	"strings"
	"time"
)

// toUnix converts an instant to the epoch seconds stored in SQLite.
func toUnix(t time.Time) int64 {
	return t.Unix()
}

// fromUnix converts stored epoch seconds back to a UTC instant.
func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// nullableUnix converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableUnix(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// parseNullableUnix converts a nullable integer column into a *time.Time.
func parseNullableUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// expectOneRow maps a zero-row mutation to notFound.
func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
