package store

import (
	"database/sql"
	"fmt"
	"time"
)

// checkRowsErr checks for errors that may have occurred during row iteration.
// Call it after a for rows.Next() loop to catch iteration errors that
// rows.Next() doesn't report directly.
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}

// nullTimeString returns nil for a nil or zero time, RFC3339 string otherwise.
func nullTimeString(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseTime parses an RFC3339 timestamp, ignoring parse errors. Stored
// timestamps are always written by us, so a parse failure only ever means a
// zero value.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// parseNullTime converts a nullable timestamp column to *time.Time.
func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullString returns nil for the empty string so optional TEXT columns stay
// NULL instead of "".
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullStringPtr returns nil for a nil pointer, the value otherwise.
func nullStringPtr(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
