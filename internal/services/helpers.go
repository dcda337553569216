package services

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// isNoRows reports whether a repository error means the target row is absent.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// civilDate truncates an instant to its calendar date in the given zone.
// All billing-date decisions (billing-day matching, paid/issued stamps) go
// through this so they never depend on host-local time.
func civilDate(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
