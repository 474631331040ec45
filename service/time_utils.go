package service

import (
	"time"
)

// DayStart truncates t to midnight in its own location
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WindowStart returns the first date of a trailing window of `days`
// calendar days ending on (and including) day
func WindowStart(day time.Time, days int) time.Time {
	return DayStart(day).AddDate(0, 0, -(days - 1))
}
