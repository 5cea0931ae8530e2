package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// IsExpired reports whether t lies in the past
func IsExpired(t time.Time) bool {
	return UTCNow().After(t)
}

// DateOnly truncates a time to midnight UTC of the same calendar day
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth returns midnight UTC on the first day of t's month
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FirstOfNextMonth returns midnight UTC on the first day of the month after t
func FirstOfNextMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, 0)
}
