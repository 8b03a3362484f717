package calendar

import (
	"errors"
	"strings"
	"time"
)

// Layout is the wire format of a calendar day.
const Layout = "2006-01-02"

var ErrInvalidDay = errors.New("calendar: day must be formatted as YYYY-MM-DD")

// Truncate drops the time of day, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}

// Parse accepts either a bare date or an RFC3339 timestamp.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDay
	}
	if t, err := time.Parse(Layout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Truncate(t), nil
	}
	return time.Time{}, ErrInvalidDay
}

func Format(t time.Time) string {
	return Truncate(t).Format(Layout)
}

// DaysIn returns the number of days of the month, leap years included.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first day of the month and the first day of the next one.
func MonthBounds(month time.Month, year int) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
