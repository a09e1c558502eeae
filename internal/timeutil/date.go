package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates in the API.
// Date strings in this format compare correctly with plain string
// comparison, which the planning code relies on.
const DateLayout = "2006-01-02"

// Today returns the current calendar date as a YYYY-MM-DD string.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a time.Time at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as a YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsValidDate reports whether s is a well-formed YYYY-MM-DD date.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// AddDays returns the date n calendar days after the given date string.
// The input must be a valid date; callers validate at their boundary.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// WeekdayName returns the English weekday label ("Monday", ...) for a
// YYYY-MM-DD date string, or the empty string if the date is malformed.
func WeekdayName(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
