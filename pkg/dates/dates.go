// Package dates holds the calendar-day arithmetic used across the engine.
// All days are normalized to midnight UTC of the caller's calendar date.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Between returns the number of calendar days from a to b (negative when b is earlier).
func Between(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Add returns the calendar day n days after t.
func Add(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Parse accepts YYYY-MM-DD or RFC3339 and returns the calendar day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return Day(t), nil
}
