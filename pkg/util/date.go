package util

import (
	"fmt"
	"strconv"
	"time"
)

const monthLayout = "2006-01"

// ParseMonth parses a YYYY-MM month key.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return t, nil
}

// MonthOf returns the YYYY-MM month key for a timestamp (UTC).
func MonthOf(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// MonthBounds returns the [start, end) UTC bounds of a YYYY-MM month key.
func MonthBounds(month string) (time.Time, time.Time, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}
