package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March {
		t.Fatalf("unexpected month %v", got)
	}
}

func TestParseMonthRejectsBadFormat(t *testing.T) {
	for _, s := range []string{"", "2026", "2026-3", "March 2026", "2026-13"} {
		if _, err := ParseMonth(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestMonthOf(t *testing.T) {
	ts := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	if got := MonthOf(ts); got != "2026-03" {
		t.Fatalf("expected 2026-03, got %q", got)
	}
}

func TestMonthBounds(t *testing.T) {
	from, to, err := MonthBounds("2026-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Day() != 1 || from.Month() != time.February {
		t.Fatalf("unexpected start %v", from)
	}
	if to.Month() != time.March || to.Day() != 1 {
		t.Fatalf("expected exclusive end at next month, got %v", to)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeEmpty(t *testing.T) {
	if _, ok := ParseTime(""); ok {
		t.Fatalf("expected not ok for empty string")
	}
}
