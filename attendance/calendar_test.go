package attendance

import (
	"reflect"
	"testing"
	"time"
)

var ist = time.FixedZone("IST", istOffset)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, ist)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestDaysInvertedRangeIsEmpty(t *testing.T) {
	days := Days(mustTime(t, "2024-03-05 00:00:00"), mustTime(t, "2024-03-04 23:59:59"), ist)
	if days == nil || len(days) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", days)
	}
}

func TestDaysSameCivilDate(t *testing.T) {
	days := Days(mustTime(t, "2024-03-04 08:00:00"), mustTime(t, "2024-03-04 20:00:00"), ist)
	if !reflect.DeepEqual(days, []string{"2024-03-04"}) {
		t.Fatalf("got %v", days)
	}
}

func TestDaysUsesReferenceZoneBoundaries(t *testing.T) {
	// 20:00 UTC on the 4th is 01:30 IST on the 5th.
	start := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

	days := Days(start, end, ist)
	want := []string{"2024-03-05", "2024-03-06"}
	if !reflect.DeepEqual(days, want) {
		t.Fatalf("got %v, want %v", days, want)
	}
}

func TestDaysAcrossMonthBoundary(t *testing.T) {
	days, err := DaysBetween("2024-02-28", "2024-03-02", ist)
	if err != nil {
		t.Fatalf("days between: %v", err)
	}
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if !reflect.DeepEqual(days, want) {
		t.Fatalf("got %v, want %v", days, want)
	}
}

func TestDaysBetweenRejectsBadDate(t *testing.T) {
	if _, err := DaysBetween("2024-13-01", "2024-03-02", ist); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMonthDays(t *testing.T) {
	days, err := MonthDays("2024-02", ist)
	if err != nil {
		t.Fatalf("month days: %v", err)
	}
	if len(days) != 29 || days[0] != "2024-02-01" || days[28] != "2024-02-29" {
		t.Fatalf("unexpected february: %v", days)
	}
}

func TestLoadLocationFallsBackToIST(t *testing.T) {
	loc := LoadLocation("Not/AZone")
	_, offset := time.Date(2024, 3, 4, 0, 0, 0, 0, loc).Zone()
	if offset != istOffset {
		t.Fatalf("offset = %d, want %d", offset, istOffset)
	}
}
