package attendance

import (
	"strings"
	"time"
)

// ExclusionSet holds administrator-declared non-working civil dates.
type ExclusionSet map[string]struct{}

func NewExclusionSet(dates ...string) ExclusionSet {
	set := make(ExclusionSet, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

func (s ExclusionSet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// IsWorkingDay is the single rule deciding whether a civil date counts for
// attendance: not a Sunday in loc and not excluded. Unparseable dates never count.
func IsWorkingDay(date string, excluded ExclusionSet, loc *time.Location) bool {
	day, err := ParseDate(date, loc)
	if err != nil {
		return false
	}
	if day.Weekday() == time.Sunday {
		return false
	}
	return !excluded.Contains(date)
}

// WorkingDays keeps the dates that pass IsWorkingDay, preserving order.
func WorkingDays(days []string, excluded ExclusionSet, loc *time.Location) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if IsWorkingDay(d, excluded, loc) {
			out = append(out, d)
		}
	}
	return out
}
