package attendance

import (
	"sort"
	"time"
)

// Summarize orders records newest first and tallies each status.
func Summarize(employeeID string, records []DayRecord) EmployeeSummary {
	sorted := make([]DayRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	summary := EmployeeSummary{
		EmployeeID: employeeID,
		Records:    sorted,
	}
	for _, r := range sorted {
		switch r.Status {
		case StatusPresent:
			summary.PresentDays++
		case StatusAbsent:
			summary.AbsentDays++
		case StatusIncomplete:
			summary.IncompleteDays++
		}
	}
	return summary
}

// LatestStatus picks the record for today if there is one, otherwise the
// newest record by date.
func LatestStatus(records []DayRecord, today string) (DayRecord, bool) {
	if len(records) == 0 {
		return DayRecord{}, false
	}

	newest := records[0]
	for _, r := range records {
		if r.Date == today {
			return r, true
		}
		if r.Date > newest.Date {
			newest = r
		}
	}
	return newest, true
}

// Compute runs the full pipeline for one employee: exclusion filter over days,
// grouping, classification and roll-up.
func Compute(employeeID string, events []Event, excluded ExclusionSet, days []string, loc *time.Location) EmployeeSummary {
	working := WorkingDays(days, excluded, loc)
	grouped, skipped := GroupByDate(events, employeeID, loc)

	records := make([]DayRecord, 0, len(working))
	for _, d := range working {
		records = append(records, Classify(d, grouped[d]))
	}

	summary := Summarize(employeeID, records)
	summary.SkippedEvents = skipped
	return summary
}
