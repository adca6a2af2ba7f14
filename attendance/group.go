package attendance

import (
	"time"
)

// DayEvents is the matched scan pair of one employee on one civil date.
type DayEvents struct {
	CheckIn  *Event
	CheckOut *Event
}

// GroupByEmployee partitions events by exact employee ID. Malformed events are
// dropped and counted.
func GroupByEmployee(events []Event) (map[string][]Event, int) {
	groups := make(map[string][]Event)
	skipped := 0
	for _, ev := range events {
		if !ev.wellFormed() {
			skipped++
			continue
		}
		groups[ev.EmployeeID] = append(groups[ev.EmployeeID], ev)
	}
	return groups, skipped
}

// GroupByDate buckets one employee's events by civil date, keeping the earliest
// check-in and the latest check-out of each day. The event's stored date wins;
// when it is empty the date is derived from the timestamp in loc.
func GroupByDate(events []Event, employeeID string, loc *time.Location) (map[string]DayEvents, int) {
	days := make(map[string]DayEvents)
	skipped := 0

	for i := range events {
		ev := events[i]
		if ev.EmployeeID != employeeID {
			continue
		}
		if !ev.wellFormed() {
			skipped++
			continue
		}

		date := ev.Date
		if date == "" {
			date = CivilDate(ev.Timestamp, loc)
		} else if _, err := ParseDate(date, loc); err != nil {
			skipped++
			continue
		}

		bucket := days[date]
		switch ev.Kind {
		case KindCheckIn:
			if bucket.CheckIn == nil || ev.Timestamp.Before(bucket.CheckIn.Timestamp) {
				bucket.CheckIn = &ev
			}
		case KindCheckOut:
			if bucket.CheckOut == nil || ev.Timestamp.After(bucket.CheckOut.Timestamp) {
				bucket.CheckOut = &ev
			}
		}
		days[date] = bucket
	}

	return days, skipped
}
