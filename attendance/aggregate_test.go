package attendance

import (
	"reflect"
	"testing"
)

func TestComputeSingleDayPresent(t *testing.T) {
	events := []Event{
		scan(t, "alice", KindCheckIn, "2024-03-04 09:00:00"),
		scan(t, "alice", KindCheckOut, "2024-03-04 18:30:00"),
	}
	days, _ := DaysBetween("2024-03-04", "2024-03-04", ist)

	summary := Compute("alice", events, NewExclusionSet(), days, ist)
	if summary.PresentDays != 1 || summary.AbsentDays != 0 || summary.IncompleteDays != 0 {
		t.Fatalf("counts = %+v", summary)
	}
	if summary.Records[0].WorkingHours != "9h 30m" {
		t.Fatalf("working hours = %q", summary.Records[0].WorkingHours)
	}
}

func TestComputeExcludedDateDisappears(t *testing.T) {
	days, _ := DaysBetween("2024-03-04", "2024-03-06", ist)

	summary := Compute("alice", nil, NewExclusionSet("2024-03-05"), days, ist)
	for _, r := range summary.Records {
		if r.Date == "2024-03-05" {
			t.Fatalf("excluded date present as %s", r.Status)
		}
	}
	if summary.AbsentDays != 2 {
		t.Fatalf("absent = %d", summary.AbsentDays)
	}
}

func TestComputeSkipsSundayWithoutExclusion(t *testing.T) {
	days, _ := DaysBetween("2024-03-09", "2024-03-11", ist)
	events := []Event{scan(t, "alice", KindCheckIn, "2024-03-10 10:00:00")}

	summary := Compute("alice", events, nil, days, ist)
	got := make([]string, 0, len(summary.Records))
	for _, r := range summary.Records {
		got = append(got, r.Date)
	}
	if !reflect.DeepEqual(got, []string{"2024-03-11", "2024-03-09"}) {
		t.Fatalf("dates = %v", got)
	}
}

func TestComputeIncompleteScenario(t *testing.T) {
	days, _ := DaysBetween("2024-03-06", "2024-03-06", ist)
	events := []Event{scan(t, "bob", KindCheckIn, "2024-03-06 09:15:00")}

	summary := Compute("bob", events, nil, days, ist)
	if summary.IncompleteDays != 1 || summary.Records[0].WorkingHours != "-" {
		t.Fatalf("got %+v", summary)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	days, _ := DaysBetween("2024-03-01", "2024-03-31", ist)
	events := []Event{
		scan(t, "alice", KindCheckIn, "2024-03-04 09:00:00"),
		scan(t, "alice", KindCheckOut, "2024-03-04 18:30:00"),
		scan(t, "alice", KindCheckIn, "2024-03-12 10:00:00"),
		{EmployeeID: "alice", Kind: "bogus"},
	}
	excluded := NewExclusionSet("2024-03-08", "2024-03-25")

	first := Compute("alice", events, excluded, days, ist)
	second := Compute("alice", events, excluded, days, ist)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ:\n%+v\n%+v", first, second)
	}
	if first.SkippedEvents != 1 {
		t.Fatalf("skipped = %d", first.SkippedEvents)
	}
	if first.PresentDays+first.AbsentDays+first.IncompleteDays != first.WorkingDays() {
		t.Fatalf("counts do not add up: %+v", first)
	}
}

func TestSummarizeOrdersNewestFirst(t *testing.T) {
	records := []DayRecord{
		{Date: "2024-03-04", Status: StatusPresent},
		{Date: "2024-03-06", Status: StatusAbsent},
		{Date: "2024-03-05", Status: StatusIncomplete},
	}

	summary := Summarize("alice", records)
	if summary.Records[0].Date != "2024-03-06" || summary.Records[2].Date != "2024-03-04" {
		t.Fatalf("order = %+v", summary.Records)
	}
	if records[0].Date != "2024-03-04" {
		t.Fatalf("input mutated")
	}
}

func TestLatestStatusPrefersToday(t *testing.T) {
	records := []DayRecord{
		{Date: "2024-03-06", Status: StatusPresent},
		{Date: "2024-03-05", Status: StatusAbsent},
	}

	if r, _ := LatestStatus(records, "2024-03-05"); r.Status != StatusAbsent {
		t.Fatalf("today record not preferred: %+v", r)
	}
	if r, _ := LatestStatus(records, "2024-03-07"); r.Date != "2024-03-06" {
		t.Fatalf("expected newest fallback, got %+v", r)
	}
	if _, ok := LatestStatus(nil, "2024-03-07"); ok {
		t.Fatalf("expected no status for empty records")
	}
}
