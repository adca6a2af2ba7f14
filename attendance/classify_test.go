package attendance

import (
	"testing"
	"time"
)

func scan(t *testing.T, employee string, kind EventKind, at string) Event {
	t.Helper()
	ts := mustTime(t, at)
	return Event{
		EmployeeID: employee,
		Date:       ts.Format(DateLayout),
		Kind:       kind,
		Timestamp:  ts,
	}
}

func TestClassifyPresentFloorsMinutes(t *testing.T) {
	in := scan(t, "alice", KindCheckIn, "2024-03-04 09:00:00")
	out := scan(t, "alice", KindCheckOut, "2024-03-04 16:59:30")

	rec := Classify("2024-03-04", DayEvents{CheckIn: &in, CheckOut: &out})
	if rec.Status != StatusPresent {
		t.Fatalf("status = %s", rec.Status)
	}
	if rec.WorkingHours != "7h 59m" || rec.WorkedMinutes != 479 {
		t.Fatalf("duration = %q (%d)", rec.WorkingHours, rec.WorkedMinutes)
	}
}

func TestClassifyDurationProperty(t *testing.T) {
	base := mustTime(t, "2024-03-04 08:00:00")
	for _, worked := range []time.Duration{
		time.Minute, 59 * time.Second, 61*time.Minute + 59*time.Second, 9*time.Hour + 30*time.Minute, 13*time.Hour + 7*time.Minute + 1*time.Second,
	} {
		in := Event{EmployeeID: "a", Kind: KindCheckIn, Timestamp: base}
		out := Event{EmployeeID: "a", Kind: KindCheckOut, Timestamp: base.Add(worked)}
		rec := Classify("2024-03-04", DayEvents{CheckIn: &in, CheckOut: &out})

		total := int(worked / time.Minute)
		if want := FormatMinutes(total); rec.WorkingHours != want {
			t.Errorf("worked %v: got %q, want %q", worked, rec.WorkingHours, want)
		}
		if rec.WorkedMinutes/60 != total/60 || rec.WorkedMinutes%60 != total%60 {
			t.Errorf("worked %v: minutes %d", worked, rec.WorkedMinutes)
		}
	}
}

func TestClassifyIncompleteWithOnlyCheckIn(t *testing.T) {
	in := scan(t, "bob", KindCheckIn, "2024-03-06 09:15:00")

	rec := Classify("2024-03-06", DayEvents{CheckIn: &in})
	if rec.Status != StatusIncomplete || rec.WorkingHours != NoDuration {
		t.Fatalf("got %+v", rec)
	}
	if rec.Anomaly {
		t.Fatalf("check-in only is not an anomaly")
	}
}

func TestClassifyAbsent(t *testing.T) {
	rec := Classify("2024-03-06", DayEvents{})
	if rec.Status != StatusAbsent || rec.WorkingHours != NoDuration || rec.CheckIn != nil || rec.CheckOut != nil {
		t.Fatalf("got %+v", rec)
	}
}

func TestClassifyCheckoutBeforeCheckinIsClamped(t *testing.T) {
	in := scan(t, "carol", KindCheckIn, "2024-03-04 18:00:00")
	out := scan(t, "carol", KindCheckOut, "2024-03-04 09:00:00")

	rec := Classify("2024-03-04", DayEvents{CheckIn: &in, CheckOut: &out})
	if rec.Status != StatusPresent || rec.WorkingHours != "0h 0m" || !rec.Anomaly {
		t.Fatalf("got %+v", rec)
	}
}

func TestClassifyCheckoutOnlyIsFlagged(t *testing.T) {
	out := scan(t, "dave", KindCheckOut, "2024-03-04 18:00:00")

	rec := Classify("2024-03-04", DayEvents{CheckOut: &out})
	if rec.Status != StatusIncomplete || !rec.Anomaly || rec.WorkingHours != NoDuration {
		t.Fatalf("got %+v", rec)
	}
}

func TestClassifyCarriesLocations(t *testing.T) {
	in := scan(t, "erin", KindCheckIn, "2024-03-04 09:00:00")
	in.Location = "12.97,77.59"
	out := scan(t, "erin", KindCheckOut, "2024-03-04 17:00:00")
	out.Location = "High Court"

	rec := Classify("2024-03-04", DayEvents{CheckIn: &in, CheckOut: &out})
	if rec.CheckInLocation != "12.97,77.59" || rec.CheckOutLocation != "High Court" {
		t.Fatalf("got %+v", rec)
	}
}
