package attendance

import (
	"fmt"
	"time"
)

// Classify derives the DayRecord for one (employee, date) that survived the
// exclusion filter.
//
// A checkout earlier than the check-in is still Present, with the duration
// clamped to zero and the record flagged as an anomaly. A checkout without a
// check-in is Incomplete and flagged.
func Classify(date string, day DayEvents) DayRecord {
	rec := DayRecord{
		Date:         date,
		WorkingHours: NoDuration,
	}

	if day.CheckIn != nil {
		ts := day.CheckIn.Timestamp
		rec.CheckIn = &ts
		rec.CheckInLocation = day.CheckIn.Location
	}
	if day.CheckOut != nil {
		ts := day.CheckOut.Timestamp
		rec.CheckOut = &ts
		rec.CheckOutLocation = day.CheckOut.Location
	}

	switch {
	case rec.CheckIn != nil && rec.CheckOut != nil:
		rec.Status = StatusPresent
		worked := rec.CheckOut.Sub(*rec.CheckIn)
		if worked < 0 {
			worked = 0
			rec.Anomaly = true
		}
		rec.WorkedMinutes = int(worked / time.Minute)
		rec.WorkingHours = FormatMinutes(rec.WorkedMinutes)
	case rec.CheckIn != nil:
		rec.Status = StatusIncomplete
	case rec.CheckOut != nil:
		rec.Status = StatusIncomplete
		rec.Anomaly = true
	default:
		rec.Status = StatusAbsent
	}

	return rec
}

// FormatMinutes renders whole minutes as "<h>h <m>m".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
