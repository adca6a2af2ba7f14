// Package attendance turns raw check-in/check-out scans into per-day
// classifications and per-employee summaries. Every function here is pure:
// the same events, exclusions and range always produce the same result.
package attendance

import "time"

type EventKind string

const (
	KindCheckIn  EventKind = "check-in"
	KindCheckOut EventKind = "check-out"
)

func (k EventKind) Valid() bool {
	return k == KindCheckIn || k == KindCheckOut
}

// Event is one scan as read from the event source.
type Event struct {
	EmployeeID string    `json:"employeeId"`
	Date       string    `json:"date"`
	Kind       EventKind `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Location   string    `json:"location,omitempty"`
}

// wellFormed reports whether the event can take part in classification.
func (e Event) wellFormed() bool {
	return e.EmployeeID != "" && e.Kind.Valid() && !e.Timestamp.IsZero()
}

type Status string

const (
	StatusPresent    Status = "Present"
	StatusAbsent     Status = "Absent"
	StatusIncomplete Status = "Incomplete"
)

// NoDuration is shown in place of a working duration that cannot be computed.
const NoDuration = "-"

// DayRecord is the derived attendance of one employee on one civil date.
type DayRecord struct {
	Date             string     `json:"date"`
	Status           Status     `json:"status"`
	CheckIn          *time.Time `json:"checkIn,omitempty"`
	CheckOut         *time.Time `json:"checkOut,omitempty"`
	CheckInLocation  string     `json:"checkInLocation,omitempty"`
	CheckOutLocation string     `json:"checkOutLocation,omitempty"`
	WorkingHours     string     `json:"workingHours"`
	WorkedMinutes    int        `json:"workedMinutes"`
	// Anomaly marks a checkout earlier than its check-in, or a checkout with no check-in.
	Anomaly bool `json:"anomaly,omitempty"`
}

// EmployeeSummary rolls up the DayRecords of one employee over a range.
type EmployeeSummary struct {
	EmployeeID     string      `json:"employeeId"`
	Records        []DayRecord `json:"records"`
	PresentDays    int         `json:"presentDays"`
	AbsentDays     int         `json:"absentDays"`
	IncompleteDays int         `json:"incompleteDays"`
	SkippedEvents  int         `json:"skippedEvents"`
}

// WorkingDays is the number of days the summary was computed over.
func (s EmployeeSummary) WorkingDays() int {
	return len(s.Records)
}
