package models

import (
	"time"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
)

// AttendanceEvent is one persisted scan. Rows are append-only.
type AttendanceEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	EmployeeID string    `gorm:"not null;size:20;index:idx_attendance_employee_date" json:"employee_id"`
	Date       string    `gorm:"not null;size:10;index:idx_attendance_employee_date;index" json:"date"`
	Type       string    `gorm:"not null;size:10" json:"type"`
	ScannedAt  time.Time `gorm:"not null" json:"timestamp"`
	Location   string    `gorm:"size:255" json:"location,omitempty"`
}

func (e AttendanceEvent) ToEvent() attendance.Event {
	return attendance.Event{
		EmployeeID: e.EmployeeID,
		Date:       e.Date,
		Kind:       attendance.EventKind(e.Type),
		Timestamp:  e.ScannedAt,
		Location:   e.Location,
	}
}

// ExcludedDate is an administrator-declared non-working day.
type ExcludedDate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Date      string    `gorm:"uniqueIndex;not null;size:10" json:"date"`
}
