package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord is the derived pay of one employee for one month. A rerun of
// payroll overwrites the row for the same (employee, month).
type SalaryRecord struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	EmployeeID     string          `gorm:"not null;size:20;uniqueIndex:idx_salary_employee_month" json:"employee_id"`
	Month          string          `gorm:"not null;size:7;uniqueIndex:idx_salary_employee_month;index" json:"month"`
	RunID          int64           `gorm:"not null;index" json:"run_id,string"`
	WorkingDays    int             `gorm:"not null" json:"working_days"`
	PresentDays    int             `gorm:"not null" json:"present_days"`
	IncompleteDays int             `gorm:"not null" json:"incomplete_days"`
	AbsentDays     int             `gorm:"not null" json:"absent_days"`
	PayableDays    decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"payable_days"`
	BaseSalary     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_salary"`
	NetSalary      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net_salary"`
}

// Sequence backs generated identifiers such as employee IDs.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int64  `gorm:"not null;default:0"`
}
