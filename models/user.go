package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleBankEmployee     Role = "BANK_EMPLOYEE"
	RoleBankManager      Role = "BANK_MANAGER"
	RoleLitigation       Role = "LITIGATION"
	RoleAdvocateEmployee Role = "ADVOCATE_EMPLOYEE"
)

// StaffRoles are the roles that record attendance and draw a salary.
var StaffRoles = []Role{RoleAdvocateEmployee, RoleLitigation}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleBankEmployee, RoleBankManager, RoleLitigation, RoleAdvocateEmployee:
		return r, true
	}
	return "", false
}

type User struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
	EmployeeID         string          `gorm:"index;size:20" json:"employee_id,omitempty"`
	Username           string          `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string          `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string          `gorm:"not null" json:"-"`
	Role               Role            `gorm:"not null;size:20" json:"role"`
	BaseSalary         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"base_salary"`
	Active             bool            `gorm:"not null;default:true" json:"active"`
	MustChangePassword bool            `gorm:"default:true" json:"must_change_password"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff reports whether the user takes part in attendance and payroll.
func (u *User) IsStaff() bool {
	for _, r := range StaffRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) CanRecordAttendance() bool {
	return u.IsStaff() && u.EmployeeID != ""
}

func (u *User) CanViewAllAttendance() bool {
	return u.IsAdmin()
}

func (u *User) CanViewAttendanceOf(employeeID string) bool {
	if u.CanViewAllAttendance() {
		return true
	}
	return u.EmployeeID != "" && u.EmployeeID == employeeID
}

func (u *User) CanExport() bool {
	return u.IsAdmin()
}

func (u *User) CanManageExcludedDates() bool {
	return u.IsAdmin()
}

func (u *User) CanRunPayroll() bool {
	return u.IsAdmin()
}
