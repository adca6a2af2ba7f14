// Package apperrors holds the business error codes returned to API clients.
package apperrors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition is a stable error code with its default message.
type Definition struct {
	Code    string
	Message string
	// Retryable tells the client the same request may succeed later.
	Retryable bool
}

// Is matches on Code so a Definition wrapped with a different message still
// compares equal.
func (d Definition) Is(target error) bool {
	t, ok := target.(Definition)
	return ok && t.Code == d.Code
}

// WithMessage keeps the code and replaces the message.
func (d Definition) WithMessage(msg string) Definition {
	d.Message = msg
	return d
}

// Request and auth errors.
var (
	InvalidRequest     = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	InvalidDate        = Definition{Code: "INVALID_DATE", Message: "Date must be YYYY-MM-DD"}
	InvalidMonth       = Definition{Code: "INVALID_MONTH", Message: "Month must be YYYY-MM"}
	InvalidCredentials = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden          = Definition{Code: "FORBIDDEN", Message: "Forbidden"}
	PasswordChange     = Definition{Code: "PASSWORD_CHANGE_REQUIRED", Message: "Password must be changed first"}
	WeakPassword       = Definition{Code: "WEAK_PASSWORD", Message: "Password must be at least 8 characters"}
	NotFound           = Definition{Code: "NOT_FOUND", Message: "Not found"}
	InvalidRole        = Definition{Code: "INVALID_ROLE", Message: "Invalid role"}
	UsernameTaken      = Definition{Code: "USERNAME_TAKEN", Message: "Username already exists"}
)

// Attendance errors.
var (
	AttendanceFetchFailed = Definition{Code: "ATTENDANCE_FETCH_FAILED", Message: "Attendance data is temporarily unavailable", Retryable: true}
	ExclusionFetchFailed  = Definition{Code: "EXCLUSION_FETCH_FAILED", Message: "Excluded dates are temporarily unavailable", Retryable: true}
	AttendanceWriteFailed = Definition{Code: "ATTENDANCE_WRITE_FAILED", Message: "Attendance could not be recorded", Retryable: true}
	ExclusionWriteFailed  = Definition{Code: "EXCLUSION_WRITE_FAILED", Message: "Excluded dates could not be saved", Retryable: true}
	EmployeeNotLinked     = Definition{Code: "EMPLOYEE_NOT_LINKED", Message: "Account has no employee ID"}
)

// Payroll errors.
var (
	PayrollInProgress = Definition{Code: "PAYROLL_IN_PROGRESS", Message: "Payroll for this month is already running", Retryable: true}
	PayrollFailed     = Definition{Code: "PAYROLL_FAILED", Message: "Payroll generation failed"}
)

var Internal = Definition{Code: "INTERNAL_ERROR", Message: "Internal error"}

// As extracts the Definition from err's chain.
func As(err error) (Definition, bool) {
	var def Definition
	if errors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}

// Wrapped pairs a Definition with the underlying cause. Clients see only the
// Definition; the cause is kept for logs.
type Wrapped struct {
	Def   Definition
	Cause error
}

func Wrap(def Definition, cause error) error {
	return &Wrapped{Def: def, Cause: cause}
}

func (w *Wrapped) Error() string {
	if w.Cause == nil {
		return w.Def.Message
	}
	return w.Def.Message + ": " + w.Cause.Error()
}

func (w *Wrapped) Unwrap() []error {
	return []error{w.Def, w.Cause}
}
