package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/middleware"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/payroll"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

const maxBodyBytes = 1 << 20

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	ListStaff(ctx context.Context) ([]models.User, error)
	CreateEmployee(ctx context.Context, user *models.User, prefix string) error
	CreateUser(ctx context.Context, user *models.User) error
}

type EventAppender interface {
	Append(ctx context.Context, ev *models.AttendanceEvent) error
}

type ExclusionStore interface {
	ListExcluded(ctx context.Context) ([]models.ExcludedDate, error)
	AddExcluded(ctx context.Context, dates ...string) (int, error)
	DeleteExcluded(ctx context.Context, date string) (bool, error)
}

type PayrollService interface {
	Generate(ctx context.Context, month string) (*payroll.Run, error)
	List(ctx context.Context, month string) ([]models.SalaryRecord, error)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set. Failures are reported with response.BindError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// allowed writes 401 or 403 and returns false unless the signed-in user
// passes can.
func allowed(w http.ResponseWriter, r *http.Request, can func(*models.User) bool) bool {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, r, apperrors.Unauthorized)
		return false
	}
	if !can(session.User()) {
		response.Error(w, r, apperrors.Forbidden)
		return false
	}
	return true
}

// rangeFromQuery reads from/to/employee_id. Missing bounds default to the
// current month up to today.
func rangeFromQuery(r *http.Request, rs *reports.Service) reports.RangeFilter {
	q := r.URL.Query()
	def := rs.MonthToDate()
	filter := reports.RangeFilter{
		From:       q.Get("from"),
		To:         q.Get("to"),
		EmployeeID: q.Get("employee_id"),
	}
	if filter.From == "" {
		filter.From = def.From
	}
	if filter.To == "" {
		filter.To = def.To
	}
	return filter
}

func toEmployees(users []models.User) []reports.Employee {
	out := make([]reports.Employee, 0, len(users))
	for _, u := range users {
		out = append(out, reports.Employee{EmployeeID: u.EmployeeID, Name: u.DisplayName()})
	}
	return out
}
