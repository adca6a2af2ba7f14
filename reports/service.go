// Package reports is the one place attendance is queried and derived. Every
// view, export and payroll run goes through Service so the working-day and
// classification rules are applied identically.
//
// Excluded dates and events are fetched in two separate reads with no
// isolation between them. An exclusion added or removed between the reads may
// or may not be reflected in that one response; the next call sees it.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
)

// EventSource reads persisted attendance events. Empty bounds or employee are
// not applied.
type EventSource interface {
	ListEvents(ctx context.Context, from, to, employeeID string) ([]attendance.Event, error)
}

// ExclusionSource reads the administrator-declared excluded dates.
type ExclusionSource interface {
	ExcludedDates(ctx context.Context) ([]string, error)
}

// RangeFilter selects an inclusive civil-date range and optionally one employee.
type RangeFilter struct {
	From       string `json:"from"`
	To         string `json:"to"`
	EmployeeID string `json:"employeeId,omitempty"`
}

// DefaultMaxRangeDays caps a query at one leap year of civil dates.
const DefaultMaxRangeDays = 366

// Validate checks both bounds are YYYY-MM-DD and the range spans at most
// maxDays dates. An inverted range is valid and yields an empty result.
func (f RangeFilter) Validate(loc *time.Location, maxDays int) error {
	from, err := attendance.ParseDate(f.From, loc)
	if err != nil {
		return apperrors.InvalidDate.WithMessage("from must be YYYY-MM-DD")
	}
	to, err := attendance.ParseDate(f.To, loc)
	if err != nil {
		return apperrors.InvalidDate.WithMessage("to must be YYYY-MM-DD")
	}
	if maxDays > 0 && !to.Before(from) && spanDays(from, to) > maxDays {
		return apperrors.InvalidDate.WithMessage(fmt.Sprintf("range must not exceed %d days", maxDays))
	}
	return nil
}

// spanDays counts the civil dates in [from, to] without enumerating them.
func spanDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix()-a.Unix())/86400) + 1
}

// Employee is the identity shown next to a summary.
type Employee struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
}

type RosterRow struct {
	Employee     Employee                   `json:"employee"`
	Summary      attendance.EmployeeSummary `json:"summary"`
	LatestStatus *attendance.DayRecord      `json:"latestStatus,omitempty"`
}

// Roster is the admin roll-up of several employees over one range.
type Roster struct {
	From          string      `json:"from"`
	To            string      `json:"to"`
	WorkingDays   []string    `json:"workingDays"`
	Rows          []RosterRow `json:"rows"`
	SkippedEvents int         `json:"skippedEvents"`
}

type Service struct {
	events     EventSource
	exclusions ExclusionSource
	loc        *time.Location
	maxDays    int
	now        func() time.Time
}

type Option func(*Service)

// WithMaxRangeDays overrides DefaultMaxRangeDays. Values below one are ignored.
func WithMaxRangeDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

func NewService(events EventSource, exclusions ExclusionSource, loc *time.Location, opts ...Option) *Service {
	s := &Service{
		events:     events,
		exclusions: exclusions,
		loc:        loc,
		maxDays:    DefaultMaxRangeDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Validate applies the date format and range length checks of this service.
func (s *Service) Validate(filter RangeFilter) error {
	return filter.Validate(s.loc, s.maxDays)
}

// Today is the current civil date in the reference zone.
func (s *Service) Today() string {
	return attendance.CivilDate(s.now(), s.loc)
}

// MonthToDate is the range from the first of the current month to today.
func (s *Service) MonthToDate() RangeFilter {
	now := s.now().In(s.loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return RangeFilter{From: first.Format(attendance.DateLayout), To: now.Format(attendance.DateLayout)}
}

// MonthRange is the full calendar month "YYYY-MM".
func (s *Service) MonthRange(month string) (RangeFilter, error) {
	first, err := time.ParseInLocation("2006-01", month, s.loc)
	if err != nil {
		return RangeFilter{}, apperrors.InvalidMonth
	}
	last := first.AddDate(0, 1, -1)
	return RangeFilter{From: first.Format(attendance.DateLayout), To: last.Format(attendance.DateLayout)}, nil
}

// WorkingDays returns the filtered dates of the range.
func (s *Service) WorkingDays(ctx context.Context, filter RangeFilter) ([]string, error) {
	days, excluded, err := s.loadCalendar(ctx, filter)
	if err != nil {
		return nil, err
	}
	return attendance.WorkingDays(days, excluded, s.loc), nil
}

// EmployeeSummary computes one employee's summary over the range.
func (s *Service) EmployeeSummary(ctx context.Context, filter RangeFilter) (attendance.EmployeeSummary, error) {
	if filter.EmployeeID == "" {
		return attendance.EmployeeSummary{}, apperrors.InvalidRequest.WithMessage("employee is required")
	}

	days, excluded, err := s.loadCalendar(ctx, filter)
	if err != nil {
		return attendance.EmployeeSummary{}, err
	}
	if len(days) == 0 {
		return attendance.Summarize(filter.EmployeeID, nil), nil
	}

	events, err := s.events.ListEvents(ctx, filter.From, filter.To, filter.EmployeeID)
	if err != nil {
		return attendance.EmployeeSummary{}, apperrors.Wrap(apperrors.AttendanceFetchFailed, err)
	}

	return attendance.Compute(filter.EmployeeID, events, excluded, days, s.loc), nil
}

// Roster computes a summary per employee, in the order given, with each
// employee's latest status. A filter EmployeeID narrows the roster to that one
// employee.
func (s *Service) Roster(ctx context.Context, filter RangeFilter, employees []Employee) (*Roster, error) {
	if filter.EmployeeID != "" {
		employees = narrow(employees, filter.EmployeeID)
	}

	days, excluded, err := s.loadCalendar(ctx, filter)
	if err != nil {
		return nil, err
	}

	roster := &Roster{
		From:        filter.From,
		To:          filter.To,
		WorkingDays: attendance.WorkingDays(days, excluded, s.loc),
		Rows:        make([]RosterRow, 0, len(employees)),
	}
	if len(days) == 0 || len(employees) == 0 {
		for _, emp := range employees {
			roster.Rows = append(roster.Rows, RosterRow{Employee: emp, Summary: attendance.Summarize(emp.EmployeeID, nil)})
		}
		return roster, nil
	}

	events, err := s.events.ListEvents(ctx, filter.From, filter.To, filter.EmployeeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.AttendanceFetchFailed, err)
	}

	byEmployee, skipped := attendance.GroupByEmployee(events)
	roster.SkippedEvents = skipped

	today := s.Today()
	for _, emp := range employees {
		summary := attendance.Compute(emp.EmployeeID, byEmployee[emp.EmployeeID], excluded, days, s.loc)
		roster.SkippedEvents += summary.SkippedEvents

		row := RosterRow{Employee: emp, Summary: summary}
		if latest, ok := attendance.LatestStatus(summary.Records, today); ok {
			row.LatestStatus = &latest
		}
		roster.Rows = append(roster.Rows, row)
	}
	return roster, nil
}

// loadCalendar enumerates the range and reads the exclusion set. The caller
// applies the exclusion filter.
func (s *Service) loadCalendar(ctx context.Context, filter RangeFilter) ([]string, attendance.ExclusionSet, error) {
	if err := s.Validate(filter); err != nil {
		return nil, nil, err
	}

	days, err := attendance.DaysBetween(filter.From, filter.To, s.loc)
	if err != nil {
		return nil, nil, apperrors.InvalidDate
	}
	if len(days) == 0 {
		return days, attendance.NewExclusionSet(), nil
	}

	dates, err := s.exclusions.ExcludedDates(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ExclusionFetchFailed, err)
	}
	return days, attendance.NewExclusionSet(dates...), nil
}

func narrow(employees []Employee, employeeID string) []Employee {
	for _, emp := range employees {
		if emp.EmployeeID == employeeID {
			return []Employee{emp}
		}
	}
	return []Employee{}
}
