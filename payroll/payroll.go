// Package payroll derives monthly salary records from attendance summaries.
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/cache"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
)

// Derive returns payable days and net pay for one month.
//
//	payable = present + incomplete * factor
//	net     = base * payable / workingDays, rounded to 2 places
//
// A month with no working days pays nothing.
func Derive(base decimal.Decimal, summary attendance.EmployeeSummary, factor decimal.Decimal) (payable, net decimal.Decimal) {
	payable = decimal.NewFromInt(int64(summary.PresentDays)).
		Add(decimal.NewFromInt(int64(summary.IncompleteDays)).Mul(factor))

	working := summary.WorkingDays()
	if working == 0 {
		return payable, decimal.Zero
	}
	net = base.Mul(payable).Div(decimal.NewFromInt(int64(working))).Round(2)
	return payable, net
}

type StaffSource interface {
	ListStaff(ctx context.Context) ([]models.User, error)
}

type SalaryStore interface {
	UpsertSalaries(ctx context.Context, records []models.SalaryRecord) error
	ListSalaries(ctx context.Context, month string) ([]models.SalaryRecord, error)
}

type RosterSource interface {
	MonthRange(month string) (reports.RangeFilter, error)
	Roster(ctx context.Context, filter reports.RangeFilter, employees []reports.Employee) (*reports.Roster, error)
}

// IDGenerator is satisfied by *snowflake.Node.
type IDGenerator interface {
	Generate() snowflake.ID
}

// Run is the outcome of one Generate call.
type Run struct {
	RunID   int64                 `json:"runId,string"`
	Month   string                `json:"month"`
	Records []models.SalaryRecord `json:"records"`
}

type Service struct {
	staff    StaffSource
	salaries SalaryStore
	reports  RosterSource
	locker   cache.Locker
	ids      IDGenerator
	factor   decimal.Decimal
	lockTTL  time.Duration
}

func NewService(staff StaffSource, salaries SalaryStore, rs RosterSource, locker cache.Locker, ids IDGenerator, incompleteFactor float64, lockTTL time.Duration) *Service {
	return &Service{
		staff:    staff,
		salaries: salaries,
		reports:  rs,
		locker:   locker,
		ids:      ids,
		factor:   decimal.NewFromFloat(incompleteFactor),
		lockTTL:  lockTTL,
	}
}

// Generate derives and stores the salary of every active staff member for the
// month "YYYY-MM". Only one run per month may be in flight; a concurrent call
// gets PAYROLL_IN_PROGRESS. Rerunning a month replaces its records.
func (s *Service) Generate(ctx context.Context, month string) (*Run, error) {
	filter, err := s.reports.MonthRange(month)
	if err != nil {
		return nil, err
	}

	// The run ID doubles as the lock token so only this run can release it.
	runID := s.ids.Generate()
	lockKey, token := "payroll:"+month, runID.String()
	ok, err := s.locker.TryLock(ctx, lockKey, token, s.lockTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PayrollFailed, fmt.Errorf("acquire lock: %w", err))
	}
	if !ok {
		return nil, apperrors.PayrollInProgress
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.locker.Unlock(unlockCtx, lockKey, token); err != nil {
			logger.Logger.Warn("release payroll lock", zap.String("month", month), zap.Error(err))
		}
	}()

	staff, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PayrollFailed, err)
	}

	employees := make([]reports.Employee, 0, len(staff))
	bases := make(map[string]decimal.Decimal, len(staff))
	for _, u := range staff {
		employees = append(employees, reports.Employee{EmployeeID: u.EmployeeID, Name: u.DisplayName()})
		bases[u.EmployeeID] = u.BaseSalary
	}

	roster, err := s.reports.Roster(ctx, filter, employees)
	if err != nil {
		return nil, err
	}

	run := &Run{
		RunID:   runID.Int64(),
		Month:   month,
		Records: make([]models.SalaryRecord, 0, len(roster.Rows)),
	}
	for _, row := range roster.Rows {
		base := bases[row.Employee.EmployeeID]
		payable, net := Derive(base, row.Summary, s.factor)
		run.Records = append(run.Records, models.SalaryRecord{
			EmployeeID:     row.Employee.EmployeeID,
			Month:          month,
			RunID:          run.RunID,
			WorkingDays:    row.Summary.WorkingDays(),
			PresentDays:    row.Summary.PresentDays,
			IncompleteDays: row.Summary.IncompleteDays,
			AbsentDays:     row.Summary.AbsentDays,
			PayableDays:    payable,
			BaseSalary:     base,
			NetSalary:      net,
		})
	}

	if err := s.salaries.UpsertSalaries(ctx, run.Records); err != nil {
		return nil, apperrors.Wrap(apperrors.PayrollFailed, err)
	}

	logger.Logger.Info("payroll generated",
		zap.String("month", month),
		zap.Int64("run_id", run.RunID),
		zap.Int("employees", len(run.Records)),
		zap.Int("skipped_events", roster.SkippedEvents),
	)
	return run, nil
}

func (s *Service) List(ctx context.Context, month string) ([]models.SalaryRecord, error) {
	if _, err := s.reports.MonthRange(month); err != nil {
		return nil, err
	}
	return s.salaries.ListSalaries(ctx, month)
}
