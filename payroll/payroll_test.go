package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/cache"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
)

func summaryOf(working, present, incomplete int) attendance.EmployeeSummary {
	return attendance.EmployeeSummary{
		Records:        make([]attendance.DayRecord, working),
		PresentDays:    present,
		IncompleteDays: incomplete,
		AbsentDays:     working - present - incomplete,
	}
}

func TestDerive(t *testing.T) {
	half := decimal.NewFromFloat(0.5)
	cases := []struct {
		name        string
		base        int64
		summary     attendance.EmployeeSummary
		wantPayable string
		wantNet     string
	}{
		{"full month", 26000, summaryOf(26, 26, 0), "26", "26000"},
		{"incomplete counts half", 26000, summaryOf(26, 20, 2), "21", "21000"},
		{"rounds to paise", 10000, summaryOf(3, 1, 0), "1", "3333.33"},
		{"no working days", 26000, summaryOf(0, 0, 0), "0", "0"},
		{"all absent", 26000, summaryOf(26, 0, 0), "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payable, net := Derive(decimal.NewFromInt(tc.base), tc.summary, half)
			if payable.String() != tc.wantPayable || net.String() != tc.wantNet {
				t.Fatalf("payable=%s net=%s, want %s %s", payable, net, tc.wantPayable, tc.wantNet)
			}
		})
	}
}

type stubStaff struct {
	users []models.User
	err   error
}

func (s stubStaff) ListStaff(context.Context) ([]models.User, error) { return s.users, s.err }

type memorySalaries struct {
	upsertFn func(records []models.SalaryRecord) error
	rows     map[string]models.SalaryRecord
}

func (m *memorySalaries) UpsertSalaries(_ context.Context, records []models.SalaryRecord) error {
	if m.upsertFn != nil {
		if err := m.upsertFn(records); err != nil {
			return err
		}
	}
	if m.rows == nil {
		m.rows = make(map[string]models.SalaryRecord)
	}
	for _, r := range records {
		m.rows[r.EmployeeID+"/"+r.Month] = r
	}
	return nil
}

func (m *memorySalaries) ListSalaries(_ context.Context, month string) ([]models.SalaryRecord, error) {
	var out []models.SalaryRecord
	for _, r := range m.rows {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

type staticEvents []attendance.Event

func (s staticEvents) ListEvents(context.Context, string, string, string) ([]attendance.Event, error) {
	return s, nil
}

type staticExclusions []string

func (s staticExclusions) ExcludedDates(context.Context) ([]string, error) { return s, nil }

func scanAt(t *testing.T, employee string, kind attendance.EventKind, value string, loc *time.Location) attendance.Event {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return attendance.Event{EmployeeID: employee, Date: ts.Format(attendance.DateLayout), Kind: kind, Timestamp: ts}
}

func newTestService(t *testing.T, locker cache.Locker, salaries *memorySalaries) *Service {
	t.Helper()
	loc := attendance.LoadLocation("Asia/Kolkata")
	events := staticEvents{
		scanAt(t, "ADV0001", attendance.KindCheckIn, "2024-03-04 09:00", loc),
		scanAt(t, "ADV0001", attendance.KindCheckOut, "2024-03-04 18:00", loc),
		scanAt(t, "ADV0001", attendance.KindCheckIn, "2024-03-05 09:00", loc),
	}
	staff := stubStaff{users: []models.User{
		{EmployeeID: "ADV0001", FullName: "Alice", Role: models.RoleAdvocateEmployee, BaseSalary: decimal.NewFromInt(25000)},
		{EmployeeID: "ADV0002", FullName: "Bob", Role: models.RoleLitigation, BaseSalary: decimal.NewFromInt(30000)},
	}}
	rs := reports.NewService(events, staticExclusions{"2024-03-25"}, loc)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewService(staff, salaries, rs, locker, node, 0.5, time.Minute)
}

func TestGenerateWritesOneRecordPerEmployee(t *testing.T) {
	salaries := &memorySalaries{}
	svc := newTestService(t, cache.NewLocalLocker(), salaries)

	run, err := svc.Generate(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if run.RunID == 0 || len(run.Records) != 2 {
		t.Fatalf("run = %+v", run)
	}

	// March 2024: 31 days, 5 Sundays, 1 excluded date.
	alice := salaries.rows["ADV0001/2024-03"]
	if alice.WorkingDays != 25 || alice.PresentDays != 1 || alice.IncompleteDays != 1 || alice.AbsentDays != 23 {
		t.Fatalf("alice = %+v", alice)
	}
	if alice.PayableDays.String() != "1.5" || alice.NetSalary.String() != "1500" {
		t.Fatalf("alice pay = %s / %s", alice.PayableDays, alice.NetSalary)
	}
	if alice.RunID != run.RunID {
		t.Fatalf("run id not stamped")
	}

	bob := salaries.rows["ADV0002/2024-03"]
	if !bob.NetSalary.IsZero() || bob.AbsentDays != 25 {
		t.Fatalf("bob = %+v", bob)
	}

	again, err := svc.Generate(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if again.RunID == run.RunID || salaries.rows["ADV0001/2024-03"].RunID != again.RunID {
		t.Fatalf("rerun did not replace records")
	}
}

func TestGenerateRejectsConcurrentRun(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	locker := cache.NewWithClient(rdb, "test")

	svc := newTestService(t, locker, &memorySalaries{})
	ctx := context.Background()

	if ok, err := locker.TryLock(ctx, "payroll:2024-03", "other-run", time.Minute); err != nil || !ok {
		t.Fatalf("pre-lock = %v, %v", ok, err)
	}

	_, err := svc.Generate(ctx, "2024-03")
	if !errors.Is(err, apperrors.PayrollInProgress) {
		t.Fatalf("err = %v", err)
	}

	if _, err := svc.Generate(ctx, "2024-04"); err != nil {
		t.Fatalf("other month: %v", err)
	}
	if mr.Exists("test:lock:payroll:2024-04") {
		t.Fatalf("lock not released after run")
	}
	if got, _ := mr.Get("test:lock:payroll:2024-03"); got != "other-run" {
		t.Fatalf("rejected run touched the holder's lock: %q", got)
	}
}

func TestGenerateReleasesLockOnFailure(t *testing.T) {
	locker := cache.NewLocalLocker()
	salaries := &memorySalaries{upsertFn: func([]models.SalaryRecord) error { return errors.New("disk full") }}
	svc := newTestService(t, locker, salaries)

	_, err := svc.Generate(context.Background(), "2024-03")
	if !errors.Is(err, apperrors.PayrollFailed) {
		t.Fatalf("err = %v", err)
	}
	if ok, _ := locker.TryLock(context.Background(), "payroll:2024-03", "next-run", time.Minute); !ok {
		t.Fatalf("lock still held after failure")
	}
}

func TestGenerateRejectsBadMonth(t *testing.T) {
	svc := newTestService(t, cache.NewLocalLocker(), &memorySalaries{})
	if _, err := svc.Generate(context.Background(), "March"); !errors.Is(err, apperrors.InvalidMonth) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.List(context.Background(), "2024-3-1"); !errors.Is(err, apperrors.InvalidMonth) {
		t.Fatalf("list err = %v", err)
	}
}
