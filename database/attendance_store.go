package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
)

type AttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

// Append writes one scan. Events are never updated or deleted.
func (s *AttendanceStore) Append(ctx context.Context, ev *models.AttendanceEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("append attendance event: %w", err)
	}
	return nil
}

// ListEvents returns the events whose civil date lies in [from, to]. Empty
// bounds and an empty employeeID are not applied.
func (s *AttendanceStore) ListEvents(ctx context.Context, from, to, employeeID string) ([]attendance.Event, error) {
	query := s.db.WithContext(ctx).Model(&models.AttendanceEvent{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}

	var rows []models.AttendanceEvent
	if err := query.Order("scanned_at asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}

	events := make([]attendance.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.ToEvent())
	}
	return events, nil
}

type ExclusionStore struct {
	db *gorm.DB
}

func NewExclusionStore(db *gorm.DB) *ExclusionStore {
	return &ExclusionStore{db: db}
}

// ListExcluded returns every excluded date, oldest first.
func (s *ExclusionStore) ListExcluded(ctx context.Context) ([]models.ExcludedDate, error) {
	var rows []models.ExcludedDate
	if err := s.db.WithContext(ctx).Order("date asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list excluded dates: %w", err)
	}
	return rows, nil
}

// ExcludedDates returns the excluded dates as plain YYYY-MM-DD strings.
func (s *ExclusionStore) ExcludedDates(ctx context.Context) ([]string, error) {
	var dates []string
	if err := s.db.WithContext(ctx).Model(&models.ExcludedDate{}).Order("date asc").Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list excluded dates: %w", err)
	}
	return dates, nil
}

// AddExcluded inserts the dates, ignoring ones already excluded, and reports
// how many were new.
func (s *ExclusionStore) AddExcluded(ctx context.Context, dates ...string) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	rows := make([]models.ExcludedDate, 0, len(dates))
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		rows = append(rows, models.ExcludedDate{Date: d})
	}

	added := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoNothing: true,
			}).Create(&rows[i])
			if res.Error != nil {
				return res.Error
			}
			added += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add excluded dates: %w", err)
	}
	return added, nil
}

// DeleteExcluded removes one date by value. It reports false when the date was
// not excluded.
func (s *ExclusionStore) DeleteExcluded(ctx context.Context, date string) (bool, error) {
	res := s.db.WithContext(ctx).Where("date = ?", date).Delete(&models.ExcludedDate{})
	if res.Error != nil {
		return false, fmt.Errorf("delete excluded date: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
