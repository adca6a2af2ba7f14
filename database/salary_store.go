package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
)

type SalaryStore struct {
	db *gorm.DB
}

func NewSalaryStore(db *gorm.DB) *SalaryStore {
	return &SalaryStore{db: db}
}

// UpsertSalaries writes one row per (employee, month), replacing earlier runs.
func (s *SalaryStore) UpsertSalaries(ctx context.Context, records []models.SalaryRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "run_id", "working_days", "present_days", "incomplete_days",
			"absent_days", "payable_days", "base_salary", "net_salary",
		}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("upsert salary records: %w", err)
	}
	return nil
}

func (s *SalaryStore) ListSalaries(ctx context.Context, month string) ([]models.SalaryRecord, error) {
	var rows []models.SalaryRecord
	err := s.db.WithContext(ctx).Where("month = ?", month).Order("employee_id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list salary records: %w", err)
	}
	return rows, nil
}
