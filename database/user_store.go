package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
)

// SequenceEmployeeID names the sequence that numbers employees.
const SequenceEmployeeID = "employee_id"

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already exists")
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ListStaff returns active users in a staff role that have an employee ID,
// ordered by employee ID.
func (s *UserStore) ListStaff(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("role IN ?", models.StaffRoles).
		Where("employee_id <> ''").
		Order("employee_id asc").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return users, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uint, hash string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "must_change_password": false}).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// CreateEmployee assigns the next employee ID (prefix + 4 digits) and inserts
// the user in one transaction, so a failed insert does not consume a number.
func (s *UserStore) CreateEmployee(ctx context.Context, user *models.User, prefix string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextSequence(tx, SequenceEmployeeID)
		if err != nil {
			return err
		}
		user.EmployeeID = FormatEmployeeID(prefix, n)
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// CreateUser inserts a user that is not numbered as an employee.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func FormatEmployeeID(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// nextSequence increments the named counter inside tx and returns its new
// value. The first call for a name returns 1.
func nextSequence(tx *gorm.DB, name string) (int64, error) {
	bump := func() (int64, error) {
		res := tx.Model(&models.Sequence{}).Where("name = ?", name).
			Update("value", gorm.Expr("value + ?", 1))
		return res.RowsAffected, res.Error
	}

	affected, err := bump()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Sequence{Name: name, Value: 1})
		if res.Error != nil {
			return 0, res.Error
		}
		// Another writer created the row first.
		if res.RowsAffected == 0 {
			if _, err := bump(); err != nil {
				return 0, err
			}
		}
	}

	var seq models.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}
