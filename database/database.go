package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/config"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := Open(cfg.DBDriver, cfg.DatabaseURL, newLogger(cfg))
	if err != nil {
		return err
	}

	if cfg.DBDriver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
		sqlDB.SetConnMaxLifetime(2 * time.Hour)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := seedDefaultAdmin(db, cfg.DefaultAdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	DB = db
	logger.Logger.Info("Database initialized", zap.String("driver", cfg.DBDriver))
	return nil
}

// Open connects with the given driver ("postgres" or "sqlite"). A nil log
// silences GORM.
func Open(driver, dsn string, log gormlogger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = gormlogger.Discard
	}
	gormCfg := &gorm.Config{
		Logger:         log,
		TranslateError: true,
	}

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AttendanceEvent{},
		&models.ExcludedDate{},
		&models.SalaryRecord{},
		&models.Sequence{},
	)
}

func seedDefaultAdmin(db *gorm.DB, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:           "admin",
		FullName:           "Administrator",
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleAdmin,
		BaseSalary:         decimal.Zero,
		Active:             true,
		MustChangePassword: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Logger.Info("Default admin user created", zap.String("username", admin.Username))
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func Close(ctx context.Context) error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func newLogger(cfg *config.Config) gormlogger.Interface {
	var level gormlogger.LogLevel
	switch cfg.LoggerLevel {
	case "DEBUG":
		level = gormlogger.Info
	case "ERROR":
		level = gormlogger.Error
	default:
		level = gormlogger.Warn
	}

	return gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Logger.Sugar().Infof(format, args...)
}
