package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, production

	// DBDriver is "postgres" or "sqlite".
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"postgresql://postgres@localhost:5432/advocates"`
	DBMaxIdle   int    `env:"DB_MAX_IDLE" envDefault:"10"`
	DBMaxOpen   int    `env:"DB_MAX_OPEN" envDefault:"50"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`

	// Empty RedisAddr disables the payroll lock and runs in single-instance mode.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"advocates"`

	AttendanceTimezone string `env:"ATTENDANCE_TIMEZONE" envDefault:"Asia/Kolkata"`
	// AttendanceMaxRangeDays bounds every report and export query.
	AttendanceMaxRangeDays int `env:"ATTENDANCE_MAX_RANGE_DAYS" envDefault:"366"`

	PayrollIncompleteFactor float64       `env:"PAYROLL_INCOMPLETE_FACTOR" envDefault:"0.5"`
	PayrollLockTTL          time.Duration `env:"PAYROLL_LOCK_TTL" envDefault:"5m"`
	SnowflakeNodeID         int64         `env:"SNOWFLAKE_NODE_ID" envDefault:"1"`

	EmployeeIDPrefix string `env:"EMPLOYEE_ID_PREFIX" envDefault:"ADV"`

	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD" envDefault:"admin"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: cannot load .env file: %v, using environment variables", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		log.Printf("WARN: JWT_SECRET is not set, using an insecure development secret")
		c.JWTSecret = "development-only-secret"
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if _, err := time.LoadLocation(c.AttendanceTimezone); err != nil {
		log.Printf("WARN: cannot load timezone %q: %v, falling back to fixed IST offset", c.AttendanceTimezone, err)
	}

	if c.AttendanceMaxRangeDays < 31 {
		return fmt.Errorf("ATTENDANCE_MAX_RANGE_DAYS must be at least 31, got %d", c.AttendanceMaxRangeDays)
	}

	if c.PayrollIncompleteFactor < 0 || c.PayrollIncompleteFactor > 1 {
		return fmt.Errorf("PAYROLL_INCOMPLETE_FACTOR must be within [0,1], got %v", c.PayrollIncompleteFactor)
	}

	if c.SnowflakeNodeID < 0 || c.SnowflakeNodeID > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE_ID must be within [0,1023], got %d", c.SnowflakeNodeID)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
