package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/cache"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/config"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/database"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/handlers"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/middleware"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/payroll"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
)

const passwordPath = "/api/auth/password"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg); err != nil {
		logger.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Payroll runs are serialized through redis when configured, otherwise
	// within this process only.
	var (
		locker      cache.Locker = cache.NewLocalLocker()
		redisClient *cache.Client
	)
	if cfg.RedisEnabled() {
		redisClient, err = cache.New(ctx, cfg)
		if err != nil {
			logger.Logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		locker = redisClient
	} else {
		logger.Logger.Warn("REDIS_ADDR is not set, payroll lock is local to this instance")
	}

	node, err := snowflake.NewNode(cfg.SnowflakeNodeID)
	if err != nil {
		logger.Logger.Fatal("Failed to create snowflake node", zap.Error(err))
	}

	db := database.GetDB()
	userStore := database.NewUserStore(db)
	attendanceStore := database.NewAttendanceStore(db)
	exclusionStore := database.NewExclusionStore(db)
	salaryStore := database.NewSalaryStore(db)

	loc := attendance.LoadLocation(cfg.AttendanceTimezone)
	reportService := reports.NewService(attendanceStore, exclusionStore, loc,
		reports.WithMaxRangeDays(cfg.AttendanceMaxRangeDays))
	payrollService := payroll.NewService(userStore, salaryStore, reportService, locker, node,
		cfg.PayrollIncompleteFactor, cfg.PayrollLockTTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userStore)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceStore, userStore, reportService)
	excludedHandler := handlers.NewExcludedDatesHandler(exclusionStore, loc)
	payrollHandler := handlers.NewPayrollHandler(payrollService)
	employeesHandler := handlers.NewEmployeesHandler(cfg, userStore)

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	healthHandler := handlers.NewHealthHandler(checks)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.AccessLog)
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", healthHandler.Health)
	router.Post("/api/auth/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(userStore))

		// Reachable even when a password change is pending
		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)
		r.Post(passwordPath, authHandler.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange(passwordPath))

			// Staff attendance
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.StaffRoles...))
				r.Post("/api/attendance/check-in", attendanceHandler.CheckIn)
				r.Post("/api/attendance/check-out", attendanceHandler.CheckOut)
			})
			r.Get("/api/attendance/me", attendanceHandler.Mine)
			r.Get("/api/attendance/working-days", attendanceHandler.WorkingDays)
			r.Get("/api/attendance/employees/{employeeID}", attendanceHandler.Employee)

			// Admin only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Get("/api/admin/attendance", attendanceHandler.Roster)
				r.Get("/api/admin/attendance/export", attendanceHandler.Export)

				r.Get("/api/excluded-dates", excludedHandler.List)
				r.Post("/api/excluded-dates", excludedHandler.Add)
				r.Delete("/api/excluded-dates/{date}", excludedHandler.Delete)

				r.Get("/api/admin/payroll/{month}", payrollHandler.List)
				r.Post("/api/admin/payroll/{month}", payrollHandler.Generate)

				r.Get("/api/admin/employees", employeesHandler.List)
				r.Post("/api/admin/employees", employeesHandler.Create)
			})
		})
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server shutdown", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Logger.Warn("Close redis", zap.Error(err))
		}
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Logger.Warn("Close database", zap.Error(err))
	}
}
