package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/database"
	"github.com/stemsi/course-registration/internal/handler"
	"github.com/stemsi/course-registration/internal/logger"
	"github.com/stemsi/course-registration/internal/middleware"
	"github.com/stemsi/course-registration/internal/repository"
	"github.com/stemsi/course-registration/internal/router"
	"github.com/stemsi/course-registration/internal/service"
	"github.com/stemsi/course-registration/internal/validator"
	"github.com/stemsi/course-registration/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("matric_prefix", cfg.MatricPrefix).
		Msg("Starting Course Registration Server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup(cfg.MatricPrefix)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Apply Migrations ──────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations up to date")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	eventRepo := repository.NewEnrollmentEventRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService, cfg.MatricPrefix)
	catalogService := service.NewCatalogService(courseRepo, cfg.CatalogFile, log)
	enrollmentService := service.NewEnrollmentService(
		catalogService,
		studentRepo,
		service.NewRedisStudentLocker(rdb, cfg.EnrollmentLockTTL),
		service.NewRedisEnrollmentPublisher(rdb),
		log,
	)
	exportService := service.NewExportService(cfg.TermStart, log)

	// ─── Load Course Catalog ──────────────────────────────────────────
	// The catalog is fixed for the life of the process; load it before
	// accepting traffic.
	if err := catalogService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load course catalog")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, studentService, log),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, exportService, eventRepo, log),
		WS:         handler.NewWSHandler(rdb, enrollmentService, log, cfg.AllowedOrigins),
		Health:     handler.NewHealthHandler(pool, rdb, catalogService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	eventWorker := worker.NewEnrollmentEventWorker(eventRepo, rdb, log)
	go func() {
		eventWorker.Start(workerCtx)
		close(workerDone)
	}()

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	go authLimiter.Janitor(3*time.Minute, workerCtx.Done())

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, authLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the event worker and wait for the queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Event worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
