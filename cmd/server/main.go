package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"horizon/coach-api/internal/api"
	"horizon/coach-api/internal/cache"
	"horizon/coach-api/internal/config"
	"horizon/coach-api/internal/logging"
	"horizon/coach-api/internal/repository/postgres"
	"horizon/coach-api/internal/service"
	"horizon/coach-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting coach api", zap.String("env", cfg.App.Env))

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database Connection ---
	db, err := postgres.ConnectDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		logger.Info("closing database")
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()
	logger.Info("database connection established")

	if cfg.Database.AutoMigrate {
		version, err := postgres.Migrate(db)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema up to date", zap.Uint("version", version))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Cache ---
	var catalogCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		c, client, err := cache.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, exercise cache disabled", zap.Error(err))
		} else {
			catalogCache = c
			defer func() { _ = client.Close() }()
		}
	}

	// --- Storage ---
	var media storage.MediaStorage
	if cfg.S3.Enabled() {
		media, err = storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			return fmt.Errorf("init media storage: %w", err)
		}
	} else {
		logger.Info("no s3 bucket configured, exercise media disabled")
	}

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	workoutRepo := postgres.NewWorkoutRepository(db)
	groupRepo := postgres.NewGroupWorkoutRepository(db)
	intakeRepo := postgres.NewIntakeRepository(db)
	lifestyleRepo := postgres.NewLifestyleRepository(db)
	healthRepo := postgres.NewHealthRepository(db)

	// --- Services ---
	authService, err := service.NewAuthService(userRepo, cfg.JWT, logger)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	services := api.Services{
		Auth:         authService,
		User:         service.NewUserService(userRepo),
		Exercise:     service.NewExerciseService(exerciseRepo, catalogCache, cfg.Redis.TTL, media, logger),
		Workout:      service.NewWorkoutService(workoutRepo),
		GroupWorkout: service.NewGroupWorkoutService(groupRepo, userRepo, logger),
		Intake:       service.NewIntakeService(intakeRepo, logger),
		Lifestyle:    service.NewLifestyleService(lifestyleRepo),
		Health:       service.NewHealthService(healthRepo),
	}

	// --- Router ---
	limiter := api.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	limiter.StartCleanup(10*time.Minute, stopCleanup)

	router := api.NewRouter(api.RouterOptions{
		Logger:           logger,
		Metrics:          api.NewMetrics(),
		Limiter:          limiter,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		ShowErrorDetails: cfg.App.IsDevelopment(),
	}, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
