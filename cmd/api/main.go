package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/wellness-booking-api/api/swagger"
	"github.com/noah-isme/wellness-booking-api/internal/handler"
	"github.com/noah-isme/wellness-booking-api/internal/middleware"
	"github.com/noah-isme/wellness-booking-api/internal/repository"
	"github.com/noah-isme/wellness-booking-api/internal/service"
	"github.com/noah-isme/wellness-booking-api/pkg/cache"
	"github.com/noah-isme/wellness-booking-api/pkg/config"
	"github.com/noah-isme/wellness-booking-api/pkg/database"
	"github.com/noah-isme/wellness-booking-api/pkg/export"
	"github.com/noah-isme/wellness-booking-api/pkg/jobs"
	"github.com/noah-isme/wellness-booking-api/pkg/logger"
	"github.com/noah-isme/wellness-booking-api/pkg/signing"
)

// @title Wellness Booking API
// @version 1.0.0
// @description Monthly availability resolution and admin scheduling overrides.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Calendar.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, month cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	location, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		logr.Fatal("invalid CALENDAR_TIMEZONE", zap.String("timezone", cfg.Calendar.Timezone), zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, "wb:", logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Calendar.CacheTTL, logr, cfg.Calendar.CacheEnabled && redisClient != nil)

	invalidations := jobs.NewQueue("calendar-invalidation", service.NewInvalidationHandler(cacheSvc), jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	invalidations.Start(ctx)
	defer invalidations.Stop()

	calendarSvc := service.NewCalendarService(service.CalendarServiceParams{
		Store:     repository.NewAvailabilityRepository(db),
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config:    service.CalendarServiceConfig{TeamRoles: cfg.Calendar.TeamRoles, CacheTTL: cfg.Calendar.CacheTTL},
	})
	exportSvc := service.NewExportService(calendarSvc, service.ExportConfig{Location: location}, logr,
		export.NewCSVExporter(), export.NewPDFExporter(), export.NewICSExporter(cfg.Calendar.ProductID))
	feedSvc := service.NewCalendarFeedService(calendarSvc, exportSvc,
		signing.NewFeedTokenSigner(cfg.Calendar.FeedSecret, cfg.Calendar.FeedTTL),
		service.CalendarFeedConfig{APIPrefix: cfg.APIPrefix}, logr)
	adminSvc := service.NewAvailabilityAdminService(
		repository.NewExceptionRepository(db),
		repository.NewBlockedDateRepository(db),
		invalidations, validate, logr)
	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL)
	go limiter.Run(ctx)

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:          authSvc,
		metrics:       metrics,
		limiter:       limiter,
		calendar:      handler.NewCalendarHandler(calendarSvc, exportSvc, feedSvc),
		availability:  handler.NewAvailabilityHandler(adminSvc),
		observability: handler.NewMetricsHandler(metrics.Handler(), checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logr.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logr.Error("server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	cancel()
	logr.Info("server stopped")
}
