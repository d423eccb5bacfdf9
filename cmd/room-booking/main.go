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

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/room-booking-api/api/swagger"
	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/handler"
	"github.com/noah-isme/room-booking-api/internal/repository"
	"github.com/noah-isme/room-booking-api/internal/service"
	"github.com/noah-isme/room-booking-api/internal/validation"
	"github.com/noah-isme/room-booking-api/migrations"
	"github.com/noah-isme/room-booking-api/pkg/cache"
	"github.com/noah-isme/room-booking-api/pkg/config"
	"github.com/noah-isme/room-booking-api/pkg/database"
	"github.com/noah-isme/room-booking-api/pkg/jobs"
	"github.com/noah-isme/room-booking-api/pkg/logger"
)

// @title Conference Room Booking API
// @version 1.0.0
// @description Best-fit conference room allocation in 15 minute slots
// @BasePath /v1/conference/room
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lastSlot, err := allocation.ParseTimeOfDay(cfg.Booking.LastSlotStart)
	if err != nil {
		return fmt.Errorf("BOOKING_LAST_SLOT_START: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, migrations.FS, logr); err != nil {
			return err
		}
	}

	cacheRepo := repository.NewCacheRepository(connectRedis(ctx, cfg, logr), logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	availabilityCache := service.NewAvailabilityCache(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo.Enabled())

	invalidations := jobs.NewQueue("availability-cache", availabilityCache.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Cache.InvalidationWorkers,
		MaxRetries: cfg.Cache.InvalidationRetries,
		RetryDelay: 200 * time.Millisecond,
		Logger:     logr,
	})
	invalidations.Start(ctx)
	defer invalidations.Stop()

	clock := allocation.SystemClock{}
	validator := validation.New(nil, clock)
	bookings := service.NewBookingService(
		repository.NewRoomRepository(db),
		repository.NewMaintenanceRepository(db),
		repository.NewBookedRoomRepository(db),
		validator,
		availabilityCache,
		invalidations,
		metrics,
		clock,
		logr,
		service.BookingConfig{DefaultUserName: cfg.Booking.DefaultUserName, LastSlotStart: lastSlot},
	)
	exports := service.NewExportService(bookings, logr)

	router := newRouter(cfg, logr, routerDeps{
		bookings: handler.NewBookingHandler(bookings, exports, validator, logr),
		metrics: handler.NewMetricsHandler(metrics,
			handler.ReadinessCheck{Name: "postgres", Ping: pingDB(db)},
			handler.ReadinessCheck{Name: "redis", Ping: cacheRepo.Ping},
		),
		metricsSvc: metrics,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Bool("availability_cache", availabilityCache.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when caching is off or Redis is unreachable, which
// leaves the service computing every availability view.
func connectRedis(ctx context.Context, cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.Cache.Enabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		return nil
	}
	return client
}

func pingDB(db *sqlx.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
