package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/metrics"
	"parcel-tracker/internal/core/ratelimit"
	"parcel-tracker/internal/core/server"
	"parcel-tracker/internal/core/tracing"
	"parcel-tracker/internal/features/tracking"
	trackinghandler "parcel-tracker/internal/features/tracking/handler"

	"go.uber.org/zap"
)

// @title Parcel Tracker API
// @version 1.0
// @description Looks up the current status of Japanese parcels by scraping carrier tracking pages, with Track123 as fallback.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithOptions(cfg.Environment, cfg.LogLevel, logger.Options{File: cfg.LogFile}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing.Endpoint, cfg.ServiceName)
	if err != nil {
		l.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			l.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	metrics.Init()

	var serverOpts []server.Option
	if cfg.RateLimit.RedisURL != "" {
		limiter, err := ratelimit.NewRedisLimiter(cfg.RateLimit.RedisURL, cfg.RateLimit.PerMinute, time.Minute)
		if err != nil {
			l.Fatal("Failed to init rate limiter", zap.Error(err))
		}
		defer limiter.Close()

		if err := limiter.Ping(context.Background()); err != nil {
			l.Warn("Rate limiter store unreachable, requests will not be throttled", zap.Error(err))
		} else {
			l.Info("Rate limiting enabled", zap.Int("per_minute", cfg.RateLimit.PerMinute))
		}
		serverOpts = append(serverOpts, server.WithRateLimiter(limiter))
	}

	// Initialize Tracking Service & Handler
	trackingSvc, closeTracking, err := tracking.NewService(cfg)
	if err != nil {
		l.Fatal("Failed to init tracking service", zap.Error(err))
	}
	defer closeTracking()

	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	srv := server.New(cfg, serverOpts...)

	// Register Routes
	trackingHdl.RegisterRoutes(srv.App)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		l.Info("Shutting down")
		if err := srv.Shutdown(10 * time.Second); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
