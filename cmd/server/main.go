package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/api"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/config"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/health"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/logging"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/service"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/pkg/external"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.New(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generator, err := external.NewGenerator(ctx, cfg.Generation, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create generation client")
	}

	cache, err := external.NewLookupCache(ctx, cfg.Cache)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create lookup cache")
	}
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}

	validator, err := service.NewValidator()
	if err != nil {
		logger.WithError(err).Fatal("Failed to compile request schema")
	}

	openFDA := external.NewOpenFDAClient(cfg.Lookup, logger)
	recommender := service.NewRecommender(
		validator,
		external.NewPredictionClient(cfg.Prediction),
		generator,
		logger,
	)
	lookups := service.NewLookupService(openFDA, cache, cfg.Cache.TTL, logger)

	readiness := health.NewChecker(api.Version, 5*time.Second, logger)
	readiness.RegisterCheck(health.HTTPCheck{CheckName: "prediction", URL: cfg.Prediction.BaseURL, Critical: true})
	readiness.RegisterCheck(health.FuncCheck{CheckName: "openfda", Fn: openFDA.Available})
	if pinger, ok := cache.(interface{ Ping(context.Context) error }); ok {
		readiness.RegisterCheck(health.FuncCheck{CheckName: "lookup_cache", Fn: pinger.Ping})
	}

	server := api.NewServer(configManager, recommender, lookups, readiness, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":        cfg.Server.Host,
		"port":        cfg.Server.Port,
		"provider":    cfg.Generation.Provider,
		"model":       cfg.Generation.Model,
		"stream_mode": cfg.Generation.StreamMode,
		"cache":       cfg.Cache.Backend,
	}).Info("Starting medicine recommendation service")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
