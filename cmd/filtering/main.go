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

	"go.uber.org/zap"

	"github.com/kailas-cloud/filtering/internal/config"
	dbRedis "github.com/kailas-cloud/filtering/internal/db/redis"
	logpkg "github.com/kailas-cloud/filtering/internal/logger"
	filterrepo "github.com/kailas-cloud/filtering/internal/repository/filter"
	chiTransport "github.com/kailas-cloud/filtering/internal/transport/chi"
	healthuc "github.com/kailas-cloud/filtering/internal/usecase/health"
	"github.com/kailas-cloud/filtering/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting filtering service",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("layout", cfg.Storage.Layout),
	)

	// valkey and redis speak the same protocol; one rueidis store serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	repo := filterrepo.New(store, filterrepo.Options{
		KeyPrefix:      cfg.Storage.KeyPrefix,
		Layout:         filterrepo.Layout(cfg.Storage.Layout),
		DotReplacement: cfg.Storage.DotReplacement,
	})
	if cfg.Storage.CreateIndex {
		if err := repo.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to create filter index", zap.Error(err))
		}
		logger.Info("Filter index ready")
	}

	healthSvc := healthuc.New(store)

	handler := chiTransport.NewRouter(chiTransport.RouterConfig{
		Health:  healthSvc,
		Logger:  logger,
		APIKeys: cfg.Auth.APIKeys,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
