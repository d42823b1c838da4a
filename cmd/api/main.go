package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabriel/livechart-api/internal/cache"
	"github.com/gabriel/livechart-api/internal/catalog"
	"github.com/gabriel/livechart-api/internal/config"
	"github.com/gabriel/livechart-api/internal/database"
	"github.com/gabriel/livechart-api/internal/fetch"
	apihttp "github.com/gabriel/livechart-api/internal/http"
	"github.com/gabriel/livechart-api/internal/sources"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	profile, err := sources.LoadFile(cfg.SourcesConfigPath)
	if err != nil {
		slog.Error("failed to load source profile", "path", cfg.SourcesConfigPath, "error", err)
		os.Exit(1)
	}
	profile = profile.WithBaseURL(cfg.SourceBaseURL).WithTimeouts(cfg.FetchTimeoutSeconds, cfg.DetailTimeoutSeconds)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		slog.Error("failed to open cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	headers := fetch.DefaultHeaders(profile.BaseURL)
	for name, value := range profile.Headers {
		headers[name] = value
	}
	fetcher := fetch.NewHTTPFetcher(nil, headers, logger)

	service, err := catalog.New(catalog.Options{
		Store:             store,
		Fetcher:           fetcher,
		Profile:           profile,
		Logger:            logger,
		ExportConcurrency: cfg.ExportConcurrency,
	})
	if err != nil {
		slog.Error("failed to build catalog", "error", err)
		os.Exit(1)
	}

	app := apihttp.NewServer(cfg, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	slog.Info("api started",
		"port", cfg.Port,
		"env", cfg.Environment,
		"source", profile.BaseURL,
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cache.DefaultTTL.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func openStore(cfg config.Config, logger *slog.Logger) (cache.Store, func(), error) {
	if cfg.CacheBackend != config.CacheBackendSQLite {
		return cache.NewMemoryStore(cache.WithLogger(logger)), func() {}, nil
	}

	db, err := database.OpenMigrated(cfg.CacheSQLiteDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close sqlite", "error", err)
		}
	}
	return cache.NewSQLiteStore(db, time.Now, logger), closeDB, nil
}
