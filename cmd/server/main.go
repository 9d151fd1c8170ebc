package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/grabba/internal/api"
	"github.com/iconidentify/grabba/internal/api/handler"
	"github.com/iconidentify/grabba/internal/config"
	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/extractor"
	"github.com/iconidentify/grabba/internal/fetch"
	"github.com/iconidentify/grabba/internal/history"
	"github.com/iconidentify/grabba/internal/service"
	"github.com/iconidentify/grabba/internal/workspace"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("grabba %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting grabba",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Workspace manager and stale-dir reaper
	workspaces, err := workspace.NewManager(cfg.Workspace.Root, logger)
	if err != nil {
		logger.Error("failed to create workspace root", "error", err)
		os.Exit(1)
	}
	reaper := workspace.NewReaper(workspace.ReaperConfig{
		Interval: cfg.Workspace.ReapInterval,
		MaxAge:   cfg.Workspace.MaxAge,
	}, workspaces, logger)

	// Extraction tool
	ext, err := extractor.NewYTDLP(cfg.Extractor, logger)
	if err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			logger.Error("extraction tool not installed", "bin", cfg.Extractor.BinPath)
		} else {
			logger.Error("failed to initialize extractor", "error", err)
		}
		os.Exit(1)
	}

	// Direct HTTP fetcher for thumbnails and the image fallback
	fetcher := fetch.NewHTTPFetcher(cfg.Fetch, logger)

	// Request history store
	var hist history.Store = history.NopStore{}
	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.Path, logger)
		if err != nil {
			logger.Error("failed to open history store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		hist = store
	}

	// Initialize service
	mediaSvc := service.NewMediaService(ext, fetcher, workspaces, hist, logger)

	// Initialize handlers
	mediaHandler := handler.NewMediaHandler(mediaSvc, logger)
	historyHandler := handler.NewHistoryHandler(mediaSvc, logger)
	healthHandler := handler.NewHealthHandler(cfg.Extractor.BinPath, workspaces.Root())

	// Setup router
	router := api.NewRouter(mediaHandler, historyHandler, healthHandler, cfg.Server.APIKey)

	// Start reaper
	reaper.Start()

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting new requests
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Stop the reaper
	if err := reaper.Stop(5 * time.Second); err != nil {
		logger.Error("reaper shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
