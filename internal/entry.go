// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/journal/internal/api"
	"github.com/starford/journal/internal/metrics"
	"github.com/starford/journal/internal/web"
)

// Run loads the content and serves the site until ctx is cancelled or a
// shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, app.logOutput)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Content.DataDir),
		slog.String("public_dir", cfg.Content.PublicDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	content, err := loadContent(cfg, logger)
	if err != nil {
		return err
	}

	router, err := newRouter(cfg, content, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func newRouter(cfg *Config, content contentIndexes, logger *slog.Logger) (http.Handler, error) {
	site := web.Site{
		Name:           cfg.Site.Name,
		URL:            cfg.Site.URL,
		Description:    cfg.Site.Description,
		Author:         cfg.Site.Author,
		Handle:         cfg.Site.Handle,
		Avatar:         cfg.Site.Avatar,
		Profile:        cfg.Site.Profile,
		CopyrightSince: cfg.Site.CopyrightSince,
		FeedSize:       cfg.Site.FeedSize,
	}
	wk := web.WellKnown{
		MatrixServer:      cfg.WellKnown.MatrixServer,
		MatrixHomeserver:  cfg.WellKnown.MatrixHomeserver,
		MatrixSlidingSync: cfg.WellKnown.MatrixSlidingSync,
	}
	pages, err := web.New(content.blog, content.pages, site, wk, cfg.Content.PublicDir, logger)
	if err != nil {
		return nil, fmt.Errorf("init web: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware(cfg.Metrics.Path))
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(content.blog))
	r.Mount("/", pages.Routes())

	return r, nil
}
