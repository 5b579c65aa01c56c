package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starford/journal/internal/catalog"
	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/loader"
	"github.com/starford/journal/internal/mcpserver"
	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/storage"
)

// Check loads the content tree exactly as Run would and reports the result.
// With WithWatch it keeps running and re-checks the blog tree on every
// change until ctx is cancelled or a shutdown signal arrives.
func Check(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg, app.logOutput)

	if _, err := loadContent(cfg, logger); err != nil {
		if !app.watch {
			return err
		}
		logger.Error("Content check failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Content check passed")
	}
	if !app.watch {
		return nil
	}

	store, err := storage.NewFS(cfg.Content.BlogDir())
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return loader.Watch(ctx, store, logger, loader.DefaultDebounce, func(entries []*models.Entry, err error) {
		if err != nil {
			logger.Error("Content check failed", slog.String("error", err.Error()))
			return
		}
		// Building the index surfaces permalink collisions as warnings.
		idx := index.New(cfg.Content.BlogPrefix, entries, logger)
		logger.Info("Content check passed", slog.Int("entries", idx.Len()))
	})
}

// Export loads the content and writes a SQLite snapshot of every index to
// out. It returns the number of exported entries.
func Export(ctx context.Context, out string, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}
	cfg := app.config
	logger := newLogger(cfg, app.logOutput)

	content, err := loadContent(cfg, logger)
	if err != nil {
		return 0, err
	}

	db, err := catalog.Open(out)
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	n, err := db.Export(ctx, content.all()...)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	logger.Info("Catalog exported", slog.String("path", out), slog.Int("entries", n))
	return n, nil
}

// ServeMCP loads the blog and serves the MCP tools over stdio. Logs go to
// stderr unless WithLogOutput says otherwise, since stdout carries the
// protocol.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	out := app.logOutput
	if out == nil {
		out = os.Stderr
	}
	logger := newLogger(cfg, out)
	slog.SetDefault(logger)

	content, err := loadContent(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting MCP server on stdio", slog.String("version", app.version))
	return mcpserver.New(content.blog, app.version).ServeStdio()
}
