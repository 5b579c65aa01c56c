package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/metrics"
)

var errConfigRequired = errors.New("config is required")

func newLogger(cfg *Config, out io.Writer) *slog.Logger {
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.App.LogLevel}

	var handler slog.Handler
	if cfg.App.LogFormat == LogFormatText {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return slog.New(handler)
}

// contentIndexes are the namespaces served by the site. pages is nil when
// the content tree has no pages directory.
type contentIndexes struct {
	blog  *index.Index
	pages *index.Index
}

func (c contentIndexes) all() []*index.Index {
	if c.pages == nil {
		return []*index.Index{c.blog}
	}
	return []*index.Index{c.blog, c.pages}
}

// loadContent builds every index from disk. Any content fault is returned;
// the site is never served from a partial tree.
func loadContent(cfg *Config, logger *slog.Logger) (contentIndexes, error) {
	var out contentIndexes

	blog, err := index.Load(cfg.Content.BlogPrefix, cfg.Content.BlogDir(), logger)
	if err != nil {
		return out, fmt.Errorf("load blog: %w", err)
	}
	out.blog = blog

	pagesDir := cfg.Content.PagesDir()
	if _, err := os.Stat(pagesDir); errors.Is(err, os.ErrNotExist) {
		logger.Info("no pages directory, top-level pages disabled", slog.String("dir", pagesDir))
	} else {
		pages, err := index.Load(cfg.Content.PagesPrefix, pagesDir, logger)
		if err != nil {
			return out, fmt.Errorf("load pages: %w", err)
		}
		out.pages = pages
	}

	for _, idx := range out.all() {
		metrics.ObserveIndex(idx.Prefix(), idx.Len(), len(idx.Tags()))
		logger.Info("Content loaded",
			slog.String("prefix", idx.Prefix()),
			slog.Int("entries", idx.Len()),
			slog.Int("tags", len(idx.Tags())))
	}
	return out, nil
}
