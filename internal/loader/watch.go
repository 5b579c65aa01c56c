package loader

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/storage"
)

// DefaultDebounce is how long Watch waits after the last change before
// rescanning.
const DefaultDebounce = 200 * time.Millisecond

// ScanCallback receives the result of a rescan.
type ScanCallback func(entries []*models.Entry, err error)

// Watch starts an fsnotify watcher on the content root and rescans the whole
// tree, debounced, whenever a content file or directory changes. It blocks
// until ctx is cancelled.
//
// Watch is an authoring aid: it only reports scan results to cb and never
// touches a serving index.
func Watch(ctx context.Context, store storage.Provider, logger *slog.Logger, debounce time.Duration, cb ScanCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := addDirsRecursive(w, root, logger); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			entries, scanErr := Scan(store, logger)
			if cb != nil {
				cb(entries, scanErr)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, logger); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			if filepath.Ext(ev.Name) != Ext && ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its readable subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("watcher: skip dir", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
