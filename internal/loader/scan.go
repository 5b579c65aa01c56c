// Package loader walks a content directory and turns every JSON content file
// into an entry.
package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/parser"
	"github.com/starford/journal/internal/storage"
)

// Ext is the extension of content files.
const Ext = ".json"

// Scan recursively reads every content file under the store root.
//
// Directories that cannot be read are logged and skipped so that the rest of
// the tree still loads. A content file that cannot be read or parsed aborts
// the whole scan. The order of the returned entries follows the directory walk and
// carries no meaning.
func Scan(store storage.Provider, logger *slog.Logger) ([]*models.Entry, error) {
	s := &scanner{store: store, logger: logger, seen: make(map[string]bool)}
	if err := s.walk(""); err != nil {
		return nil, err
	}
	logger.Debug("loader: scan finished",
		slog.String("root", store.Root()),
		slog.Int("entries", len(s.out)))
	return s.out, nil
}

type scanner struct {
	store  storage.Provider
	logger *slog.Logger
	out    []*models.Entry
	seen   map[string]bool // resolved directory paths already walked
}

func (s *scanner) walk(dir string) error {
	// A directory reached twice (a symlink back to an ancestor, or two links
	// to the same place) is walked once.
	if real, err := filepath.EvalSymlinks(filepath.Join(s.store.Root(), dir)); err == nil {
		if s.seen[real] {
			s.logger.Warn("loader: directory already scanned, skipping",
				slog.String("path", dir),
				slog.String("target", real))
			return nil
		}
		s.seen[real] = true
	}

	items, err := s.store.ReadDir(dir)
	if err != nil {
		if dir == "" && len(items) == 0 {
			return fmt.Errorf("loader: %w", err)
		}
		// os.ReadDir hands back whatever it managed to read; keep going
		// with that.
		s.logger.Error("loader: read dir failed",
			slog.String("path", dir),
			slog.String("error", err.Error()))
	}

	for _, d := range items {
		rel := filepath.Join(dir, d.Name())

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := s.store.Stat(rel)
			if statErr != nil {
				s.logger.Error("loader: stat failed",
					slog.String("path", rel),
					slog.String("error", statErr.Error()))
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if err := s.walk(rel); err != nil {
				return err
			}
			continue
		}

		if err := s.loadFile(rel, d.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) loadFile(rel, name string) error {
	if filepath.Ext(name) != Ext {
		return nil
	}
	stem := strings.TrimSuffix(name, Ext)
	if stem == "" || !utf8.ValidString(stem) {
		s.logger.Debug("loader: skipped file without usable stem", slog.String("path", rel))
		return nil
	}

	data, err := s.store.Read(rel)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", rel, err)
	}
	entry, err := parser.ParseEntry(data)
	if err != nil {
		return fmt.Errorf("loader: %s: %w", rel, err)
	}
	entry.Slug = parser.Slug(stem)

	s.out = append(s.out, entry)
	return nil
}
