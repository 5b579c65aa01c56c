// Package testutil provides shared test helpers for building content trees.
package testutil

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/journal/internal/storage"
)

// Logger returns a logger that drops everything.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ContentDir creates a temporary content directory with a storage.Provider.
func ContentDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// EntryJSON renders a valid content file body.
func EntryJSON(t *testing.T, eid, title, date string, tags ...string) string {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(map[string]any{
		"eid":     eid,
		"title":   title,
		"date":    date,
		"tags":    tags,
		"image":   nil,
		"content": "<p>" + title + "</p>",
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
