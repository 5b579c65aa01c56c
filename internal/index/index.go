// Package index holds the immutable in-memory content index for one
// namespace (blog posts, top-level pages) and answers lookups against it.
package index

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/starford/journal/internal/loader"
	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/storage"
)

// YearGroup is the set of entries published in one calendar year, newest
// first.
type YearGroup struct {
	Year    int
	Entries []*models.Entry
}

// TagCount is a tag and the number of entries carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Index is a read-only view over the entries of one namespace.
//
// All lookups are safe for concurrent use once New has returned. Slices
// returned by lookups belong to the caller; the entries they point to are
// shared and must not be modified.
type Index struct {
	prefix     string
	entries    []*models.Entry // newest first
	permalinks map[string]*models.Entry
	tags       map[string][]*models.Entry

	yearsOnce sync.Once
	years     []YearGroup
}

// Load scans dataDir and builds an index whose permalinks are rooted at
// prefix (e.g. "/blog", or "" for top-level pages).
func Load(prefix, dataDir string, logger *slog.Logger) (*Index, error) {
	store, err := storage.NewFS(dataDir)
	if err != nil {
		return nil, fmt.Errorf("index: load %s: %w", dataDir, err)
	}
	entries, err := loader.Scan(store, logger)
	if err != nil {
		return nil, fmt.Errorf("index: load %s: %w", dataDir, err)
	}
	return New(prefix, entries, logger), nil
}

// New builds an index from entries. The input slice is not modified.
//
// Entries are ordered by date, newest first; entries with equal dates keep
// their input order. If two entries share prefix+permalink the later one
// wins the path lookup, while both stay in every listing.
func New(prefix string, entries []*models.Entry, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *models.Entry) int {
		return b.Date.Compare(a.Date)
	})

	idx := &Index{
		prefix:     prefix,
		entries:    sorted,
		permalinks: make(map[string]*models.Entry, len(sorted)),
		tags:       make(map[string][]*models.Entry),
	}

	for _, e := range sorted {
		key := prefix + e.Permalink()
		if prev, dup := idx.permalinks[key]; dup {
			logger.Warn("index: permalink collision, later entry wins",
				slog.String("path", key),
				slog.String("replaced_eid", prev.Eid),
				slog.String("eid", e.Eid))
		}
		idx.permalinks[key] = e

		for _, tag := range e.Tags {
			idx.tags[tag] = append(idx.tags[tag], e)
		}
	}

	logger.Debug("index: built",
		slog.String("prefix", prefix),
		slog.Int("entries", len(sorted)),
		slog.Int("tags", len(idx.tags)))

	return idx
}

// Prefix returns the namespace prefix of every permalink in the index.
func (i *Index) Prefix() string {
	return i.prefix
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// URL returns the externally visible path of e within this namespace.
func (i *Index) URL(e *models.Entry) string {
	return i.prefix + e.Permalink()
}

// EntryForPath returns the entry whose prefix+permalink equals path exactly.
func (i *Index) EntryForPath(path string) (*models.Entry, bool) {
	e, ok := i.permalinks[path]
	return e, ok
}

// EntryBySlug returns the newest entry with the given slug. Slugs are not
// unique across dates.
func (i *Index) EntryBySlug(slug string) (*models.Entry, bool) {
	for _, e := range i.entries {
		if e.Slug == slug {
			return e, true
		}
	}
	return nil, false
}

// Entries returns every entry, newest first.
func (i *Index) Entries() []*models.Entry {
	return slices.Clone(i.entries)
}

// EntriesByTag returns the entries carrying tag, newest first. ok is false
// when no entry carries the tag.
func (i *Index) EntriesByTag(tag string) (entries []*models.Entry, ok bool) {
	bucket, ok := i.tags[tag]
	if !ok {
		return nil, false
	}
	return slices.Clone(bucket), true
}

// Tags returns every tag with its entry count, sorted by tag.
func (i *Index) Tags() []TagCount {
	out := make([]TagCount, 0, len(i.tags))
	for tag, bucket := range i.tags {
		out = append(out, TagCount{Tag: tag, Count: len(bucket)})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Tag < out[b].Tag })
	return out
}

// EntriesByYear groups entries by calendar year in ascending year order.
// The grouping is computed on first use and cached on this index.
func (i *Index) EntriesByYear() []YearGroup {
	i.yearsOnce.Do(func() {
		i.years = groupByYear(i.entries)
	})

	out := make([]YearGroup, len(i.years))
	for n, g := range i.years {
		out[n] = YearGroup{Year: g.Year, Entries: slices.Clone(g.Entries)}
	}
	return out
}

func groupByYear(entries []*models.Entry) []YearGroup {
	pos := make(map[int]int)
	var groups []YearGroup
	for _, e := range entries {
		y := e.Year()
		n, ok := pos[y]
		if !ok {
			n = len(groups)
			pos[y] = n
			groups = append(groups, YearGroup{Year: y})
		}
		groups[n].Entries = append(groups[n].Entries, e)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Year < groups[b].Year })
	return groups
}
