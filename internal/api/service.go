package api

import (
	"fmt"
	"time"

	"github.com/starford/journal/internal/apperr"
	"github.com/starford/journal/internal/checksum"
	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/models"
)

// Service answers API queries against one content index.
type Service struct {
	idx *index.Index
}

// NewService creates a new API service over idx.
func NewService(idx *index.Index) *Service {
	return &Service{idx: idx}
}

// EntryDetail is the response payload for a single entry.
type EntryDetail struct {
	Eid      string    `json:"eid"`
	Slug     string    `json:"slug"`
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Tags     []string  `json:"tags"`
	Image    *string   `json:"image"`
	Content  string    `json:"content"`
	Checksum string    `json:"checksum"`
}

// EntrySummary is a lightweight item in a list response.
type EntrySummary struct {
	Eid   string    `json:"eid"`
	Slug  string    `json:"slug"`
	Path  string    `json:"path"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Tags  []string  `json:"tags"`
}

// YearSummary lists the entries of one calendar year.
type YearSummary struct {
	Year    int            `json:"year"`
	Entries []EntrySummary `json:"entries"`
}

// TagSummary is a tag and how many entries carry it.
type TagSummary struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// GetEntry returns the entry at path, relative to the index prefix.
func (s *Service) GetEntry(path string) (*EntryDetail, error) {
	e, ok := s.idx.EntryForPath(s.idx.Prefix() + "/" + path)
	if !ok {
		return nil, fmt.Errorf("api: entry %q: %w", path, apperr.ErrNotFound)
	}
	return s.detail(e), nil
}

// GetBySlug returns the newest entry with slug.
func (s *Service) GetBySlug(slug string) (*EntryDetail, error) {
	e, ok := s.idx.EntryBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("api: slug %q: %w", slug, apperr.ErrNotFound)
	}
	return s.detail(e), nil
}

// ListEntries returns every entry newest first, or only those carrying tag
// when tag is non-empty.
func (s *Service) ListEntries(tag string) ([]EntrySummary, error) {
	entries := s.idx.Entries()
	if tag != "" {
		var ok bool
		if entries, ok = s.idx.EntriesByTag(tag); !ok {
			return nil, fmt.Errorf("api: tag %q: %w", tag, apperr.ErrNotFound)
		}
	}
	return s.summaries(entries), nil
}

// ListTags returns every tag with its entry count.
func (s *Service) ListTags() []TagSummary {
	tags := s.idx.Tags()
	out := make([]TagSummary, len(tags))
	for i, tc := range tags {
		out[i] = TagSummary{Tag: tc.Tag, Count: tc.Count}
	}
	return out
}

// ListYears returns entries grouped by year, oldest year first.
func (s *Service) ListYears() []YearSummary {
	groups := s.idx.EntriesByYear()
	out := make([]YearSummary, len(groups))
	for i, g := range groups {
		out[i] = YearSummary{Year: g.Year, Entries: s.summaries(g.Entries)}
	}
	return out
}

func (s *Service) detail(e *models.Entry) *EntryDetail {
	return &EntryDetail{
		Eid:      e.Eid,
		Slug:     e.Slug,
		Path:     s.idx.URL(e),
		Title:    e.Title,
		Date:     e.Date,
		Tags:     tagsOrEmpty(e.Tags),
		Image:    e.Image,
		Content:  e.Content,
		Checksum: checksum.Entry(e),
	}
}

func (s *Service) summaries(entries []*models.Entry) []EntrySummary {
	out := make([]EntrySummary, len(entries))
	for i, e := range entries {
		out[i] = EntrySummary{
			Eid:   e.Eid,
			Slug:  e.Slug,
			Path:  s.idx.URL(e),
			Title: e.Title,
			Date:  e.Date,
			Tags:  tagsOrEmpty(e.Tags),
		}
	}
	return out
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
