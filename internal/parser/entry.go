// Package parser decodes JSON content files into entries and derives slugs
// from their filenames.
package parser

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/journal/internal/apperr"
	"github.com/starford/journal/internal/models"
)

// rawEntry mirrors the on-disk schema. Pointers let us tell an absent (or
// null) field apart from an empty one. The json tags name fields in
// validation errors; decoding goes through fields.
type rawEntry struct {
	Eid     *string    `json:"eid"`
	Title   *string    `json:"title"`
	Date    *time.Time `json:"date"`
	Tags    []string   `json:"tags"`
	Image   *string    `json:"image"`
	Content *string    `json:"content"`
}

type field struct {
	key string
	dst any
}

// fields maps each schema key, matched case-sensitively, to its destination.
// A "slug" key is allowed in files but ignored; the filename wins.
func (r *rawEntry) fields() []field {
	return []field{
		{"eid", &r.Eid},
		{"title", &r.Title},
		{"date", &r.Date},
		{"tags", &r.Tags},
		{"image", &r.Image},
		{"content", &r.Content},
	}
}

// Validate checks that every required field is present.
func (r *rawEntry) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Eid, validation.NotNil),
		validation.Field(&r.Title, validation.NotNil),
		validation.Field(&r.Date, validation.NotNil),
		validation.Field(&r.Content, validation.NotNil),
	)
}

// ParseEntry decodes a single JSON content record. Keys are matched
// exactly; "Title" is not "title". The returned entry has an empty Slug;
// callers assign it from the filename. Every failure wraps
// apperr.ErrInvalidEntry.
func ParseEntry(data []byte) (*models.Entry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidEntry, err)
	}

	var raw rawEntry
	for _, f := range raw.fields() {
		v, ok := doc[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperr.ErrInvalidEntry, f.key, err)
		}
	}
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidEntry, err)
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.Entry{
		Eid:     *raw.Eid,
		Title:   *raw.Title,
		Date:    *raw.Date,
		Tags:    tags,
		Image:   raw.Image,
		Content: *raw.Content,
	}, nil
}
