// Package models defines the domain types for journal.
package models

import (
	"fmt"
	"slices"
	"time"
)

// Entry is one content item (a blog post or a page) loaded from a JSON file.
//
// Entries are shared by pointer between an index and all of its views and
// must not be modified once the index has been built.
type Entry struct {
	Eid     string    `json:"eid"`
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Tags    []string  `json:"tags"`
	Image   *string   `json:"image"`
	Content string    `json:"content"`
}

// Permalink returns the entry's canonical path, /yyyy/mm/dd/slug, using the
// date in its own UTC offset.
func (e *Entry) Permalink() string {
	return fmt.Sprintf("/%s/%s", e.Date.Format("2006/01/02"), e.Slug)
}

// Year returns the calendar year of the entry in its own UTC offset.
func (e *Entry) Year() int {
	return e.Date.Year()
}

// HasTag reports whether the entry carries tag.
func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}
