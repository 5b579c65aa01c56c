// Package api implements the read-only JSON API over the blog index.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/journal/internal/index"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(idx *index.Index) chi.Router {
	h := NewHandler(NewService(idx))

	r := chi.NewRouter()
	r.Use(middleware.SetHeader("Access-Control-Allow-Origin", "*"))

	r.Get("/entries", h.ListEntries)
	r.Get("/entries/*", h.GetEntry)
	r.Get("/slugs/{slug}", h.GetBySlug)
	r.Get("/tags", h.ListTags)
	r.Get("/years", h.ListYears)

	return r
}
