package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// entryPath extracts the entry path from the URL (everything after
// /api/entries/). Encoded slashes are accepted.
func entryPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List entries newest first
//	@Tags			entries
//	@Produce		json
//	@Param			tag	query		string	false	"Filter by tag"
//	@Success		200	{object}	EntryListResponse
//	@Failure		404	{object}	errResponse
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEntries(r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, "list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: len(items)})
}

// GetEntry handles GET /api/entries/*.
//
//	@Summary		Get a single entry by its path below the blog prefix
//	@Tags			entries
//	@Produce		json
//	@Param			path	path		string	true	"Entry path, e.g. 2024/10/10/dameleon"
//	@Success		200		{object}	EntryDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/entries/{path} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	path := entryPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	entry, err := h.svc.GetEntry(path)
	if err != nil {
		writeError(w, "get entry", err)
		return
	}
	w.Header().Set("ETag", `"`+entry.Checksum+`"`)
	writeJSON(w, http.StatusOK, entry)
}

// GetBySlug handles GET /api/slugs/{slug}.
//
//	@Summary		Get the newest entry with a slug
//	@Tags			entries
//	@Produce		json
//	@Param			slug	path		string	true	"Entry slug"
//	@Success		200		{object}	EntryDetail
//	@Failure		404		{object}	errResponse
//	@Router			/slugs/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if v, err := url.PathUnescape(slug); err == nil {
		slug = v
	}
	entry, err := h.svc.GetBySlug(slug)
	if err != nil {
		writeError(w, "get by slug", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListTags handles GET /api/tags.
//
//	@Summary		List tags with entry counts
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TagListResponse{Tags: h.svc.ListTags()})
}

// ListYears handles GET /api/years.
//
//	@Summary		List entries grouped by year
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	YearListResponse
//	@Router			/years [get]
func (h *Handler) ListYears(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, YearListResponse{Years: h.svc.ListYears()})
}
