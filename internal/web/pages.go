package web

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/starford/journal/internal/checksum"
	"github.com/starford/journal/internal/models"
)

// Home renders the profile page.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "home", h.newPage("", "home"))
}

// BlogIndex renders every blog entry grouped by year, newest year first.
func (h *Handler) BlogIndex(w http.ResponseWriter, _ *http.Request) {
	years := h.blog.EntriesByYear()
	slices.Reverse(years)

	p := h.newPage("Blog", "blog")
	p.Years = years
	h.render(w, http.StatusOK, "blog", p)
}

// TagIndex renders the entries carrying one tag.
func (h *Handler) TagIndex(w http.ResponseWriter, r *http.Request) {
	tag := urlParam(r, "tag")
	entries, ok := h.blog.EntriesByTag(tag)
	if !ok {
		h.NotFound(w, r)
		return
	}

	p := h.newPage("#"+tag, "blog")
	p.Tag = tag
	p.Entries = entries
	h.render(w, http.StatusOK, "tag", p)
}

// Permalink renders a single blog entry by its full path.
func (h *Handler) Permalink(w http.ResponseWriter, r *http.Request) {
	e, ok := h.blog.EntryForPath(r.URL.Path)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.entry(w, r, e, h.blog.URL(e), "blog")
}

// Page renders a top-level page by slug. Unknown slugs fall through to the
// static file server.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	e, ok := h.pages.EntryBySlug(urlParam(r, "slug"))
	if !ok {
		h.static.ServeHTTP(w, r)
		return
	}
	h.entry(w, r, e, r.URL.Path, "")
}

func (h *Handler) entry(w http.ResponseWriter, r *http.Request, e *models.Entry, path, nav string) {
	etag := `"` + checksum.Entry(e) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	p := h.newPage(e.Title, nav)
	p.Entry = e
	p.EntryPath = path
	p.OGURL = h.site.URL + path
	if e.Image != nil {
		p.OGImage = *e.Image
	}
	h.render(w, http.StatusOK, "entry", p)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusNotFound, "notfound", h.newPage("Not Found", ""))
}

func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
