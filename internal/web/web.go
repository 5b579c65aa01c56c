// Package web renders the site: home page, blog listings, permalinks, the RSS
// feed, well-known endpoints and static files.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultFeedSize = 20

// Site describes the site and its owner.
type Site struct {
	Name           string
	URL            string // absolute, without trailing slash
	Description    string
	Author         string
	Handle         string
	Avatar         string
	Profile        []string
	CopyrightSince int
	FeedSize       int
}

// WellKnown holds the values served under /.well-known/matrix.
type WellKnown struct {
	MatrixServer      string
	MatrixHomeserver  string
	MatrixSlidingSync string
}

// Handler holds the site route handlers.
type Handler struct {
	blog      *index.Index
	pages     *index.Index // nil when the site has no top-level pages
	site      Site
	wellKnown WellKnown
	static    http.Handler
	pageTmpl  map[string]*template.Template
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Handler. pages may be nil. Static files are served from
// publicDir.
func New(blog, pages *index.Index, site Site, wk WellKnown, publicDir string, logger *slog.Logger) (*Handler, error) {
	if site.FeedSize <= 0 {
		site.FeedSize = defaultFeedSize
	}
	h := &Handler{
		blog:      blog,
		pages:     pages,
		site:      site,
		wellKnown: wk,
		logger:    logger,
		now:       time.Now,
	}
	h.static = newStaticHandler(publicDir, h.NotFound)

	tmpl, err := parseTemplates(h.funcs())
	if err != nil {
		return nil, err
	}
	h.pageTmpl = tmpl
	return h, nil
}

// Routes returns a chi router with every site route mounted.
func (h *Handler) Routes() chi.Router {
	prefix := h.blog.Prefix()

	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get(prefix, h.BlogIndex)
	r.Get(prefix+"/tags/{tag}", h.TagIndex)
	r.Get(prefix+"/*", h.Permalink)
	r.Get("/rss", h.Feed)
	r.Get("/.well-known/matrix/server", h.MatrixServer)
	r.Get("/.well-known/matrix/client", h.MatrixClient)
	if h.pages != nil {
		r.Get(h.pages.Prefix()+"/{slug}", h.Page)
	}
	r.NotFound(h.static.ServeHTTP)
	return r
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout string) string { return t.Format(layout) },
		"url":  func(e *models.Entry) string { return h.blog.URL(e) },
		// Entry bodies are pre-rendered, trusted HTML.
		"trusted": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
	}
}

func parseTemplates(funcs template.FuncMap) (map[string]*template.Template, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse layout: %w", err)
	}
	out := make(map[string]*template.Template)
	for _, name := range []string{"home", "blog", "tag", "entry", "notfound"} {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// page is the data every template receives.
type page struct {
	Site       Site
	Nav        string
	PageTitle  string
	DocTitle   string
	BlogPrefix string
	Copyright  string
	OGURL      string
	OGImage    string

	Years     []index.YearGroup
	Tag       string
	Entries   []*models.Entry
	Entry     *models.Entry
	EntryPath string
}

func (h *Handler) newPage(title, nav string) *page {
	p := &page{
		Site:       h.site,
		Nav:        nav,
		PageTitle:  h.site.Name,
		DocTitle:   h.site.Name,
		BlogPrefix: h.blog.Prefix(),
		Copyright:  h.copyright(),
	}
	if title != "" {
		p.PageTitle = title
		p.DocTitle = title + " - " + h.site.Name
	}
	return p
}

func (h *Handler) copyright() string {
	yr := h.now().Year()
	if h.site.CopyrightSince == 0 || h.site.CopyrightSince >= yr {
		return strconv.Itoa(yr)
	}
	return fmt.Sprintf("%d-%d", h.site.CopyrightSince, yr)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, p *page) {
	var buf bytes.Buffer
	if err := h.pageTmpl[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		h.logger.Error("web: render failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
