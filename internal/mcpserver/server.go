// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/models"
)

const contractURI = "journal://content-format"

// Server wraps the MCP server with journal tools.
type Server struct {
	mcp *server.MCPServer
	idx *index.Index
}

// New creates a new MCP server with all journal tools registered.
func New(idx *index.Index, version string) *Server {
	s := &Server{idx: idx}

	s.mcp = server.NewMCPServer(
		"Journal",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List all blog entries, newest first, as path, title and date."),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read one blog entry including its HTML content."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Entry URL path (e.g. /blog/2024/10/10/dameleon)")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("find_by_slug",
		mcp.WithDescription("Find the newest blog entry with the given slug."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Entry slug (file name without the date prefix)")),
	), s.findBySlug)

	s.mcp.AddTool(mcp.NewTool("entries_by_tag",
		mcp.WithDescription("List the blog entries carrying a tag, newest first."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag name")),
	), s.entriesByTag)

	s.mcp.AddTool(mcp.NewTool("entries_by_year",
		mcp.WithDescription("List blog entries grouped by year. Optionally restrict to one year."),
		mcp.WithString("year", mcp.Description("Four-digit year (empty for all)")),
	), s.entriesByYear)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags with the number of entries carrying each."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("get_content_contract",
		mcp.WithDescription("Returns the on-disk JSON format of journal entries. "+
			"Call this before drafting new content files."),
	), s.getContentContract)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Content Format Contract",
			mcp.WithResourceDescription("JSON schema and naming rules for journal content files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type entryItem struct {
	Path  string    `json:"path"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Tags  []string  `json:"tags,omitempty"`
}

type entryFull struct {
	entryItem
	Eid     string  `json:"eid"`
	Image   *string `json:"image,omitempty"`
	Content string  `json:"content"`
}

type yearItem struct {
	Year    int         `json:"year"`
	Entries []entryItem `json:"entries"`
}

func (s *Server) item(e *models.Entry) entryItem {
	return entryItem{Path: s.idx.URL(e), Title: e.Title, Date: e.Date, Tags: e.Tags}
}

func (s *Server) items(entries []*models.Entry) []entryItem {
	out := make([]entryItem, len(entries))
	for i, e := range entries {
		out[i] = s.item(e)
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) full(e *models.Entry) (*mcp.CallToolResult, error) {
	return jsonResult(entryFull{entryItem: s.item(e), Eid: e.Eid, Image: e.Image, Content: e.Content})
}

func (s *Server) listEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.items(s.idx.Entries()))
}

func (s *Server) readEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	e, ok := s.idx.EntryForPath(path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return s.full(e)
}

func (s *Server) findBySlug(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, ok := s.idx.EntryBySlug(slug)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no entry with slug: %s", slug)), nil
	}
	return s.full(e)
}

func (s *Server) entriesByTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, ok := s.idx.EntriesByTag(tag)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown tag: %s", tag)), nil
	}
	return jsonResult(s.items(entries))
}

func (s *Server) entriesByYear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	want := 0
	if y, err := req.RequireString("year"); err == nil && y != "" {
		if want, err = strconv.Atoi(y); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid year: %s", y)), nil
		}
	}

	var out []yearItem
	for _, g := range s.idx.EntriesByYear() {
		if want != 0 && g.Year != want {
			continue
		}
		out = append(out, yearItem{Year: g.Year, Entries: s.items(g.Entries)})
	}
	if want != 0 && len(out) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no entries in %d", want)), nil
	}
	return jsonResult(out)
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := s.idx.Tags()
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	lines := make([]string, len(tags))
	for i, tc := range tags {
		lines[i] = fmt.Sprintf("%s (%d)", tc.Tag, tc.Count)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getContentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
