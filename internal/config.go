package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Content   ContentConfig     `yaml:"content"`
	Site      SiteConfig        `yaml:"site"`
	WellKnown WellKnownConfig   `yaml:"well_known"`
	Metrics   MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig locates the content tree and the static files.
//
// Blog posts are read from <data_dir>/blog and served under BlogPrefix.
// Top-level pages are read from <data_dir>/pages when that directory exists.
type ContentConfig struct {
	DataDir     string `yaml:"data_dir"`
	BlogPrefix  string `yaml:"blog_prefix"`
	PagesPrefix string `yaml:"pages_prefix"`
	PublicDir   string `yaml:"public_dir"`
}

// BlogDir returns the directory holding blog posts.
func (c *ContentConfig) BlogDir() string {
	return filepath.Join(c.DataDir, "blog")
}

// PagesDir returns the directory holding top-level pages.
func (c *ContentConfig) PagesDir() string {
	return filepath.Join(c.DataDir, "pages")
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.BlogPrefix, validation.Required),
	); err != nil {
		return err
	}
	if !strings.HasPrefix(c.BlogPrefix, "/") || strings.HasSuffix(c.BlogPrefix, "/") {
		return fmt.Errorf("blog_prefix %q must start and must not end with /", c.BlogPrefix)
	}
	if c.PagesPrefix != "" && (!strings.HasPrefix(c.PagesPrefix, "/") || strings.HasSuffix(c.PagesPrefix, "/")) {
		return fmt.Errorf("pages_prefix %q must be empty or start and not end with /", c.PagesPrefix)
	}
	return nil
}

// SiteConfig holds what the rendered pages say about the site and its owner.
type SiteConfig struct {
	Name           string   `yaml:"name"`
	URL            string   `yaml:"url"`
	Description    string   `yaml:"description"`
	Author         string   `yaml:"author"`
	Handle         string   `yaml:"handle"`
	Avatar         string   `yaml:"avatar"`
	Profile        []string `yaml:"profile"`
	CopyrightSince int      `yaml:"copyright_since"`
	FeedSize       int      `yaml:"feed_size"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	c.URL = strings.TrimSuffix(c.URL, "/")
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.FeedSize, validation.Min(1)),
	)
}

// WellKnownConfig holds the values served under /.well-known/matrix.
// An empty MatrixServer or MatrixHomeserver disables the matching endpoint.
type WellKnownConfig struct {
	MatrixServer      string `yaml:"matrix_server"`
	MatrixHomeserver  string `yaml:"matrix_homeserver"`
	MatrixSlidingSync string `yaml:"matrix_sliding_sync"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the metrics configuration.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		Content: ContentConfig{
			DataDir:    "./entries-json",
			BlogPrefix: "/blog",
			PublicDir:  "./public",
		},
		Site: SiteConfig{
			Name:     "localhost",
			URL:      "http://localhost:3000",
			FeedSize: 20,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
