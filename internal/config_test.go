package internal

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAppConfig_EmptyLogFormatDefaultsJSON(t *testing.T) {
	cfg := ApplicationConfig{HTTP: HTTPConfig{Port: 80}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty log format should default: %v", err)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Errorf("log format = %q, want %q", cfg.LogFormat, LogFormatJSON)
	}
}

func TestAppConfig_InvalidLogFormat(t *testing.T) {
	cfg := ApplicationConfig{LogFormat: "xml", HTTP: HTTPConfig{Port: 80}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid log format should fail validation")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 3000}
	if cfg.Address() != ":3000" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestContentConfig_Prefixes(t *testing.T) {
	cases := []struct {
		blog, pages string
		ok          bool
	}{
		{"/blog", "", true},
		{"/blog", "/pages", true},
		{"blog", "", false},
		{"/blog/", "", false},
		{"", "", false},
		{"/blog", "pages", false},
		{"/blog", "/pages/", false},
	}
	for _, c := range cases {
		cfg := ContentConfig{DataDir: "./data", BlogPrefix: c.blog, PagesPrefix: c.pages}
		err := cfg.Validate()
		if (err == nil) != c.ok {
			t.Errorf("blog=%q pages=%q: err = %v, want ok=%v", c.blog, c.pages, err, c.ok)
		}
	}
}

func TestContentConfig_Dirs(t *testing.T) {
	cfg := ContentConfig{DataDir: "/srv/entries"}
	if cfg.BlogDir() != "/srv/entries/blog" || cfg.PagesDir() != "/srv/entries/pages" {
		t.Errorf("dirs = %s, %s", cfg.BlogDir(), cfg.PagesDir())
	}
}

func TestSiteConfig_TrimsURL(t *testing.T) {
	cfg := SiteConfig{Name: "typester.dev", URL: "https://typester.dev/", FeedSize: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.URL != "https://typester.dev" {
		t.Errorf("url = %q", cfg.URL)
	}
}

func TestMetricsConfig_PathRequiredWhenEnabled(t *testing.T) {
	cfg := MetricsConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Error("enabled metrics without path should fail")
	}
	cfg = MetricsConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled metrics should pass: %v", err)
	}
}

func TestFullConfig_ErrorNamesSection(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Content.BlogPrefix = "blog"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "content:") {
		t.Errorf("error = %v, want content: prefix", err)
	}
}
