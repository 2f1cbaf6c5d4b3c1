package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"go-medical-site/internal/config"
)

func TestLoad_DefaultsAndValidate(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "settings.yaml")
	_ = os.WriteFile(f, []byte("BLOG_FEEDS:\n  - https://example.org/feed\nMAX_BLOGS: 0\n"), 0o644)
	c, err := config.Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Mode != "interactive" || c.Listen != ":8080" || c.StorageKey != "medical_website_data" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.Database.Type != "sqlite" || c.Database.DSN == "" || c.MaxBlogs != 12 || c.Rules != "rules.yaml" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.LogFormat == "" || c.LogLocale == "" || c.LogColor == "" {
		t.Fatalf("log defaults missing")
	}
	if len(c.CorsOrigins) != 2 {
		t.Fatalf("cors defaults = %v", c.CorsOrigins)
	}
	if c.StaticDir != "assets" {
		t.Fatalf("static dir = %q", c.StaticDir)
	}
	if len(c.BlogFeeds) != 1 {
		t.Fatalf("feeds = %v", c.BlogFeeds)
	}

	_ = os.WriteFile(f, []byte("MAX_BLOGS: -1\n"), 0o644)
	if _, err := config.Load(f); err == nil {
		t.Fatalf("expect error for negative MAX_BLOGS")
	}
	_ = os.WriteFile(f, []byte("MODE: desktop\n"), 0o644)
	if _, err := config.Load(f); err == nil {
		t.Fatalf("expect error for unknown MODE")
	}
	_ = os.WriteFile(f, []byte("DATABASE:\n  type: postgres\n"), 0o644)
	if _, err := config.Load(f); err == nil {
		t.Fatalf("expect error for unsupported database")
	}
	_ = os.WriteFile(f, []byte("BLOG_PAGES:\n  - theme: default\n"), 0o644)
	if _, err := config.Load(f); err == nil {
		t.Fatalf("expect error for blog page without url")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Concurrency.Fetch != 4 || c.Mode != "interactive" {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestParse_FullDocument(t *testing.T) {
	c, err := config.Parse([]byte(`
MODE: server
LISTEN: 127.0.0.1:9000
ASSET:
  url: https://cdn.example.org/default-data.json
BLOG_PAGES:
  - url: https://clinic.example.org/news
    theme: wordpress
CONCURRENCY:
  fetch: 2
  retry: 1
PROXY:
  https: http://127.0.0.1:3128
RESET_ON_START: true
LOG_LEVEL: debug
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Mode != "server" || c.Listen != "127.0.0.1:9000" || !c.ResetOnStart {
		t.Fatalf("top-level = %+v", c)
	}
	if c.Asset.URL == "" || c.BlogPages[0].Theme != "wordpress" || c.Concurrency.Fetch != 2 || c.Proxy.HTTPS == "" {
		t.Fatalf("nested = %+v", c)
	}
}
