package pubsite

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SITE_NAME", "SITE_DESCRIPTION", "SITE_AUTHOR", "PUBLIC_URL", "BLOG_ROOT",
		"TAGS_ROOT", "ADDR", "DATABASE_PATH", "ADMIN_PASSWORD", "SESSION_SECRET",
		"COOKIE_SECURE", "POST_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := SiteConfig{
		Name:         "Blog",
		PublicURL:    "/",
		BlogRoot:     "/posts",
		TagsRoot:     "/tags",
		Addr:         ":3000",
		DatabasePath: "data/blog.db",
		PostCacheTTL: 5 * time.Minute,
	}
	if cfg != want {
		t.Fatalf("LoadConfig = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigMetadataAndEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	yaml := "title: Field Notes\ndescription: Notes from the field\nauthor: Sam\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_AUTHOR", "Alex")
	t.Setenv("PUBLIC_URL", "https://example.com/blog")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("POST_CACHE_TTL", "30s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Field Notes" || cfg.Description != "Notes from the field" {
		t.Errorf("metadata not applied: %+v", cfg)
	}
	if cfg.Author != "Alex" {
		t.Errorf("Author = %q, want env override", cfg.Author)
	}
	if cfg.PublicURL != "https://example.com/blog" {
		t.Errorf("PublicURL = %q", cfg.PublicURL)
	}
	if !cfg.CookieSecure || cfg.PostCacheTTL != 30*time.Second {
		t.Errorf("unexpected cookie/ttl settings: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"COOKIE_SECURE", "sometimes"},
		{"POST_CACHE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(""); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadSiteMetadataInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("title: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSiteMetadata(path); err == nil {
		t.Fatal("expected parse error")
	}
}
