package pubsite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for a pubsite site.
type SiteConfig struct {
	Name        string // Site title (default "Blog")
	Description string // Site description for the feed and meta tags
	Author      string // Author of every post in the feed

	PublicURL string // Base of feed and sitemap links (default "/")
	BlogRoot  string // Mount path of posts (default "/posts")
	TagsRoot  string // Mount path of the tag pages (default "/tags")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")

	AdminPassword string // Required to serve: admin login password
	SessionSecret string // Required to serve: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.PublicURL == "" {
		c.PublicURL = "/"
	}
	if c.BlogRoot == "" {
		c.BlogRoot = "/posts"
	}
	if c.TagsRoot == "" {
		c.TagsRoot = "/tags"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// SiteMetadata is the site identity kept in a YAML file next to the content.
type SiteMetadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// LoadSiteMetadata reads site metadata from path. A missing file yields
// empty metadata.
func LoadSiteMetadata(path string) (SiteMetadata, error) {
	var meta SiteMetadata
	if path == "" {
		return meta, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("pubsite: read site metadata: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("pubsite: parse site metadata %s: %w", path, err)
	}
	return meta, nil
}

// LoadConfig builds a SiteConfig from the metadata file at metadataPath,
// overridden by environment variables. Unset values get their defaults.
func LoadConfig(metadataPath string) (SiteConfig, error) {
	meta, err := LoadSiteMetadata(metadataPath)
	if err != nil {
		return SiteConfig{}, err
	}
	cfg := SiteConfig{
		Name:          EnvOr("SITE_NAME", meta.Title),
		Description:   EnvOr("SITE_DESCRIPTION", meta.Description),
		Author:        EnvOr("SITE_AUTHOR", meta.Author),
		PublicURL:     EnvOr("PUBLIC_URL", "/"),
		BlogRoot:      os.Getenv("BLOG_ROOT"),
		TagsRoot:      os.Getenv("TAGS_ROOT"),
		Addr:          os.Getenv("ADDR"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("pubsite: COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}
	if v := os.Getenv("POST_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("pubsite: POST_CACHE_TTL: %w", err)
		}
		cfg.PostCacheTTL = ttl
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
