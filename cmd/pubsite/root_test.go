package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/eringen/pubsite"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--metadata", ""))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("pubsite %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func seedDatabase(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "blog.db")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("PUBLIC_URL", "https://example.com")
	t.Setenv("SITE_NAME", "Field Notes")

	store, err := pubsite.NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	for _, p := range []pubsite.BlogPost{
		{Slug: "alpha", Title: "Alpha", Date: "2024-01-02", Tags: []string{"Go"}, Content: "alpha body", Published: true},
		{Slug: "beta", Title: "Beta", Date: "2024-02-03", Tags: []string{"go", "Web"}, Content: "beta body", Published: true},
		{Slug: "draft", Title: "Draft", Date: "2024-03-04", Tags: []string{"secret"}, Content: "draft", Published: false},
	} {
		if err := store.SavePost(p); err != nil {
			t.Fatalf("SavePost: %v", err)
		}
	}
}

func TestCrawlCommand(t *testing.T) {
	seedDatabase(t)

	got := strings.Fields(runCmd(t, "crawl"))
	want := []string{"/", "/posts/alpha", "/posts/beta", "/tags", "/tags/go", "/tags/web"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("crawl = %v, want %v", got, want)
	}
}

func TestCrawlCommandRoot(t *testing.T) {
	seedDatabase(t)

	got := strings.Fields(runCmd(t, "crawl", "--root", "/tags"))
	want := []string{"/tags", "/tags/go", "/tags/web"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("crawl = %v, want %v", got, want)
	}
}

func TestFeedCommand(t *testing.T) {
	seedDatabase(t)

	feed, err := gofeed.NewParser().ParseString(runCmd(t, "feed"))
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if feed.Title != "Field Notes" {
		t.Fatalf("unexpected feed title %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	if feed.Items[0].Link != "https://example.com/posts/alpha" {
		t.Fatalf("unexpected first link %q", feed.Items[0].Link)
	}
}

func TestTagsCommand(t *testing.T) {
	seedDatabase(t)

	out := runCmd(t, "tags")
	for _, want := range []string{"Go", "/tags/go", "Web", "/tags/web"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tags output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("draft tags should not be listed:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	if out := runCmd(t, "version"); !strings.HasPrefix(out, "pubsite ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
