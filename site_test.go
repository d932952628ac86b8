package pubsite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/route"
	"github.com/eringen/pubsite/tags"
)

func newTestApp(t *testing.T, posts ...BlogPost) *App {
	t.Helper()
	a := New(SiteConfig{
		Name:         "Field Notes",
		PublicURL:    "https://example.com",
		DatabasePath: filepath.Join(t.TempDir(), "blog.db"),
	}, ViewFuncs{
		Home:     func([]*route.Route, SiteConfig) templ.Component { return templ.NopComponent },
		TagIndex: func([]tags.Entry) templ.Component { return templ.NopComponent },
		TagPage:  func(string, string, []*route.Route) templ.Component { return templ.NopComponent },
	})
	if err := a.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	savePosts(t, a.Store, posts...)
	return a
}

var samplePosts = []BlogPost{
	{Slug: "alpha", Title: "Alpha", Date: "2024-01-02", Tags: []string{"Go"}, Summary: "first", Content: "alpha", Published: true},
	{Slug: "beta", Title: "Beta", Date: "2024-02-03", Tags: []string{"go", "Web"}, Content: "beta", Published: true},
	{Slug: "draft", Title: "Draft", Date: "2024-03-04", Tags: []string{"secret"}, Content: "draft"},
}

func TestSiteCrawl(t *testing.T) {
	a := newTestApp(t, samplePosts...)

	got, err := a.Site.Crawl(context.Background(), "/")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	want := []string{"/", "/posts/alpha", "/posts/beta", "/tags", "/tags/go", "/tags/web"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Crawl = %v, want %v", got, want)
	}
}

func TestListPostSlugsInSlugOrder(t *testing.T) {
	a := newTestApp(t,
		BlogPost{Slug: "zeta", Title: "Zeta", Date: "2024-01-01", Published: true},
		BlogPost{Slug: "alpha", Title: "Alpha", Date: "2024-05-01", Published: true},
		BlogPost{Slug: "mid", Title: "Mid", Date: "2024-09-01", Published: true},
	)
	got, err := a.listPostSlugs(context.Background(), &route.Request{})
	if err != nil {
		t.Fatalf("listPostSlugs: %v", err)
	}
	if want := []string{"/alpha", "/mid", "/zeta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("listPostSlugs = %v, want %v", got, want)
	}
}

func TestResolvePost(t *testing.T) {
	a := newTestApp(t, samplePosts...)

	r, err := a.Site.Resolve(context.Background(), "GET", "/posts/alpha")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Title != "Alpha" || r.Meta.Description != "first" {
		t.Errorf("unexpected route %+v", r)
	}
	if !r.Meta.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", r.Meta.Date)
	}
	if !reflect.DeepEqual(r.Data.Tags, []string{"Go"}) {
		t.Errorf("Tags = %v", r.Data.Tags)
	}
	if r.Content() == nil {
		t.Error("expected post content")
	}
}

func TestResolveDraftIsNotFound(t *testing.T) {
	a := newTestApp(t, samplePosts...)

	_, err := a.Site.Resolve(context.Background(), "GET", "/posts/draft")
	if !errors.Is(err, route.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvalidateContentRefreshesTags(t *testing.T) {
	a := newTestApp(t, samplePosts[:1]...)
	ctx := context.Background()

	first, err := a.Site.Crawl(ctx, "/tags")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if !reflect.DeepEqual(first, []string{"/tags", "/tags/go"}) {
		t.Fatalf("Crawl = %v", first)
	}

	savePosts(t, a.Store, samplePosts[1])
	a.InvalidateContent()

	second, err := a.Site.Crawl(ctx, "/tags")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if !reflect.DeepEqual(second, []string{"/tags", "/tags/go", "/tags/web"}) {
		t.Fatalf("Crawl after invalidate = %v", second)
	}
}

func TestNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	in := []*route.Route{
		{Path: "/posts/a", Meta: route.Meta{Date: day(1)}},
		{Path: "/posts/b"},
		{Path: "/posts/c", Meta: route.Meta{Date: day(3)}},
		{Path: "/posts/d", Meta: route.Meta{Date: day(1)}},
	}
	var got []string
	for _, r := range NewestFirst(in) {
		got = append(got, r.Path)
	}
	want := []string{"/posts/c", "/posts/a", "/posts/d", "/posts/b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NewestFirst = %v, want %v", got, want)
	}
	if in[0].Path != "/posts/a" {
		t.Fatal("NewestFirst modified its input")
	}
}
