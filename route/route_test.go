package route_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/route"
)

func text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

type ctxKey struct{}

func testTree(views *int) route.Matcher {
	post := &route.Page{
		Load: func(ctx context.Context, req *route.Request, r *route.Route) error {
			r.Title = "Post " + req.Param("slug")
			r.Data.Tags = []string{"go"}
			return nil
		},
		View: func(ctx context.Context, req *route.Request, r *route.Route) (templ.Component, error) {
			*views++
			return text("body of " + req.Param("slug")), nil
		},
	}
	posts := route.Compose(
		route.Mount(map[string]route.Matcher{
			"/":      &route.Page{Title: "All posts"},
			"/:slug": post,
		}),
		route.WithCrawlerPatterns(map[string]route.SegmentLister{
			"/:slug": route.SegmentListerFunc(func(ctx context.Context, req *route.Request) ([]string, error) {
				return []string{"/second", "/first"}, nil
			}),
		}),
	)
	return route.Compose(
		route.Mount(map[string]route.Matcher{
			"/":           &route.Page{Title: "Home"},
			"/about":      &route.Page{Title: "About"},
			"/posts":      posts,
			"/hidden/:id": &route.Page{Title: "Never crawled"},
		}),
		route.WithContext(func(ctx context.Context, req *route.Request) context.Context {
			return context.WithValue(ctx, ctxKey{}, "site")
		}),
	)
}

func TestResolveLiteralAndParam(t *testing.T) {
	views := 0
	tree := testTree(&views)
	ctx := context.Background()

	tests := []struct {
		path  string
		title string
	}{
		{"/", "Home"},
		{"/about", "About"},
		{"/about/", "About"},
		{"/posts", "All posts"},
		{"/posts/hello", "Post hello"},
		{"/hidden/42", "Never crawled"},
	}
	for _, tt := range tests {
		r, err := route.Resolve(ctx, tree, http.MethodGet, tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.path, err)
		}
		if r.Title != tt.title {
			t.Errorf("Resolve(%q).Title = %q, want %q", tt.path, r.Title, tt.title)
		}
	}
}

func TestResolveSetsPathAndViews(t *testing.T) {
	views := 0
	r, err := route.Resolve(context.Background(), testTree(&views), http.MethodGet, "/posts/hello")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Path != "/posts/hello" {
		t.Errorf("Path = %q, want /posts/hello", r.Path)
	}
	if len(r.Data.Tags) != 1 || r.Data.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go]", r.Data.Tags)
	}
	if got := renderString(t, r.Content()); got != "body of hello" {
		t.Errorf("content = %q, want %q", got, "body of hello")
	}
}

func TestResolveHeadSkipsView(t *testing.T) {
	views := 0
	r, err := route.Resolve(context.Background(), testTree(&views), http.MethodHead, "/posts/hello")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if views != 0 {
		t.Errorf("view called %d times for HEAD, want 0", views)
	}
	if len(r.Views) != 0 || r.Content() != nil {
		t.Errorf("expected no views for HEAD, got %d", len(r.Views))
	}
	if r.Title != "Post hello" {
		t.Errorf("Title = %q, want metadata to load for HEAD", r.Title)
	}
}

func TestResolveNotFound(t *testing.T) {
	views := 0
	tree := testTree(&views)
	for _, p := range []string{"/missing", "/posts/a/b", "/about/more"} {
		_, err := route.Resolve(context.Background(), tree, http.MethodGet, p)
		if !errors.Is(err, route.ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", p, err)
		}
	}
}

func TestWithContextReachesPages(t *testing.T) {
	var got any
	tree := route.Compose(
		route.Mount(map[string]route.Matcher{
			"/x": &route.Page{Load: func(ctx context.Context, req *route.Request, r *route.Route) error {
				got = ctx.Value(ctxKey{})
				return nil
			}},
		}),
		route.WithContext(func(ctx context.Context, req *route.Request) context.Context {
			return context.WithValue(ctx, ctxKey{}, req.MountPath)
		}),
	)
	outer := route.Mount(map[string]route.Matcher{"/section": tree})
	if _, err := route.Resolve(context.Background(), outer, http.MethodGet, "/section/x"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/section" {
		t.Errorf("context value = %v, want mount path /section", got)
	}
}

func TestCrawlExpandsPatterns(t *testing.T) {
	views := 0
	paths, err := route.Crawl(context.Background(), testTree(&views), "/")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	want := []string{"/", "/about", "/posts", "/posts/second", "/posts/first"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Crawl = %v, want %v", paths, want)
	}
	if views != 0 {
		t.Errorf("crawl rendered %d views, want 0", views)
	}
}

func TestCrawlRestrictedToRoot(t *testing.T) {
	calls := 0
	tree := route.Compose(
		route.Mount(map[string]route.Matcher{
			"/":      &route.Page{},
			"/posts": route.Mount(map[string]route.Matcher{"/a": &route.Page{}, "/b": &route.Page{}}),
			"/tags": route.Compose(
				route.Mount(map[string]route.Matcher{"/:tag": &route.Page{}}),
				route.WithCrawlerPatterns(map[string]route.SegmentLister{
					"/:tag": route.SegmentListerFunc(func(ctx context.Context, req *route.Request) ([]string, error) {
						calls++
						return []string{"/go"}, nil
					}),
				}),
			),
		}),
	)
	paths, err := route.Crawl(context.Background(), tree, "/posts")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if want := []string{"/posts/a", "/posts/b"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Crawl = %v, want %v", paths, want)
	}
	if calls != 0 {
		t.Errorf("lister outside root called %d times, want 0", calls)
	}
}

func TestCrawlListerError(t *testing.T) {
	boom := errors.New("boom")
	tree := route.Compose(
		route.Mount(map[string]route.Matcher{"/:id": &route.Page{}}),
		route.WithCrawlerPatterns(map[string]route.SegmentLister{
			"/:id": route.SegmentListerFunc(func(ctx context.Context, req *route.Request) ([]string, error) {
				return nil, boom
			}),
		}),
	)
	if _, err := route.Crawl(context.Background(), tree, "/"); !errors.Is(err, boom) {
		t.Fatalf("Crawl error = %v, want %v", err, boom)
	}
}

func TestCrawlSkipsSegmentsOutsidePattern(t *testing.T) {
	tree := route.Compose(
		route.Mount(map[string]route.Matcher{"/:id": &route.Page{}}),
		route.WithCrawlerPatterns(map[string]route.SegmentLister{
			"/:id": route.SegmentListerFunc(func(ctx context.Context, req *route.Request) ([]string, error) {
				return []string{"/a", "/b/c", "/%zz", "", route.Segment("d/e")}, nil
			}),
		}),
	)
	paths, err := route.Crawl(context.Background(), tree, "/")
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if want := []string{"/a", "/d%2Fe"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Crawl = %v, want %v", paths, want)
	}
}

func TestResolveEscapedSegment(t *testing.T) {
	views := 0
	r, err := route.Resolve(context.Background(), testTree(&views), http.MethodGet, "/posts/ci%2Fcd")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Title != "Post ci/cd" {
		t.Errorf("Title = %q, want unescaped param", r.Title)
	}
	if r.Path != "/posts/ci%2Fcd" {
		t.Errorf("Path = %q, want escaped path", r.Path)
	}
	if _, err := route.Resolve(context.Background(), testTree(&views), http.MethodGet, "/posts/%zz"); !errors.Is(err, route.ErrNotFound) {
		t.Errorf("Resolve invalid escape = %v, want ErrNotFound", err)
	}
}

func TestSegment(t *testing.T) {
	tests := map[string]string{
		"go":    "/go",
		"ci/cd": "/ci%2Fcd",
		"c#":    "/c%23",
		"a b":   "/a%20b",
	}
	for in, want := range tests {
		if got := route.Segment(in); got != want {
			t.Errorf("Segment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveAllStopsAtFirstError(t *testing.T) {
	views := 0
	tree := testTree(&views)
	routes, err := route.ResolveAll(context.Background(), tree, http.MethodHead, []string{"/about", "/posts/x"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(routes) != 2 || routes[0].Title != "About" || routes[1].Title != "Post x" {
		t.Errorf("unexpected routes: %+v", routes)
	}
	if _, err := route.ResolveAll(context.Background(), tree, http.MethodHead, []string{"/about", "/nope"}); !errors.Is(err, route.ErrNotFound) {
		t.Errorf("ResolveAll error = %v, want ErrNotFound", err)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"/", "/posts/a", "/posts/a"},
		{"", "/posts/a", "/posts/a"},
		{"https://example.com", "/posts/a", "https://example.com/posts/a"},
		{"https://example.com/", "posts/a", "https://example.com/posts/a"},
		{"https://example.com/blog", "/tags/go", "https://example.com/blog/tags/go"},
		{"https://example.com", "/tags/ci%2Fcd", "https://example.com/tags/ci%2Fcd"},
		{"/", "/tags/c%23", "/tags/c%23"},
	}
	for _, tt := range tests {
		if got := route.JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
