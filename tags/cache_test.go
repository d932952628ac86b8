package tags_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eringen/pubsite/route"
	"github.com/eringen/pubsite/tags"
)

type fakeSource struct {
	paths   []string
	err     error
	delay   time.Duration
	crawls  atomic.Int32
	methods []string
	mu      sync.Mutex

	crawling bool
}

func (f *fakeSource) Crawl(ctx context.Context, root string) ([]string, error) {
	f.crawls.Add(1)
	f.mu.Lock()
	f.crawling = tags.Crawling(ctx)
	f.mu.Unlock()
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(f.paths))
	copy(out, f.paths)
	return out, nil
}

func (f *fakeSource) ResolveAll(ctx context.Context, method string, paths []string) ([]*route.Route, error) {
	f.mu.Lock()
	f.methods = append(f.methods, method)
	f.mu.Unlock()
	routes := make([]*route.Route, 0, len(paths))
	for _, p := range paths {
		routes = append(routes, &route.Route{Path: p})
	}
	return routes, nil
}

func TestCacheReturnsSameSlice(t *testing.T) {
	src := &fakeSource{paths: []string{"/posts/b", "/posts/a"}}
	cache := tags.NewCache(src)
	ctx := context.Background()

	first, err := cache.Routes(ctx, "/posts")
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	second, err := cache.Routes(ctx, "/posts")
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(first) != 2 || &first[0] != &second[0] {
		t.Errorf("expected the cached slice to be returned on the second call")
	}
	if got := src.crawls.Load(); got != 1 {
		t.Errorf("crawls = %d, want 1", got)
	}
	if cache.Crawls() != 1 {
		t.Errorf("Crawls() = %d, want 1", cache.Crawls())
	}
}

func TestCacheSortsAndUsesHead(t *testing.T) {
	src := &fakeSource{paths: []string{"/posts/b", "/posts/c", "/posts/a"}}
	routes, err := tags.NewCache(src).Routes(context.Background(), "/posts")
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	for i, want := range []string{"/posts/a", "/posts/b", "/posts/c"} {
		if routes[i].Path != want {
			t.Errorf("routes[%d] = %q, want %q", i, routes[i].Path, want)
		}
	}
	if len(src.methods) != 1 || src.methods[0] != http.MethodHead {
		t.Errorf("resolve methods = %v, want [HEAD]", src.methods)
	}
	if !src.crawling {
		t.Error("expected crawl to run in crawling mode")
	}
}

func TestCacheKeyedByRoot(t *testing.T) {
	src := &fakeSource{paths: []string{"/x"}}
	cache := tags.NewCache(src)
	for _, root := range []string{"/posts", "/notes", "/posts"} {
		if _, err := cache.Routes(context.Background(), root); err != nil {
			t.Fatalf("Routes(%s): %v", root, err)
		}
	}
	if got := src.crawls.Load(); got != 2 {
		t.Errorf("crawls = %d, want 2", got)
	}
}

func TestCacheCoalescesConcurrentMisses(t *testing.T) {
	src := &fakeSource{paths: []string{"/posts/a"}, delay: 50 * time.Millisecond}
	cache := tags.NewCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Routes(context.Background(), "/posts"); err != nil {
				t.Errorf("Routes: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := src.crawls.Load(); got != 1 {
		t.Errorf("crawls = %d, want 1", got)
	}
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{err: boom}
	cache := tags.NewCache(src)
	if _, err := cache.Routes(context.Background(), "/posts"); !errors.Is(err, boom) {
		t.Fatalf("Routes error = %v, want %v", err, boom)
	}
	src.err = nil
	src.paths = []string{"/posts/a"}
	routes, err := cache.Routes(context.Background(), "/posts")
	if err != nil {
		t.Fatalf("Routes after failure: %v", err)
	}
	if len(routes) != 1 {
		t.Errorf("len(routes) = %d, want 1", len(routes))
	}
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{paths: []string{"/posts/a"}}
	cache := tags.NewCache(src)
	ctx := context.Background()
	if _, err := cache.Routes(ctx, "/posts"); err != nil {
		t.Fatalf("Routes: %v", err)
	}
	src.paths = []string{"/posts/a", "/posts/b"}
	cache.Invalidate()
	routes, err := cache.Routes(ctx, "/posts")
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("len(routes) = %d, want 2 after invalidation", len(routes))
	}
	if got := src.crawls.Load(); got != 2 {
		t.Errorf("crawls = %d, want 2", got)
	}
}
