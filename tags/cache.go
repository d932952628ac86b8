package tags

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/eringen/pubsite/route"
)

// Source crawls and resolves a site. *route.Site satisfies it.
type Source interface {
	Crawl(ctx context.Context, root string) ([]string, error)
	ResolveAll(ctx context.Context, method string, paths []string) ([]*route.Route, error)
}

type cacheEntry struct {
	routes     []*route.Route
	generation uint64
}

// Cache memoizes the resolved routes under a root. Entries never expire;
// they are dropped only by Invalidate. Concurrent misses for the same root
// share a single crawl.
type Cache struct {
	source Source

	mu         sync.RWMutex
	entries    map[string]cacheEntry
	generation uint64

	group  singleflight.Group
	crawls atomic.Int64
}

// NewCache creates a Cache backed by source.
func NewCache(source Source) *Cache {
	return &Cache{source: source, entries: make(map[string]cacheEntry)}
}

// Routes returns the routes under root sorted by path, crawling and
// resolving them with HEAD on the first call. Later calls return the same
// slice until Invalidate; callers must not modify it.
func (c *Cache) Routes(ctx context.Context, root string) ([]*route.Route, error) {
	routes, generation, ok := c.lookup(root)
	if ok {
		return routes, nil
	}
	key := strconv.FormatUint(generation, 10) + ":" + root
	v, err, _ := c.group.Do(key, func() (any, error) {
		if routes, _, ok := c.lookup(root); ok {
			return routes, nil
		}
		return c.load(ctx, root, generation)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*route.Route), nil
}

// lookup returns the cached routes for root along with the current
// generation.
func (c *Cache) lookup(root string) ([]*route.Route, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[root]
	if !ok || e.generation != c.generation {
		return nil, c.generation, false
	}
	return e.routes, c.generation, true
}

// load crawls root and stores the result unless the cache was invalidated
// since generation was read.
func (c *Cache) load(ctx context.Context, root string, generation uint64) ([]*route.Route, error) {
	c.crawls.Add(1)
	paths, err := c.source.Crawl(withCrawling(ctx), root)
	if err != nil {
		return nil, fmt.Errorf("tags: crawl %s: %w", root, err)
	}
	sort.Strings(paths)
	routes, err := c.source.ResolveAll(withCrawling(ctx), http.MethodHead, paths)
	if err != nil {
		return nil, fmt.Errorf("tags: resolve %s: %w", root, err)
	}

	c.mu.Lock()
	if c.generation == generation {
		c.entries[root] = cacheEntry{routes: routes, generation: generation}
	}
	c.mu.Unlock()
	return routes, nil
}

// Invalidate drops every entry so the next Routes call crawls again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Crawls returns how many crawls the cache has issued.
func (c *Cache) Crawls() int64 {
	return c.crawls.Load()
}
