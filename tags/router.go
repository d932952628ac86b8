package tags

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/route"
)

// Views renders the pages of the tag router.
type Views struct {
	Index func(entries []Entry) templ.Component
	Tag   func(name, blogRoot string, routes []*route.Route) templ.Component
}

// Router serves "/" (the tag index) and "/:tag" (routes carrying a tag)
// wherever it is mounted.
type Router struct {
	Cache *Cache
	Views Views
}

// NewRouter creates a Router reading routes from cache.
func NewRouter(cache *Cache, views Views) *Router {
	return &Router{Cache: cache, Views: views}
}

// Routes returns the matcher to mount. The enclosing tree must provide the
// blog root with WithBlogRoot.
func (t *Router) Routes() route.Matcher {
	return route.Compose(
		route.Mount(map[string]route.Matcher{
			"/": &route.Page{
				Title: "Tags",
				View:  t.indexView,
			},
			"/:tag": &route.Page{
				Load: func(ctx context.Context, req *route.Request, r *route.Route) error {
					r.Title = req.Param("tag")
					return nil
				},
				View: t.tagView,
			},
		}),
		route.WithContext(func(ctx context.Context, req *route.Request) context.Context {
			return withTagsRoot(ctx, req.MountPath)
		}),
		route.WithCrawlerPatterns(map[string]route.SegmentLister{
			"/:tag": t,
		}),
	)
}

// ListDynamicSegments returns one escaped "/<tag>" segment per distinct tag
// under the blog root. It returns nothing during a crawl issued by the cache,
// which would otherwise recurse into itself.
func (t *Router) ListDynamicSegments(ctx context.Context, req *route.Request) ([]string, error) {
	if Crawling(ctx) {
		return nil, nil
	}
	routes, err := t.blogRoutes(ctx)
	if err != nil {
		return nil, err
	}
	names := Distinct(routes)
	segments := make([]string, 0, len(names))
	for _, name := range names {
		segments = append(segments, route.Segment(Canonical(name)))
	}
	return segments, nil
}

func (t *Router) indexView(ctx context.Context, req *route.Request, r *route.Route) (templ.Component, error) {
	routes, err := t.blogRoutes(ctx)
	if err != nil {
		return nil, err
	}
	return t.Views.Index(Index(routes, TagsRoot(ctx))), nil
}

func (t *Router) tagView(ctx context.Context, req *route.Request, r *route.Route) (templ.Component, error) {
	blogRoot, err := BlogRoot(ctx)
	if err != nil {
		return nil, err
	}
	routes, err := t.Cache.Routes(ctx, blogRoot)
	if err != nil {
		return nil, err
	}
	name := req.Param("tag")
	return t.Views.Tag(name, blogRoot, Filter(routes, name)), nil
}

func (t *Router) blogRoutes(ctx context.Context) ([]*route.Route, error) {
	blogRoot, err := BlogRoot(ctx)
	if err != nil {
		return nil, err
	}
	return t.Cache.Routes(ctx, blogRoot)
}
