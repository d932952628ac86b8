package tags

import (
	"context"
	"errors"
)

// ErrNoBlogRoot is returned when the tag routes are resolved or crawled
// without a blog root in the context.
var ErrNoBlogRoot = errors.New("tags: no blog root in context")

type (
	blogRootKey struct{}
	tagsRootKey struct{}
	crawlingKey struct{}
)

// WithBlogRoot records the root of the routes whose tags are aggregated.
// The site mounting the tag router must set it.
func WithBlogRoot(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, blogRootKey{}, root)
}

// BlogRoot returns the blog root set by WithBlogRoot.
func BlogRoot(ctx context.Context) (string, error) {
	root, ok := ctx.Value(blogRootKey{}).(string)
	if !ok || root == "" {
		return "", ErrNoBlogRoot
	}
	return root, nil
}

// TagsRoot returns the mount path of the tag router, or "" outside it.
func TagsRoot(ctx context.Context) string {
	root, _ := ctx.Value(tagsRootKey{}).(string)
	return root
}

func withTagsRoot(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, tagsRootKey{}, root)
}

// withCrawling marks ctx as belonging to a crawl issued by the cache.
func withCrawling(ctx context.Context) context.Context {
	return context.WithValue(ctx, crawlingKey{}, true)
}

// Crawling reports whether ctx belongs to a crawl issued by a Cache.
func Crawling(ctx context.Context) bool {
	on, _ := ctx.Value(crawlingKey{}).(bool)
	return on
}
