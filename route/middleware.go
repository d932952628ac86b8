package route

import (
	"context"
	"net/url"
)

// WithContext derives the context seen by the wrapped matcher. fn runs for
// both resolution and crawling, with the request at the middleware's mount
// point.
func WithContext(fn func(ctx context.Context, req *Request) context.Context) Middleware {
	return func(next Matcher) Matcher {
		return &contextMatcher{fn: fn, next: next}
	}
}

type contextMatcher struct {
	fn   func(context.Context, *Request) context.Context
	next Matcher
}

func (m *contextMatcher) Resolve(ctx context.Context, req *Request) (*Route, error) {
	return m.next.Resolve(m.fn(ctx, req), req)
}

func (m *contextMatcher) Crawl(ctx context.Context, req *Request) ([]string, error) {
	return m.next.Crawl(m.fn(ctx, req), req)
}

// SegmentLister enumerates the concrete values of a dynamic pattern, such
// as "/go" and "/web" for "/:tag". Each segment is relative to the mount
// that declares the pattern and path-escaped, see Segment.
type SegmentLister interface {
	ListDynamicSegments(ctx context.Context, req *Request) ([]string, error)
}

// Segment returns the escaped path segment for a parameter value, so that
// a value such as "ci/cd" stays a single segment.
func Segment(value string) string {
	return "/" + url.PathEscape(value)
}

// SegmentListerFunc adapts a function to a SegmentLister.
type SegmentListerFunc func(ctx context.Context, req *Request) ([]string, error)

func (f SegmentListerFunc) ListDynamicSegments(ctx context.Context, req *Request) ([]string, error) {
	return f(ctx, req)
}

type listersKey struct{}

type listerSet struct {
	mountPath string
	listers   map[string]SegmentLister
}

// WithCrawlerPatterns tells the crawler how to expand the dynamic patterns
// of the mount it wraps. Patterns without a lister are not crawled.
func WithCrawlerPatterns(listers map[string]SegmentLister) Middleware {
	return func(next Matcher) Matcher {
		return &patternMatcher{listers: listers, next: next}
	}
}

type patternMatcher struct {
	listers map[string]SegmentLister
	next    Matcher
}

func (m *patternMatcher) Resolve(ctx context.Context, req *Request) (*Route, error) {
	return m.next.Resolve(ctx, req)
}

func (m *patternMatcher) Crawl(ctx context.Context, req *Request) ([]string, error) {
	set := &listerSet{mountPath: req.MountPath, listers: m.listers}
	return m.next.Crawl(context.WithValue(ctx, listersKey{}, set), req)
}

// listersFor returns the listers declared for the mount at mountPath.
func listersFor(ctx context.Context, mountPath string) map[string]SegmentLister {
	set, ok := ctx.Value(listersKey{}).(*listerSet)
	if !ok || set.mountPath != mountPath {
		return nil
	}
	return set.listers
}
