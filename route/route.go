// Package route declares a site as a tree of matchers that can be resolved
// one URL at a time or crawled to enumerate every page it serves.
//
// A tree is built from Mount (pattern dispatch), Page (leaf routes) and
// Middleware such as WithContext and WithCrawlerPatterns, combined with
// Compose. Resolution walks the tree for a single path; crawling walks every
// branch and expands dynamic segments through SegmentListers.
package route

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// ErrNotFound is returned when no route matches a path.
var ErrNotFound = errors.New("route: not found")

// Route is a resolved page.
type Route struct {
	Path  string
	Title string
	Data  Data
	Meta  Meta
	// Views holds one component per matched level; the last one is the page
	// content. HEAD resolutions leave it empty.
	Views []templ.Component
}

// Data is page data consumed by aggregating views.
type Data struct {
	Tags []string
}

// Meta is optional page metadata. Zero values mean the field is absent.
type Meta struct {
	Date        time.Time
	Description string
}

// Content returns the last view, or nil if the route has none.
func (r *Route) Content() templ.Component {
	if len(r.Views) == 0 {
		return nil
	}
	return r.Views[len(r.Views)-1]
}

// Request is the state threaded through a tree during resolution or crawling.
type Request struct {
	Method string
	// Path is the full path being resolved.
	Path string
	// MountPath is the prefix of Path consumed by enclosing mounts.
	MountPath string
	Params    map[string]string

	rest []string
	root []string
}

// Param returns a path parameter captured by an enclosing mount.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// child derives the request seen by a matcher mounted under seg.
func (r *Request) child(segs []string, consumed int, params map[string]string) *Request {
	merged := make(map[string]string, len(r.Params)+len(params))
	for k, v := range r.Params {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	var rest []string
	if consumed <= len(r.rest) {
		rest = r.rest[consumed:]
	}
	return &Request{
		Method:    r.Method,
		Path:      r.Path,
		MountPath: joinSegments(append(splitPath(r.MountPath), segs...)),
		Params:    merged,
		rest:      rest,
		root:      r.root,
	}
}

// Matcher is a node of a route tree.
type Matcher interface {
	// Resolve returns the route for req, or ErrNotFound.
	Resolve(ctx context.Context, req *Request) (*Route, error)
	// Crawl returns the full paths of the pages reachable from req.MountPath.
	Crawl(ctx context.Context, req *Request) ([]string, error)
}

// Middleware wraps a Matcher.
type Middleware func(Matcher) Matcher

// Compose applies mws to m. The first middleware is the outermost.
func Compose(m Matcher, mws ...Middleware) Matcher {
	for i := len(mws) - 1; i >= 0; i-- {
		m = mws[i](m)
	}
	return m
}

func newRequest(method, p string) *Request {
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method:    strings.ToUpper(method),
		Path:      joinSegments(splitPath(p)),
		MountPath: "/",
		Params:    map[string]string{},
		rest:      splitPath(p),
	}
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func joinSegments(segs []string) string {
	return "/" + strings.Join(segs, "/")
}
