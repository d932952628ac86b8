package route

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Crawl returns the paths of all pages in m that lie under root, in
// discovery order and without duplicates. Branches that cannot contain root
// are never visited.
func Crawl(ctx context.Context, m Matcher, root string) ([]string, error) {
	req := newRequest("", "/")
	req.rest = nil
	req.root = splitPath(root)
	found, err := m.Crawl(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("route: crawl %s: %w", joinSegments(req.root), err)
	}
	seen := make(map[string]struct{}, len(found))
	paths := make([]string, 0, len(found))
	for _, p := range found {
		segs := splitPath(p)
		if len(segs) < len(req.root) || !overlaps(segs, req.root) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths, nil
}

// Resolve resolves a single path with the given HTTP method. HEAD
// resolutions skip views.
func Resolve(ctx context.Context, m Matcher, method, p string) (*Route, error) {
	return m.Resolve(ctx, newRequest(method, p))
}

// ResolveAll resolves paths one after another and stops at the first error.
func ResolveAll(ctx context.Context, m Matcher, method string, paths []string) ([]*Route, error) {
	routes := make([]*Route, 0, len(paths))
	for _, p := range paths {
		r, err := Resolve(ctx, m, method, p)
		if err != nil {
			return nil, fmt.Errorf("route: resolve %s: %w", p, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// Site binds a route tree to the package-level operations. Routes may be
// assigned after the Site is handed to components that crawl it.
type Site struct {
	Routes Matcher
}

func (s *Site) Crawl(ctx context.Context, root string) ([]string, error) {
	return Crawl(ctx, s.Routes, root)
}

func (s *Site) Resolve(ctx context.Context, method, p string) (*Route, error) {
	return Resolve(ctx, s.Routes, method, p)
}

func (s *Site) ResolveAll(ctx context.Context, method string, paths []string) ([]*Route, error) {
	return ResolveAll(ctx, s.Routes, method, paths)
}

// JoinURL appends the escaped path p to base. base may be an absolute URL
// or a bare path such as "/"; an empty base is treated as "/".
func JoinURL(base, p string) string {
	if base == "" {
		base = "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return path.Join(base, p)
	}
	joined := path.Join("/", u.EscapedPath(), p)
	if strings.HasSuffix(p, "/") && joined != "/" {
		joined += "/"
	}
	unescaped, err := url.PathUnescape(joined)
	if err != nil {
		return path.Join(base, p)
	}
	u.Path, u.RawPath = unescaped, joined
	return u.String()
}
