package route

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type pattern struct {
	raw    string
	segs   []string
	params int
	next   Matcher
}

func (p pattern) dynamic() bool {
	return p.params > 0
}

// match reports whether p matches the leading segments of rest and returns
// the captured parameters. Segments of rest are path-escaped; parameters
// hold the unescaped values.
func (p pattern) match(rest []string) (map[string]string, bool) {
	if len(rest) < len(p.segs) {
		return nil, false
	}
	params := make(map[string]string, p.params)
	for i, seg := range p.segs {
		val, err := url.PathUnescape(rest[i])
		if err != nil {
			return nil, false
		}
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			params[name] = val
			continue
		}
		if seg != val {
			return nil, false
		}
	}
	return params, true
}

type mount struct {
	patterns []pattern
}

// Mount dispatches to child matchers by path pattern. Patterns are "/",
// literal segments ("/posts") and parameters ("/:slug"), and may be combined
// ("/archive/:year"). More specific patterns are tried first; a child that
// returns ErrNotFound lets the next pattern try.
func Mount(children map[string]Matcher) Matcher {
	m := &mount{}
	for raw, next := range children {
		p := pattern{raw: raw, segs: splitPath(raw), next: next}
		for _, s := range p.segs {
			if strings.HasPrefix(s, ":") {
				p.params++
			}
		}
		m.patterns = append(m.patterns, p)
	}
	sort.Slice(m.patterns, func(i, j int) bool {
		a, b := m.patterns[i], m.patterns[j]
		if len(a.segs) != len(b.segs) {
			return len(a.segs) > len(b.segs)
		}
		if a.params != b.params {
			return a.params < b.params
		}
		return a.raw < b.raw
	})
	return m
}

func (m *mount) Resolve(ctx context.Context, req *Request) (*Route, error) {
	for _, p := range m.patterns {
		params, ok := p.match(req.rest)
		if !ok {
			continue
		}
		r, err := p.next.Resolve(ctx, req.child(req.rest[:len(p.segs)], len(p.segs), params))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return r, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
}

// Crawl expands dynamic patterns through the listers registered for this
// mount. Listed segments must be path-escaped; one that does not fit its
// pattern is skipped.
func (m *mount) Crawl(ctx context.Context, req *Request) ([]string, error) {
	listers := listersFor(ctx, req.MountPath)
	var paths []string
	for _, p := range m.crawlOrder() {
		if !p.dynamic() {
			child := req.child(p.segs, 0, nil)
			if !overlaps(splitPath(child.MountPath), req.root) {
				continue
			}
			found, err := p.next.Crawl(ctx, child)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}

		lister, ok := listers[p.raw]
		if !ok || !overlaps(splitPath(req.MountPath), req.root) {
			continue
		}
		segments, err := lister.ListDynamicSegments(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("route: list segments for %s: %w", p.raw, err)
		}
		for _, s := range segments {
			segs := splitPath(s)
			params, ok := p.match(segs)
			if !ok || len(segs) != len(p.segs) {
				continue
			}
			child := req.child(segs, 0, params)
			if !overlaps(splitPath(child.MountPath), req.root) {
				continue
			}
			found, err := p.next.Crawl(ctx, child)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
		}
	}
	return paths, nil
}

// crawlOrder lists patterns alphabetically so crawls are reproducible.
func (m *mount) crawlOrder() []pattern {
	ordered := make([]pattern, len(m.patterns))
	copy(ordered, m.patterns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].raw < ordered[j].raw
	})
	return ordered
}

// overlaps reports whether one of the segment lists is a prefix of the other.
func overlaps(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
