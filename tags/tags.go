// Package tags aggregates the tags of crawled blog routes and serves a tag
// index and per-tag listings as a mountable route tree.
package tags

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubsite/route"
)

// Entry is one row of the tag index.
type Entry struct {
	Name  string // first-seen casing
	Href  string
	Count int
}

// Canonical returns the key under which tags are grouped and matched.
func Canonical(tag string) string {
	return strings.ToLower(tag)
}

// Href returns the link to the listing of tag below mountPath.
func Href(mountPath, tag string) string {
	return path.Join(mountPath, url.PathEscape(Canonical(tag)))
}

// Distinct returns the distinct tags across routes, compared by Canonical.
// Each tag keeps the casing it had where it first appeared, and tags are
// ordered by first appearance.
func Distinct(routes []*route.Route) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range routes {
		for _, t := range r.Data.Tags {
			key := Canonical(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, t)
		}
	}
	return names
}

// Index builds the tag index for routes, linking each tag below mountPath.
// Count is the number of routes carrying the tag.
func Index(routes []*route.Route, mountPath string) []Entry {
	counts := make(map[string]int)
	for _, r := range routes {
		for key := range keys(r) {
			counts[key]++
		}
	}
	names := Distinct(routes)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		key := Canonical(name)
		entries = append(entries, Entry{
			Name:  name,
			Href:  Href(mountPath, name),
			Count: counts[key],
		})
	}
	return entries
}

// Filter returns the routes tagged with tag, compared by Canonical.
func Filter(routes []*route.Route, tag string) []*route.Route {
	key := Canonical(tag)
	var matched []*route.Route
	for _, r := range routes {
		if _, ok := keys(r)[key]; ok {
			matched = append(matched, r)
		}
	}
	return matched
}

func keys(r *route.Route) map[string]struct{} {
	set := make(map[string]struct{}, len(r.Data.Tags))
	for _, t := range r.Data.Tags {
		set[Canonical(t)] = struct{}{}
	}
	return set
}
