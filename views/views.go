// Package views is the default look of a pubsite site, written as templ
// components. A site can swap any of the functions for its own.
package views

import (
	"net/url"
	"path"
	"time"

	"github.com/eringen/pubsite"
	"github.com/eringen/pubsite/route"
)

const postDate = "January 2, 2006"

// Default returns the built-in views.
func Default() pubsite.ViewFuncs {
	return pubsite.ViewFuncs{
		Layout:           Layout,
		Home:             Home,
		TagIndex:         TagIndex,
		TagPage:          TagPage,
		AdminLogin:       AdminLogin,
		AdminDashboard:   AdminDashboard,
		AdminFormPartial: AdminForm,
		NotFound:         NotFound,
		ServerError:      ServerError,
	}
}

func pageTitle(r *route.Route, cfg pubsite.SiteConfig) string {
	if r.Title == "" || r.Title == cfg.Name {
		return cfg.Name
	}
	return r.Title + " | " + cfg.Name
}

// pageJSONLD returns the structured data script for the head of r.
func pageJSONLD(r *route.Route, cfg pubsite.SiteConfig) string {
	data := pubsite.WebsiteJsonLD(cfg)
	if isPost(r, cfg) {
		data = pubsite.BlogPostingJsonLD(r, cfg)
	}
	return `<script type="application/ld+json">` + data + `</script>`
}

func isPost(r *route.Route, cfg pubsite.SiteConfig) bool {
	dir, _ := path.Split(r.Path)
	return path.Clean(dir) == path.Clean(cfg.BlogRoot)
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func displayDate(t time.Time) string {
	return t.Format(postDate)
}

func adminPostHref(slug string) string {
	return "/admin/post/" + url.PathEscape(slug)
}

func postStatus(p pubsite.BlogPost) string {
	if p.Published {
		return "published"
	}
	return "draft"
}

type formField struct {
	name, value string
}

func formFields(p pubsite.BlogPost) []formField {
	return []formField{
		{"title", p.Title},
		{"slug", p.Slug},
		{"date", p.Date},
		{"tags", pubsite.JoinTags(p.Tags)},
		{"summary", p.Summary},
	}
}
