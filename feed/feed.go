// Package feed renders the posts of a site as an RSS 2.0 document.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/feeds"

	"github.com/eringen/pubsite/route"
)

var (
	// ErrMissingTitle is returned when a post route has no title.
	ErrMissingTitle = errors.New("feed: route has no title")
	// ErrNoContent is returned when a post route resolves without a view.
	ErrNoContent = errors.New("feed: route has no content view")
)

// DefaultRoot is the path under which posts are crawled.
const DefaultRoot = "/posts"

// Source crawls and resolves a site. *route.Site satisfies it.
type Source interface {
	Crawl(ctx context.Context, root string) ([]string, error)
	Resolve(ctx context.Context, method, path string) (*route.Route, error)
}

// Config is the site metadata written to the feed envelope.
type Config struct {
	PublicURL   string // base for every link (default "/")
	Title       string
	Description string
	Author      string
}

// Renderer builds the feed from the routes of Source.
type Renderer struct {
	Source Source
	Config Config
	Root   string // default DefaultRoot
}

// NewRenderer creates a Renderer over src.
func NewRenderer(src Source, cfg Config) *Renderer {
	return &Renderer{Source: src, Config: cfg, Root: DefaultRoot}
}

// Render crawls the post root and returns the feed as RSS XML. Items follow
// the lexical order of post paths. Posts are resolved and rendered one at a
// time, and the first failure aborts the feed.
func (r *Renderer) Render(ctx context.Context) (string, error) {
	publicURL := r.Config.PublicURL
	if publicURL == "" {
		publicURL = "/"
	}
	root := r.Root
	if root == "" {
		root = DefaultRoot
	}

	paths, err := r.Source.Crawl(ctx, root)
	if err != nil {
		return "", fmt.Errorf("feed: crawl %s: %w", root, err)
	}
	sort.Strings(paths)

	// managingEditor needs an email address, so only items carry the author.
	author := &feeds.Author{Name: r.Config.Author}
	f := &feeds.Feed{
		Title:       r.Config.Title,
		Description: r.Config.Description,
		Id:          publicURL,
		Link:        &feeds.Link{Href: publicURL},
	}

	for _, p := range paths {
		item, err := r.item(ctx, publicURL, p, author)
		if err != nil {
			return "", err
		}
		f.Add(item)
	}

	rss, err := f.ToRss()
	if err != nil {
		return "", fmt.Errorf("feed: encode: %w", err)
	}
	return rss, nil
}

func (r *Renderer) item(ctx context.Context, publicURL, p string, author *feeds.Author) (*feeds.Item, error) {
	rt, err := r.Source.Resolve(ctx, http.MethodGet, p)
	if err != nil {
		return nil, fmt.Errorf("feed: resolve %s: %w", p, err)
	}
	if rt.Title == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingTitle, p)
	}
	content := rt.Content()
	if content == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, p)
	}
	var buf bytes.Buffer
	if err := content.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("feed: render %s: %w", p, err)
	}

	link := route.JoinURL(publicURL, p)
	return &feeds.Item{
		Title:       rt.Title,
		Id:          link,
		Link:        &feeds.Link{Href: link},
		Created:     rt.Meta.Date,
		Description: rt.Meta.Description,
		Content:     buf.String(),
		Author:      author,
	}, nil
}
