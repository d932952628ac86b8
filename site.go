package pubsite

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/a-h/templ"

	"github.com/eringen/pubsite/markdown"
	"github.com/eringen/pubsite/route"
	"github.com/eringen/pubsite/tags"
)

// buildRoutes declares the site:
//
//	/                 home page, newest posts first
//	<BlogRoot>/:slug  published posts
//	<TagsRoot>        tag index
//	<TagsRoot>/:tag   posts carrying a tag
func (a *App) buildRoutes() route.Matcher {
	return route.Compose(
		route.Mount(map[string]route.Matcher{
			"/":               &route.Page{Title: a.Config.Name, View: a.homeView},
			a.Config.BlogRoot: a.postRoutes(),
			a.Config.TagsRoot: a.tagRouter.Routes(),
		}),
		route.WithContext(func(ctx context.Context, req *route.Request) context.Context {
			return tags.WithBlogRoot(ctx, a.Config.BlogRoot)
		}),
	)
}

func (a *App) postRoutes() route.Matcher {
	return route.Compose(
		route.Mount(map[string]route.Matcher{
			"/:slug": &route.Page{Load: a.loadPost, View: a.postView},
		}),
		route.WithCrawlerPatterns(map[string]route.SegmentLister{
			"/:slug": route.SegmentListerFunc(a.listPostSlugs),
		}),
	)
}

func (a *App) loadPost(ctx context.Context, req *route.Request, r *route.Route) error {
	post, err := a.Cache.GetPost(req.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", route.ErrNotFound, req.Path)
	}
	if err != nil {
		return err
	}
	r.Title = post.Title
	r.Data.Tags = post.Tags
	r.Meta = route.Meta{Date: post.PublishedAt(), Description: post.Summary}
	return nil
}

func (a *App) postView(ctx context.Context, req *route.Request, r *route.Route) (templ.Component, error) {
	post, err := a.Cache.GetPost(req.Param("slug"))
	if err != nil {
		return nil, err
	}
	return markdown.Markdown(post.Content), nil
}

// listPostSlugs lists one segment per published post, in slug order.
func (a *App) listPostSlugs(ctx context.Context, req *route.Request) ([]string, error) {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	slices.Sort(slugs)
	segments := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		segments = append(segments, route.Segment(slug))
	}
	return segments, nil
}

func (a *App) homeView(ctx context.Context, req *route.Request, r *route.Route) (templ.Component, error) {
	posts, err := a.Tags.Routes(ctx, a.Config.BlogRoot)
	if err != nil {
		return nil, err
	}
	posts = NewestFirst(posts)
	return a.Views.Home(posts, a.Config), nil
}

// NewestFirst returns a copy of routes ordered by publish date, newest
// first. Undated routes sort last; ties keep path order.
func NewestFirst(routes []*route.Route) []*route.Route {
	sorted := slices.Clone(routes)
	slices.SortStableFunc(sorted, func(x, y *route.Route) int {
		return y.Meta.Date.Compare(x.Meta.Date)
	})
	return sorted
}
