package route

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

// Page is a leaf route. It matches only when the whole path has been
// consumed by enclosing mounts.
type Page struct {
	Title string
	Data  Data
	Meta  Meta

	// Load fills in per-request fields of r. It runs for every method,
	// so it should only do the work needed for metadata.
	Load func(ctx context.Context, req *Request, r *Route) error

	// View returns the page content. It is not called for HEAD requests.
	View func(ctx context.Context, req *Request, r *Route) (templ.Component, error)
}

func (p *Page) Resolve(ctx context.Context, req *Request) (*Route, error) {
	if len(req.rest) != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
	}
	r := &Route{
		Path:  req.MountPath,
		Title: p.Title,
		Data:  p.Data,
		Meta:  p.Meta,
	}
	if p.Load != nil {
		if err := p.Load(ctx, req, r); err != nil {
			return nil, err
		}
	}
	if req.Method == http.MethodHead || p.View == nil {
		return r, nil
	}
	view, err := p.View(ctx, req, r)
	if err != nil {
		return nil, err
	}
	r.Views = append(r.Views, view)
	return r, nil
}

func (p *Page) Crawl(ctx context.Context, req *Request) ([]string, error) {
	return []string{req.MountPath}, nil
}
