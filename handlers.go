package pubsite

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsite/route"
)

func (a *App) handlePage(c echo.Context) error {
	req := c.Request()
	r, err := a.Site.Resolve(req.Context(), req.Method, req.URL.EscapedPath())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Layout(r, a.Config))
}

func (a *App) handleFeed(c echo.Context) error {
	rss, err := a.Feed.Render(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (a *App) handleSitemap(c echo.Context) error {
	paths, err := a.Site.Crawl(c.Request().Context(), "/")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, paths)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if errors.Is(err, route.ErrNotFound) || errors.Is(err, ErrNotFound) || (ok && he.Code == http.StatusNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
