// Package pubsite is a blog site engine built with Go, Echo, and templ.
// Pages are declared as a route tree that can be resolved per request or
// crawled as a whole, which drives the tag pages, the RSS feed and the
// sitemap.
//
// Users provide their own templ components via the ViewFuncs struct,
// and pubsite handles the routing, handlers, middleware, and storage.
package pubsite

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubsite/feed"
	"github.com/eringen/pubsite/route"
	"github.com/eringen/pubsite/tags"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	// Layout wraps a resolved route; r.Content() is the page body.
	Layout           func(r *route.Route, cfg SiteConfig) templ.Component
	Home             func(posts []*route.Route, cfg SiteConfig) templ.Component
	TagIndex         func(entries []tags.Entry) templ.Component
	TagPage          func(name, blogRoot string, posts []*route.Route) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []BlogPost, message string, csrfToken string) templ.Component
	AdminFormPartial func(post BlogPost, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central pubsite application. It wires together the store,
// caches, route tree, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Site   *route.Site
	Tags   *tags.Cache
	Feed   *feed.Renderer
	Views  ViewFuncs

	tagRouter    *tags.Router
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new pubsite App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Open initializes the store, caches and route tree without serving HTTP.
// The CLI uses it to render the feed or crawl the site.
func (a *App) Open() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pubsite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	a.Site = &route.Site{}
	a.Tags = tags.NewCache(a.Site)
	a.tagRouter = tags.NewRouter(a.Tags, tags.Views{
		Index: a.Views.TagIndex,
		Tag:   a.Views.TagPage,
	})
	a.Site.Routes = a.buildRoutes()

	feedRenderer := feed.NewRenderer(a.Site, feed.Config{
		PublicURL:   a.Config.PublicURL,
		Title:       a.Config.Name,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	})
	feedRenderer.Root = a.Config.BlogRoot
	a.Feed = feedRenderer
	return nil
}

// Handler opens the app and registers middleware and routes, returning the
// Echo instance ready to serve.
func (a *App) Handler() (*echo.Echo, error) {
	if a.Config.AdminPassword == "" {
		return nil, fmt.Errorf("pubsite: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return nil, fmt.Errorf("pubsite: SessionSecret is required")
	}
	if err := a.Open(); err != nil {
		return nil, err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.Echo.Logger.SetLevel(log.INFO)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a.Echo, nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	e, err := a.Handler()
	if err != nil {
		return err
	}
	if err := e.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Generated documents
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Admin routes
	e.GET("/admin", a.handleAdmin)
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)
	e.GET("/admin/post/:slug", a.handleAdminPost)
	e.POST("/admin/save", a.handleAdminSave)
	e.DELETE("/admin/post/:slug", a.handleAdminDelete)

	// Everything else is resolved against the route tree.
	e.GET("/", a.handlePage)
	e.GET("/*", a.handlePage)
	e.HEAD("/", a.handlePage)
	e.HEAD("/*", a.handlePage)
}

// InvalidateContent drops cached posts and crawl results after content changes.
func (a *App) InvalidateContent() {
	a.Cache.Invalidate()
	a.Tags.Invalidate()
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
