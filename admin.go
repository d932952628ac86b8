package pubsite

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubsite/markdown"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	post, err := a.Store.GetPostAny(c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminFormPartial(post, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		c.Logger().Warnf("failed admin login from %s", ip)
		return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	post, msg := postFromForm(c)
	if msg != "" {
		return c.Redirect(http.StatusSeeOther, "/admin?msg="+url.QueryEscape(msg))
	}
	if err := a.Store.SavePost(post); err != nil {
		return err
	}
	a.InvalidateContent()
	c.Logger().Infof("saved post %s", post.Slug)
	return a.renderAdminDashboard(c, "saved")
}

// postFromForm reads a post from the admin form. A non-empty message
// means the form was rejected.
func postFromForm(c echo.Context) (BlogPost, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return BlogPost{}, "Title is required."
	}
	slug := Slugify(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return BlogPost{}, "Slug is required. Add a title or slug."
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return BlogPost{}, "Invalid date format. Use YYYY-MM-DD."
	}
	content := c.FormValue("content")
	summary := strings.TrimSpace(c.FormValue("summary"))
	if summary == "" {
		summary = markdown.Summary(content)
	}
	return BlogPost{
		Slug:      slug,
		Title:     title,
		Date:      date,
		Tags:      SplitTags(c.FormValue("tags")),
		Summary:   summary,
		Content:   content,
		Published: c.FormValue("published") != "",
	}, ""
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	slug := c.Param("slug")
	if err := a.Store.DeletePost(slug); err != nil {
		return err
	}
	a.InvalidateContent()
	c.Logger().Infof("deleted post %s", slug)
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, msg, CsrfToken(c)))
}
