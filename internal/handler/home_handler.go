package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dafibh/planner/planner-web/internal/view"
	"github.com/labstack/echo/v4"
)

const themeCookieMaxAge = 365 * 24 * time.Hour

// HomeHandler handles the home page and the theme toggle
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home handles GET /
func (h *HomeHandler) Home(c echo.Context) error {
	return render(c, http.StatusOK, "home", "", "", nil)
}

// ToggleTheme handles POST /theme. Dark is the default; each call flips it.
func (h *HomeHandler) ToggleTheme(c echo.Context) error {
	next := view.ThemeLight
	if themeOf(c) == view.ThemeLight {
		next = view.ThemeDark
	}

	c.SetCookie(&http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   int(themeCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return redirect(c, backTo(c.Request().Referer()))
}

// backTo keeps only the path and query of the referring page so the redirect
// never leaves this site
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
