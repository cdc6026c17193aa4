// File: internal/handler/pages.go
package handler

import (
	"embed"
	"net/http"

	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

//go:embed pages/*.html
var pagesFS embed.FS

func hasSession(c echo.Context, sessions service.SessionAuthority) bool {
	_, err := sessions.Resolve(c.Request().Context(), middleware.TokenFromRequest(c))
	return err == nil
}

func page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := pagesFS.ReadFile("pages/" + name)
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, b)
	}
}

// guestPage 已登入時導向 /dashboard
func guestPage(sessions service.SessionAuthority, name string) echo.HandlerFunc {
	render := page(name)
	return func(c echo.Context) error {
		if hasSession(c, sessions) {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		return render(c)
	}
}

// IndexPage 登入頁
func IndexPage(sessions service.SessionAuthority) echo.HandlerFunc {
	return guestPage(sessions, "login.html")
}

// RegisterPage 註冊頁
func RegisterPage(sessions service.SessionAuthority) echo.HandlerFunc {
	return guestPage(sessions, "register.html")
}

// DashboardPage 未登入時導回 /
func DashboardPage(sessions service.SessionAuthority) echo.HandlerFunc {
	render := page("dashboard.html")
	return func(c echo.Context) error {
		if !hasSession(c, sessions) {
			return c.Redirect(http.StatusFound, "/")
		}
		return render(c)
	}
}
