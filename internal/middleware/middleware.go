package middleware

import (
	"errors"
	"net/http"
	"strings"

	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey = "user"
	// SessionCookie 為存放 session token 的 cookie 名稱
	SessionCookie = "session"
)

// TokenFromRequest 先讀 session cookie，沒有時改讀 Authorization: Bearer
func TokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSession 解析 session 並放入 context，失敗時回傳 401
func RequireSession(sessions service.SessionAuthority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessions.Resolve(c.Request().Context(), TokenFromRequest(c))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
				}
				return err
			}
			c.Set(ContextUserKey, sess)
			return next(c)
		}
	}
}

// CurrentSession 取得 RequireSession 放入的 session
func CurrentSession(c echo.Context) (*service.Session, bool) {
	sess, ok := c.Get(ContextUserKey).(*service.Session)
	return sess, ok && sess != nil
}
