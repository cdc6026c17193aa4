package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-tracker/internal/model"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// stubSessions 只認得 "good" 這個 token
type stubSessions struct {
	resolveErr error
	seen       string
}

func (s *stubSessions) Create(context.Context, *model.User) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubSessions) Resolve(_ context.Context, token string) (*service.Session, error) {
	s.seen = token
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	if token != "good" {
		return nil, service.ErrUnauthenticated
	}
	return &service.Session{ID: "sid", UserID: 2, Username: "alice"}, nil
}

func (s *stubSessions) Destroy(context.Context, string) error { return nil }

func newContext(auth, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestTokenFromRequest(t *testing.T) {
	ctx, _ := newContext("", "")
	require.Equal(t, "", TokenFromRequest(ctx))

	ctx, _ = newContext("BadHeader", "")
	require.Equal(t, "", TokenFromRequest(ctx))

	ctx, _ = newContext("bearer abc", "")
	require.Equal(t, "abc", TokenFromRequest(ctx))

	// cookie 優先
	ctx, _ = newContext("Bearer abc", "fromcookie")
	require.Equal(t, "fromcookie", TokenFromRequest(ctx))
}

func TestRequireSession(t *testing.T) {
	sessions := &stubSessions{}

	// success path
	ctx, rec := newContext("", "good")
	called := false
	handler := RequireSession(sessions)(func(c echo.Context) error {
		called = true
		sess, ok := CurrentSession(c)
		require.True(t, ok)
		require.Equal(t, 2, sess.UserID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "good", sessions.seen)

	// missing token
	ctx, _ = newContext("", "")
	called = false
	err := RequireSession(sessions)(func(echo.Context) error { called = true; return nil })(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.Equal(t, "not authenticated", he.Message)
	require.False(t, called)

	// invalid bearer token
	ctx, _ = newContext("Bearer bad", "")
	err = RequireSession(sessions)(func(echo.Context) error { called = true; return nil })(ctx)
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.False(t, called)

	// store failure is not a 401
	sessions.resolveErr = errors.New("redis down")
	ctx, _ = newContext("", "good")
	err = RequireSession(sessions)(func(echo.Context) error { called = true; return nil })(ctx)
	require.EqualError(t, err, "redis down")
	require.False(t, called)
}

func TestCurrentSessionMissing(t *testing.T) {
	ctx, _ := newContext("", "")
	_, ok := CurrentSession(ctx)
	require.False(t, ok)
}
