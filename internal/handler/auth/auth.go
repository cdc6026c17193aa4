// File: internal/handler/auth/auth.go
package auth

import (
	"net/http"
	"time"

	"stock-tracker/internal/api"
	"stock-tracker/internal/database"
	"stock-tracker/internal/handler"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	register     = service.Register
	authenticate = service.Authenticate
	getUser      = service.GetUser
)

var errInvalidBody = &service.ValidationError{Message: "invalid request body"}

// CookieOptions 控制 session cookie 的屬性
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RegisterHandler 建立新帳號
// @Summary     Register a new user
// @Description 建立帳號，phone 可省略；username 與 email 不可重複
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return handler.RespondError(c, errInvalidBody)
		}

		user, err := register(c.Request().Context(), db, service.Registration{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			return handler.RespondError(c, err)
		}

		return c.JSON(http.StatusCreated, api.AuthResponse{
			Message: "user registered successfully",
			User:    api.NewUserResponse(user),
		})
	}
}

// LoginHandler 驗證帳密後建立 session 並寫入 cookie
// @Summary     Login
// @Description 驗證 username 與 password，成功後設定 session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /login [post]
func LoginHandler(db database.DB, sessions service.SessionAuthority, opts CookieOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return handler.RespondError(c, errInvalidBody)
		}

		ctx := c.Request().Context()
		user, err := authenticate(ctx, db, req.Username, req.Password)
		if err != nil {
			return handler.RespondError(c, err)
		}

		token, expiresAt, err := sessions.Create(ctx, user)
		if err != nil {
			return handler.RespondError(c, err)
		}
		c.SetCookie(opts.cookie(token, expiresAt))

		return c.JSON(http.StatusOK, api.AuthResponse{
			Message: "login successful",
			User:    api.NewUserResponse(user),
		})
	}
}

// LogoutHandler 註銷目前的 session 並清除 cookie，未登入時同樣回傳成功
// @Summary     Logout
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Router      /logout [post]
func LogoutHandler(sessions service.SessionAuthority, opts CookieOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := sessions.Destroy(c.Request().Context(), middleware.TokenFromRequest(c)); err != nil {
			c.Logger().Error(err)
		}

		expired := opts.cookie("", time.Unix(0, 0))
		expired.MaxAge = -1
		c.SetCookie(expired)

		return c.JSON(http.StatusOK, api.MessageResponse{Message: "logout successful"})
	}
}

// ProfileHandler 取得目前登入者資料
// @Summary     Current user profile
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /perfil [get]
func ProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := middleware.CurrentSession(c)
		if !ok {
			return handler.RespondError(c, service.ErrUnauthenticated)
		}

		user, err := getUser(c.Request().Context(), db, sess.UserID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
