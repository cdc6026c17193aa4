// File: internal/handler/errors.go
package handler

import (
	"errors"
	"net/http"

	"stock-tracker/internal/api"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	msgPageNotFound  = "page not found"
	msgInternalError = "internal server error"
)

// StatusOf 將 service 層錯誤對應到 HTTP 狀態碼，無法辨識者一律視為 500
func StatusOf(err error) int {
	var (
		verr *service.ValidationError
		cerr *service.ConflictError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &cerr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError 以 {"error": ...} 回應，500 只記錄細節不外洩
func RespondError(c echo.Context, err error) error {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return c.JSON(status, api.ErrorResponse{Error: msgInternalError})
	}
	return c.JSON(status, api.ErrorResponse{Error: err.Error()})
}

// HTTPErrorHandler 取代 echo 預設的錯誤處理，統一輸出 ErrorResponse
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		if rerr := RespondError(c, err); rerr != nil {
			c.Logger().Error(rerr)
		}
		return
	}

	msg, _ := he.Message.(string)
	switch {
	case he.Code == http.StatusNotFound && (errors.Is(err, echo.ErrNotFound) || msg == ""):
		msg = msgPageNotFound
	case he.Code >= http.StatusInternalServerError:
		c.Logger().Error(err)
		msg = msgInternalError
	case msg == "":
		msg = http.StatusText(he.Code)
	}

	var rerr error
	if c.Request().Method == http.MethodHead {
		rerr = c.NoContent(he.Code)
	} else {
		rerr = c.JSON(he.Code, api.ErrorResponse{Error: msg})
	}
	if rerr != nil {
		c.Logger().Error(rerr)
	}
}
