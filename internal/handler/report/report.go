// File: internal/handler/report/report.go
package report

import (
	"net/http"

	"stock-tracker/internal/api"
	"stock-tracker/internal/database"
	"stock-tracker/internal/handler"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

var buildReport = service.Report

// SummaryHandler 依品項類型彙總目前使用者的庫存，每次請求重新計算
// @Summary     Inventory summary
// @Tags        report
// @Produce     json
// @Success     200 {object} api.SummaryResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /relatorio/resumo [get]
func SummaryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := middleware.CurrentSession(c)
		if !ok {
			return handler.RespondError(c, service.ErrUnauthenticated)
		}
		s, err := buildReport(c.Request().Context(), db, sess.UserID)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewSummaryResponse(s))
	}
}
