// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"stock-tracker/internal/cache"
	"stock-tracker/internal/database"
	"stock-tracker/internal/handler"
	"stock-tracker/internal/handler/auth"
	"stock-tracker/internal/handler/items"
	"stock-tracker/internal/handler/report"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, sessions service.SessionAuthority, cookies auth.CookieOptions) {
	// 頁面
	e.GET("/", handler.IndexPage(sessions))
	e.GET("/registro", handler.RegisterPage(sessions))
	e.GET("/dashboard", handler.DashboardPage(sessions))

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, cch))

	// 註冊、登入、登出
	api.POST("/register", auth.RegisterHandler(db))
	api.POST("/login", auth.LoginHandler(db, sessions, cookies))
	api.POST("/logout", auth.LogoutHandler(sessions, cookies))

	// 以下需要有效 session；逐條掛上中介層，Group.Use 會讓未知路徑也回 401
	requireSession := middleware.RequireSession(sessions)
	api.GET("/perfil", auth.ProfileHandler(db), requireSession)

	api.GET("/items", items.ListItemsHandler(db), requireSession)
	api.POST("/items", items.CreateItemHandler(db), requireSession)
	// 非數字 id 先回 404，不論是否登入
	api.GET("/items/:id", items.GetItemHandler(db), items.RequireItemID, requireSession)
	api.PUT("/items/:id", items.UpdateItemHandler(db), items.RequireItemID, requireSession)
	api.DELETE("/items/:id", items.DeleteItemHandler(db), items.RequireItemID, requireSession)

	api.GET("/relatorio/resumo", report.SummaryHandler(db), requireSession)
}
