// File: internal/handler/items/items.go
package items

import (
	"net/http"
	"strconv"

	"stock-tracker/internal/api"
	"stock-tracker/internal/database"
	"stock-tracker/internal/handler"
	"stock-tracker/internal/middleware"
	"stock-tracker/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listItems  = service.ListItems
	createItem = service.CreateItem
	getItem    = service.GetItem
	updateItem = service.UpdateItem
	deleteItem = service.DeleteItem
)

var errInvalidBody = &service.ValidationError{Message: "invalid request body"}

// owner 回傳 session 中的使用者 id，不採信 request body
func owner(c echo.Context) (int, error) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return 0, service.ErrUnauthenticated
	}
	return sess.UserID, nil
}

// itemID 只接受正整數，其他值視同路由不存在
func itemID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// RequireItemID 在 session 檢查之前擋下非正整數的 id，未登入時同樣視為路由不存在
func RequireItemID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := itemID(c); err != nil {
			return err
		}
		return next(c)
	}
}

// ListItemsHandler 列出目前使用者的品項與彙總
// @Summary     List items
// @Tags        items
// @Produce     json
// @Success     200 {object} api.ItemListResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /items [get]
func ListItemsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := owner(c)
		if err != nil {
			return handler.RespondError(c, err)
		}
		list, err := listItems(c.Request().Context(), db, uid)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewItemListResponse(list))
	}
}

// CreateItemHandler 新增品項
// @Summary     Create item
// @Description name、item_type、quantity、value 皆為必填；quantity 為正整數，value 不可為負
// @Tags        items
// @Accept      json
// @Produce     json
// @Param       body body     api.ItemRequest true "品項資料"
// @Success     201  {object} api.ItemResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /items [post]
func CreateItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := owner(c)
		if err != nil {
			return handler.RespondError(c, err)
		}
		var req api.ItemRequest
		if err := c.Bind(&req); err != nil {
			return handler.RespondError(c, errInvalidBody)
		}
		it, err := createItem(c.Request().Context(), db, uid, req.Input())
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusCreated, api.NewItemResponse(it))
	}
}

// GetItemHandler 取得單一品項
// @Summary     Get item
// @Tags        items
// @Produce     json
// @Param       id  path     int true "品項 ID"
// @Success     200 {object} api.ItemResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /items/{id} [get]
func GetItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := owner(c)
		if err != nil {
			return handler.RespondError(c, err)
		}
		id, err := itemID(c)
		if err != nil {
			return err
		}
		it, err := getItem(c.Request().Context(), db, uid, id)
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewItemResponse(it))
	}
}

// UpdateItemHandler 部分更新品項，只變更有提供的欄位
// @Summary     Update item
// @Tags        items
// @Accept      json
// @Produce     json
// @Param       id   path     int             true "品項 ID"
// @Param       body body     api.ItemRequest true "要更新的欄位"
// @Success     200  {object} api.ItemResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /items/{id} [put]
func UpdateItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := owner(c)
		if err != nil {
			return handler.RespondError(c, err)
		}
		id, err := itemID(c)
		if err != nil {
			return err
		}
		var req api.ItemRequest
		if err := c.Bind(&req); err != nil {
			return handler.RespondError(c, errInvalidBody)
		}
		it, err := updateItem(c.Request().Context(), db, uid, id, req.Input())
		if err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewItemResponse(it))
	}
}

// DeleteItemHandler 刪除品項
// @Summary     Delete item
// @Tags        items
// @Produce     json
// @Param       id  path     int true "品項 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    SessionCookie
// @Router      /items/{id} [delete]
func DeleteItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := owner(c)
		if err != nil {
			return handler.RespondError(c, err)
		}
		id, err := itemID(c)
		if err != nil {
			return err
		}
		if err := deleteItem(c.Request().Context(), db, uid, id); err != nil {
			return handler.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "item deleted successfully"})
	}
}
