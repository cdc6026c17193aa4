package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"stock-tracker/internal/database"
	"stock-tracker/internal/model"
	"stock-tracker/internal/store"

	"github.com/jackc/pgx/v5"
)

// ItemInput 為新增或更新品項的輸入，nil 代表欄位未提供
type ItemInput struct {
	Name     *string
	ItemType *string
	Quantity *json.Number
	Value    *json.Number
}

// itemFields 為解析後的欄位，交給 validator 檢查範圍
type itemFields struct {
	Name     string  `validate:"required"`
	ItemType string  `validate:"required"`
	Quantity int     `validate:"gt=0"`
	Value    float64 `validate:"gte=0"`
}

var createItemMessages = map[string]string{
	"required":    "all fields are required",
	"Quantity.gt": "quantity must be greater than zero",
	"Value.gte":   "value cannot be negative",
}

var updateItemMessages = map[string]string{
	"Name.required":     "name cannot be empty",
	"ItemType.required": "item_type cannot be empty",
	"Quantity.gt":       "quantity must be greater than zero",
	"Value.gte":         "value cannot be negative",
}

const (
	msgNotNumeric      = "quantity and value must be numbers"
	msgTotalOutOfRange = "total value is out of range"
)

// ItemList 為使用者的所有品項與彙總
type ItemList struct {
	Items         []model.Item
	TotalValue    float64
	TotalQuantity int
	Count         int
}

// parse 轉換有提供的欄位並回傳其欄位名稱
func (in ItemInput) parse() (itemFields, store.ItemPatch, []string, error) {
	var (
		f       itemFields
		p       store.ItemPatch
		present []string
	)
	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
		p.Name = &f.Name
		present = append(present, "Name")
	}
	if in.ItemType != nil {
		f.ItemType = strings.TrimSpace(*in.ItemType)
		p.ItemType = &f.ItemType
		present = append(present, "ItemType")
	}
	if in.Quantity != nil {
		q, err := parseQuantity(*in.Quantity)
		if err != nil {
			return f, p, nil, err
		}
		f.Quantity = q
		p.Quantity = &f.Quantity
		present = append(present, "Quantity")
	}
	if in.Value != nil {
		v, err := in.Value.Float64()
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return f, p, nil, invalid(msgNotNumeric)
		}
		f.Value = v
		p.Value = &f.Value
		present = append(present, "Value")
	}
	return f, p, present, nil
}

func parseQuantity(n json.Number) (int, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, invalid(msgNotNumeric)
	}
	if f != math.Trunc(f) {
		return 0, invalid("quantity must be an integer")
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, invalid("quantity is out of range")
	}
	return int(f), nil
}

// ListItems 列出 owner 的品項並附上彙總值
func ListItems(ctx context.Context, db database.Querier, ownerID int) (*ItemList, error) {
	items, err := store.ListItems(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	s := Summarize(items)
	return &ItemList{
		Items:         items,
		TotalValue:    s.TotalValue,
		TotalQuantity: s.TotalQuantity,
		Count:         s.TotalItemsCount,
	}, nil
}

// CreateItem 所有欄位都必須提供
func CreateItem(ctx context.Context, db database.DB, ownerID int, in ItemInput) (*model.Item, error) {
	if in.Name == nil || in.ItemType == nil || in.Quantity == nil || in.Value == nil ||
		strings.TrimSpace(*in.Name) == "" || strings.TrimSpace(*in.ItemType) == "" {
		return nil, invalid(createItemMessages["required"])
	}
	f, _, _, err := in.parse()
	if err != nil {
		return nil, err
	}
	if err := ValidateStruct(f, createItemMessages); err != nil {
		return nil, err
	}
	total, err := itemTotal(f.Quantity, f.Value)
	if err != nil {
		return nil, err
	}

	var created *model.Item
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if err := checkOwnerTotal(ctx, tx, ownerID, 0, total); err != nil {
			return err
		}
		created, err = store.CreateItem(ctx, tx, &model.Item{
			OwnerID:  ownerID,
			Name:     f.Name,
			ItemType: f.ItemType,
			Quantity: f.Quantity,
			Value:    f.Value,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func GetItem(ctx context.Context, db database.Querier, ownerID, itemID int) (*model.Item, error) {
	it, err := store.GetItem(ctx, db, ownerID, itemID)
	return it, notFound(err)
}

// UpdateItem 只檢查並更新有提供的欄位
// 變更數量或單價時，以更新後的值重新檢查總值
func UpdateItem(ctx context.Context, db database.DB, ownerID, itemID int, in ItemInput) (*model.Item, error) {
	f, patch, present, err := in.parse()
	if err != nil {
		return nil, err
	}
	if len(present) > 0 {
		if err := validatePartial(f, updateItemMessages, present...); err != nil {
			return nil, err
		}
	}

	var updated *model.Item
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if patch.Quantity != nil || patch.Value != nil {
			if err := lockOwner(ctx, tx, ownerID); err != nil {
				return err
			}
			cur, err := store.GetItem(ctx, tx, ownerID, itemID)
			if err != nil {
				return err
			}
			q, v := cur.Quantity, cur.Value
			if patch.Quantity != nil {
				q = *patch.Quantity
			}
			if patch.Value != nil {
				v = *patch.Value
			}
			total, err := itemTotal(q, v)
			if err != nil {
				return err
			}
			if err := ownerTotalFits(ctx, tx, ownerID, itemID, total); err != nil {
				return err
			}
		}
		updated, err = store.UpdateItem(ctx, tx, ownerID, itemID, patch)
		return err
	})
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

func DeleteItem(ctx context.Context, db database.Querier, ownerID, itemID int) error {
	return notFound(store.DeleteItem(ctx, db, ownerID, itemID))
}

// itemTotal 單項總值必須是有限值，否則回應無法以 JSON 表示
func itemTotal(quantity int, value float64) (float64, error) {
	total := float64(quantity) * value
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, invalid(msgTotalOutOfRange)
	}
	return total, nil
}

// checkOwnerTotal 鎖住 owner 後確認加入 total 的庫存總值仍為有限值
func checkOwnerTotal(ctx context.Context, tx pgx.Tx, ownerID, excludeID int, total float64) error {
	if err := lockOwner(ctx, tx, ownerID); err != nil {
		return err
	}
	return ownerTotalFits(ctx, tx, ownerID, excludeID, total)
}

func ownerTotalFits(ctx context.Context, tx pgx.Tx, ownerID, excludeID int, total float64) error {
	others, err := store.OwnerTotal(ctx, tx, ownerID, excludeID)
	if err != nil {
		return err
	}
	if math.IsInf(others+total, 0) {
		return invalid(msgTotalOutOfRange)
	}
	return nil
}

// lockOwner 使用者已不存在時回傳 ErrUserNotFound
func lockOwner(ctx context.Context, tx pgx.Tx, ownerID int) error {
	if err := store.LockOwner(ctx, tx, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// notFound 把查無資料轉成 ErrItemNotFound，不區分不存在或不屬於 owner
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrItemNotFound
	}
	return err
}
