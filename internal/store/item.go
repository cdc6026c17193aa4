package store

import (
	"context"
	"fmt"

	"stock-tracker/internal/database"
	"stock-tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, user_id, name, item_type, quantity, value, created_at, updated_at`

// ItemPatch 只更新非 nil 的欄位
type ItemPatch struct {
	Name     *string
	ItemType *string
	Quantity *int
	Value    *float64
}

func scanItem(row pgx.Row) (*model.Item, error) {
	it := &model.Item{}
	if err := row.Scan(
		&it.ID,
		&it.OwnerID,
		&it.Name,
		&it.ItemType,
		&it.Quantity,
		&it.Value,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems 依 id 遞增列出 owner 的所有品項
func ListItems(ctx context.Context, db database.Querier, ownerID int) ([]model.Item, error) {
	rows, err := db.Query(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE user_id = $1
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListItems: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ListItems: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListItems: %w", err)
	}
	return items, nil
}

func CreateItem(ctx context.Context, db database.Querier, it *model.Item) (*model.Item, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO items (user_id, name, item_type, quantity, value)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		it.OwnerID,
		it.Name,
		it.ItemType,
		it.Quantity,
		it.Value,
	)
	if err := row.Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateItem: %w", err)
	}
	return it, nil
}

// GetItem 只回傳屬於 owner 的品項，其他人的品項視同不存在
func GetItem(ctx context.Context, db database.Querier, ownerID, itemID int) (*model.Item, error) {
	row := db.QueryRow(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE id = $1 AND user_id = $2`,
		itemID,
		ownerID,
	)
	it, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("GetItem: %w", err)
	}
	return it, nil
}

// UpdateItem 以單一語句套用 patch 並刷新 updated_at
func UpdateItem(ctx context.Context, db database.Querier, ownerID, itemID int, p ItemPatch) (*model.Item, error) {
	row := db.QueryRow(ctx,
		`UPDATE items
		 SET name = COALESCE($1, name),
		     item_type = COALESCE($2, item_type),
		     quantity = COALESCE($3, quantity),
		     value = COALESCE($4, value),
		     updated_at = now()
		 WHERE id = $5 AND user_id = $6
		 RETURNING `+itemColumns,
		p.Name,
		p.ItemType,
		p.Quantity,
		p.Value,
		itemID,
		ownerID,
	)
	it, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("UpdateItem: %w", err)
	}
	return it, nil
}

func DeleteItem(ctx context.Context, db database.Querier, ownerID, itemID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM items WHERE id = $1 AND user_id = $2`,
		itemID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("DeleteItem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteItem: %w", pgx.ErrNoRows)
	}
	return nil
}

// LockOwner 以 FOR UPDATE 鎖住使用者列，同一使用者的品項寫入在交易內依序進行
func LockOwner(ctx context.Context, db database.Querier, ownerID int) error {
	var id int
	if err := db.QueryRow(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`,
		ownerID,
	).Scan(&id); err != nil {
		return fmt.Errorf("LockOwner: %w", err)
	}
	return nil
}

// OwnerTotal 回傳 owner 其他品項 (排除 excludeID) 的 quantity * value 總和
// 新增時傳 0
func OwnerTotal(ctx context.Context, db database.Querier, ownerID, excludeID int) (float64, error) {
	var total float64
	if err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * value), 0)
		 FROM items WHERE user_id = $1 AND id <> $2`,
		ownerID,
		excludeID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("OwnerTotal: %w", err)
	}
	return total, nil
}
