// File: internal/model/item.go
package model

import "time"

// Item 為使用者擁有的一筆庫存，total 不落地
type Item struct {
	ID        int       `db:"id" json:"id"`
	OwnerID   int       `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	ItemType  string    `db:"item_type" json:"item_type"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Value     float64   `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Total 回傳 quantity × value
func (i Item) Total() float64 {
	return float64(i.Quantity) * i.Value
}
