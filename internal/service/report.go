package service

import (
	"context"

	"stock-tracker/internal/database"
	"stock-tracker/internal/model"
	"stock-tracker/internal/store"
)

type TypeSummary struct {
	Quantity   int
	ValueTotal float64
	ItemCount  int
}

type Summary struct {
	TotalValue      float64
	TotalQuantity   int
	TotalItemsCount int
	ByType          map[string]TypeSummary
}

// Summarize 單次走訪累加總值與各類型小計
func Summarize(items []model.Item) Summary {
	s := Summary{ByType: make(map[string]TypeSummary)}
	for _, it := range items {
		total := it.Total()
		s.TotalValue += total
		s.TotalQuantity += it.Quantity
		s.TotalItemsCount++

		t := s.ByType[it.ItemType]
		t.Quantity += it.Quantity
		t.ValueTotal += total
		t.ItemCount++
		s.ByType[it.ItemType] = t
	}
	return s
}

// Report 每次呼叫都重新讀取品項計算，不做快取
func Report(ctx context.Context, db database.Querier, ownerID int) (*Summary, error) {
	items, err := store.ListItems(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	s := Summarize(items)
	return &s, nil
}
