package api

import "stock-tracker/internal/service"

// swagger:model api.ItemListResponse
type ItemListResponse struct {
	Items           []ItemResponse `json:"items"`
	TotalValue      float64        `json:"total_value" example:"5"`
	TotalQuantity   int            `json:"total_quantity" example:"10"`
	TotalItemsCount int            `json:"total_items_count" example:"1"`
}

func NewItemListResponse(l *service.ItemList) ItemListResponse {
	items := make([]ItemResponse, 0, len(l.Items))
	for i := range l.Items {
		items = append(items, NewItemResponse(&l.Items[i]))
	}
	return ItemListResponse{
		Items:           items,
		TotalValue:      l.TotalValue,
		TotalQuantity:   l.TotalQuantity,
		TotalItemsCount: l.Count,
	}
}
