package api

import "stock-tracker/internal/model"

// ItemResponse 的 total 於輸出時計算
// swagger:model api.ItemResponse
type ItemResponse struct {
	ID        int     `json:"id" example:"1"`
	Name      string  `json:"name" example:"Bolt"`
	ItemType  string  `json:"item_type" example:"Hardware"`
	Quantity  int     `json:"quantity" example:"10"`
	Value     float64 `json:"value" example:"0.5"`
	Total     float64 `json:"total" example:"5"`
	CreatedAt string  `json:"created_at" example:"01/05/2025"`
	UpdatedAt string  `json:"updated_at" example:"01/05/2025 15:04"`
}

func NewItemResponse(it *model.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		ItemType:  it.ItemType,
		Quantity:  it.Quantity,
		Value:     it.Value,
		Total:     it.Total(),
		CreatedAt: formatDate(it.CreatedAt),
		UpdatedAt: formatDateTime(it.UpdatedAt),
	}
}
