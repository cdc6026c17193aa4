package api

import "stock-tracker/internal/service"

// ItemRequest 用於新增與更新，未提供的欄位為 nil
// swagger:model api.ItemRequest
type ItemRequest struct {
	Name     *string `json:"name" example:"Bolt"`
	ItemType *string `json:"item_type" example:"Hardware"`
	Quantity *Number `json:"quantity" swaggertype:"number" example:"10"`
	Value    *Number `json:"value" swaggertype:"number" example:"0.5"`
}

func (r ItemRequest) Input() service.ItemInput {
	return service.ItemInput{
		Name:     r.Name,
		ItemType: r.ItemType,
		Quantity: r.Quantity.jsonNumber(),
		Value:    r.Value.jsonNumber(),
	}
}
