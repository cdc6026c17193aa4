package api

import "stock-tracker/internal/service"

// swagger:model api.TypeSummaryResponse
type TypeSummaryResponse struct {
	Quantity   int     `json:"quantity" example:"10"`
	ValueTotal float64 `json:"value_total" example:"5"`
	ItemCount  int     `json:"item_count" example:"1"`
}

// swagger:model api.SummaryResponse
type SummaryResponse struct {
	TotalValue      float64                        `json:"total_value" example:"5"`
	TotalQuantity   int                            `json:"total_quantity" example:"10"`
	TotalItemsCount int                            `json:"total_items_count" example:"1"`
	ByType          map[string]TypeSummaryResponse `json:"by_type"`
}

func NewSummaryResponse(s *service.Summary) SummaryResponse {
	byType := make(map[string]TypeSummaryResponse, len(s.ByType))
	for k, v := range s.ByType {
		byType[k] = TypeSummaryResponse{
			Quantity:   v.Quantity,
			ValueTotal: v.ValueTotal,
			ItemCount:  v.ItemCount,
		}
	}
	return SummaryResponse{
		TotalValue:      s.TotalValue,
		TotalQuantity:   s.TotalQuantity,
		TotalItemsCount: s.TotalItemsCount,
		ByType:          byType,
	}
}
