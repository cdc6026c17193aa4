package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	FullName string `json:"full_name" example:"Alice Doe"`
	Email    string `json:"email" example:"alice@example.com"`
	Phone    string `json:"phone" example:"+55 11 99999-0000"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret1"`
}
