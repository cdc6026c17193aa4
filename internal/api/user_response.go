package api

import "stock-tracker/internal/model"

// UserResponse 不包含密碼雜湊
// swagger:model api.UserResponse
type UserResponse struct {
	ID        int    `json:"id" example:"1"`
	FullName  string `json:"full_name" example:"Alice Doe"`
	Email     string `json:"email" example:"alice@example.com"`
	Phone     string `json:"phone" example:"+55 11 99999-0000"`
	Username  string `json:"username" example:"alice"`
	CreatedAt string `json:"created_at" example:"01/05/2025 15:04"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Username:  u.Username,
		CreatedAt: formatDateTime(u.CreatedAt),
	}
}
