package api

// swagger:model api.AuthResponse
type AuthResponse struct {
	Message string       `json:"message" example:"login successful"`
	User    UserResponse `json:"user"`
}
