package dto

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Pin      string `json:"pin"`
	Password string `json:"password"`
	RoleID   int64  `json:"roleId"`
	WalletID string `json:"walletId"`
	APIKey   string `json:"apiKey"`
}

// UpdateUserRequest carries a partial update; empty fields are left untouched.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WalletID string `json:"walletId"`
	APIKey   string `json:"apiKey"`
}

type UpdatePinRequest struct {
	Pin string `json:"pin"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}
