package models

import "time"

// User captures application-facing fields for a staff account. The pin and
// password hash never leave the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Pin          string    `json:"-"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserWithWallet is the admin-facing projection joining a user to their
// custodial wallet record.
type UserWithWallet struct {
	User
	WalletID         string `json:"walletId,omitempty"`
	APIKey           string `json:"apiKey,omitempty"`
	IdentificationID string `json:"identificationId,omitempty"`
}
