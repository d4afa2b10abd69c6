package storage

import (
	"context"
	"errors"

	"github.com/satbase/admin-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserUpdate carries a partial user/wallet update; empty fields are skipped.
type UserUpdate struct {
	Username string
	Email    string
	Phone    string
	WalletID string
	APIKey   string
}

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	// CreateUser inserts the user and its wallet row atomically.
	CreateUser(ctx context.Context, user models.User, wallet models.Wallet) (models.User, error)
	FindByPhone(ctx context.Context, phone string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.UserWithWallet, error)
	// ListByRole returns all users carrying the role, joined with wallet fields.
	ListByRole(ctx context.Context, role models.Role) ([]models.UserWithWallet, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) error
	UpdatePin(ctx context.Context, id int64, pin string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
	ListRoles(ctx context.Context) ([]models.RoleRecord, error)
}

// WalletStore resolves wallet records for the payment endpoints.
type WalletStore interface {
	WalletByUserID(ctx context.Context, userID int64) (models.Wallet, error)
	WalletByIdentificationID(ctx context.Context, identificationID string) (models.Wallet, error)
}
