package handlers

import (
	"context"

	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/storage"
)

// fakeStore is an in-memory stand-in for the Postgres store.
type fakeStore struct {
	users     map[int64]models.UserWithWallet
	wallets   map[int64]models.Wallet
	roles     []models.RoleRecord
	pins      map[int64]string
	passwords map[int64]string
	deleted   []int64
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[int64]models.UserWithWallet{},
		wallets: map[int64]models.Wallet{},
		roles: []models.RoleRecord{
			{ID: 1, Name: "ADMIN"},
			{ID: 2, Name: "SUPER_ADMIN"},
		},
		pins:      map[int64]string{},
		passwords: map[int64]string{},
		nextID:    1,
	}
}

func (f *fakeStore) addUser(user models.User, wallet models.Wallet) models.User {
	user.ID = f.nextID
	f.nextID++
	wallet.UserID = user.ID
	f.users[user.ID] = models.UserWithWallet{
		User:             user,
		WalletID:         wallet.WalletID,
		APIKey:           wallet.APIKey,
		IdentificationID: wallet.IdentificationID,
	}
	f.wallets[user.ID] = wallet
	return user
}

func (f *fakeStore) CreateUser(_ context.Context, user models.User, wallet models.Wallet) (models.User, error) {
	for _, existing := range f.users {
		if existing.Phone == user.Phone || existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	return f.addUser(user, wallet), nil
}

func (f *fakeStore) FindByPhone(_ context.Context, phone string) (models.User, error) {
	for _, user := range f.users {
		if user.Phone == phone {
			return user.User, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (models.UserWithWallet, error) {
	user, ok := f.users[id]
	if !ok {
		return models.UserWithWallet{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) ListByRole(_ context.Context, role models.Role) ([]models.UserWithWallet, error) {
	var out []models.UserWithWallet
	for _, user := range f.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id int64, upd storage.UserUpdate) error {
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if upd.Username != "" {
		user.Username = upd.Username
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.Phone != "" {
		user.Phone = upd.Phone
	}
	if upd.WalletID != "" {
		user.WalletID = upd.WalletID
	}
	if upd.APIKey != "" {
		user.APIKey = upd.APIKey
	}
	f.users[id] = user
	return nil
}

func (f *fakeStore) UpdatePin(_ context.Context, id int64, pin string) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	f.pins[id] = pin
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	f.passwords[id] = passwordHash
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	delete(f.wallets, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListRoles(_ context.Context) ([]models.RoleRecord, error) {
	return f.roles, nil
}

func (f *fakeStore) WalletByUserID(_ context.Context, userID int64) (models.Wallet, error) {
	wallet, ok := f.wallets[userID]
	if !ok {
		return models.Wallet{}, storage.ErrNotFound
	}
	return wallet, nil
}

func (f *fakeStore) WalletByIdentificationID(_ context.Context, identificationID string) (models.Wallet, error) {
	for _, wallet := range f.wallets {
		if wallet.IdentificationID == identificationID {
			return wallet, nil
		}
	}
	return models.Wallet{}, storage.ErrNotFound
}
