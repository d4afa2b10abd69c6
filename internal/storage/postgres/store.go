package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore   = (*Store)(nil)
	_ storage.WalletStore = (*Store)(nil)
)

// Store provides Postgres-backed persistence for users, roles, and wallet
// records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`INSERT INTO roles (name) VALUES ('ADMIN'), ('SUPER_ADMIN') ON CONFLICT (name) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT UNIQUE NOT NULL,
			pin TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role_id BIGINT NOT NULL REFERENCES roles(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS wallets (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			api_key TEXT NOT NULL,
			wallet_id TEXT NOT NULL,
			identification_id TEXT UNIQUE NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts the user and its wallet row inside one transaction.
func (s *Store) CreateUser(ctx context.Context, user models.User, wallet models.Wallet) (models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUser = `
	INSERT INTO users (username, email, phone, pin, password_hash, role_id)
	VALUES ($1, $2, $3, $4, $5, (SELECT id FROM roles WHERE name = $6))
	RETURNING id, created_at;
	`
	row := tx.QueryRow(ctx, insertUser,
		user.Username, user.Email, user.Phone, user.Pin, user.PasswordHash, string(user.Role))
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		return models.User{}, wrapConflict(err)
	}

	const insertWallet = `
	INSERT INTO wallets (user_id, api_key, wallet_id, identification_id)
	VALUES ($1, $2, $3, $4);
	`
	if _, err := tx.Exec(ctx, insertWallet,
		user.ID, wallet.APIKey, wallet.WalletID, wallet.IdentificationID); err != nil {
		return models.User{}, wrapConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}

// FindByPhone fetches a user by phone number with the role name joined in.
func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	const query = `
	SELECT u.id, u.username, u.email, u.phone, u.pin, u.password_hash, r.name, u.created_at
	FROM users u
	JOIN roles r ON r.id = u.role_id
	WHERE u.phone = $1;
	`
	var user models.User
	row := s.pool.QueryRow(ctx, query, phone)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.Pin, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByID fetches a user with wallet fields joined in.
func (s *Store) FindByID(ctx context.Context, id int64) (models.UserWithWallet, error) {
	const query = `
	SELECT u.id, u.username, u.email, u.phone, u.pin, u.password_hash, r.name, u.created_at,
		COALESCE(w.wallet_id, ''), COALESCE(w.api_key, ''), COALESCE(w.identification_id, '')
	FROM users u
	JOIN roles r ON r.id = u.role_id
	LEFT JOIN wallets w ON w.user_id = u.id
	WHERE u.id = $1;
	`
	return scanUserWithWallet(s.pool.QueryRow(ctx, query, id))
}

// ListByRole returns every user carrying the role, with wallet fields.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.UserWithWallet, error) {
	const query = `
	SELECT u.id, u.username, u.email, u.phone, u.pin, u.password_hash, r.name, u.created_at,
		COALESCE(w.wallet_id, ''), COALESCE(w.api_key, ''), COALESCE(w.identification_id, '')
	FROM users u
	JOIN roles r ON r.id = u.role_id
	LEFT JOIN wallets w ON w.user_id = u.id
	WHERE r.name = $1
	ORDER BY u.id;
	`
	rows, err := s.pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserWithWallet
	for rows.Next() {
		user, err := scanUserWithWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// UpdateUser applies a partial update to user and wallet fields. Empty
// fields keep their current values.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd storage.UserUpdate) error {
	const updateUser = `
	UPDATE users SET
		username = COALESCE(NULLIF($2, ''), username),
		email = COALESCE(NULLIF($3, ''), email),
		phone = COALESCE(NULLIF($4, ''), phone)
	WHERE id = $1;
	`
	tag, err := s.pool.Exec(ctx, updateUser, id, upd.Username, upd.Email, upd.Phone)
	if err != nil {
		return wrapConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	const updateWallet = `
	UPDATE wallets SET
		wallet_id = COALESCE(NULLIF($2, ''), wallet_id),
		api_key = COALESCE(NULLIF($3, ''), api_key)
	WHERE user_id = $1;
	`
	if _, err := s.pool.Exec(ctx, updateWallet, id, upd.WalletID, upd.APIKey); err != nil {
		return err
	}
	return nil
}

// UpdatePin replaces a user's pin.
func (s *Store) UpdatePin(ctx context.Context, id int64, pin string) error {
	return s.execOnUser(ctx, `UPDATE users SET pin = $2 WHERE id = $1;`, id, pin)
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return s.execOnUser(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1;`, id, passwordHash)
}

// DeleteUser removes a user; the wallet row cascades.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListRoles returns all known roles.
func (s *Store) ListRoles(ctx context.Context) ([]models.RoleRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RoleRecord
	for rows.Next() {
		var role models.RoleRecord
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// WalletByUserID fetches the wallet record for a user.
func (s *Store) WalletByUserID(ctx context.Context, userID int64) (models.Wallet, error) {
	const query = `
	SELECT id, user_id, api_key, wallet_id, identification_id
	FROM wallets WHERE user_id = $1;
	`
	return scanWallet(s.pool.QueryRow(ctx, query, userID))
}

// WalletByIdentificationID fetches a wallet by its public handle.
func (s *Store) WalletByIdentificationID(ctx context.Context, identificationID string) (models.Wallet, error) {
	const query = `
	SELECT id, user_id, api_key, wallet_id, identification_id
	FROM wallets WHERE identification_id = $1;
	`
	return scanWallet(s.pool.QueryRow(ctx, query, identificationID))
}

func (s *Store) execOnUser(ctx context.Context, query string, id int64, value string) error {
	tag, err := s.pool.Exec(ctx, query, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUserWithWallet(row pgx.Row) (models.UserWithWallet, error) {
	var user models.UserWithWallet
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Phone,
		&user.Pin, &user.PasswordHash, &user.Role, &user.CreatedAt,
		&user.WalletID, &user.APIKey, &user.IdentificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserWithWallet{}, storage.ErrNotFound
		}
		return models.UserWithWallet{}, err
	}
	return user, nil
}

func scanWallet(row pgx.Row) (models.Wallet, error) {
	var wallet models.Wallet
	err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.APIKey, &wallet.WalletID, &wallet.IdentificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Wallet{}, storage.ErrNotFound
		}
		return models.Wallet{}, err
	}
	return wallet, nil
}

func wrapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	return err
}
