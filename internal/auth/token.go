package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/satbase/admin-be/internal/models"
)

// TokenKind selects the signing secret and lifetime for an issued token.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// kind, malformed input, or expiry. Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload embedded in every token. It is the sole
// source of truth for authorization during a request; handlers never re-fetch
// the role from storage mid-request.
type Claims struct {
	UserID   int64       `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair. The two
// kinds are signed with distinct secrets, so a refresh token can never be
// presented where an access token is expected and vice versa. No server-side
// record of issued tokens is kept.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager creates a manager with per-kind secrets and lifetimes.
func NewTokenManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue signs a token of the given kind for the identity.
func (t *TokenManager) Issue(userID int64, username string, role models.Role, kind TokenKind) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl(kind))),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret(kind))
}

// IssuePair mints a fresh access/refresh pair for the identity.
func (t *TokenManager) IssuePair(userID int64, username string, role models.Role) (access, refresh string, err error) {
	access, err = t.Issue(userID, username, role, AccessToken)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err = t.Issue(userID, username, role, RefreshToken)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return access, refresh, nil
}

// Verify checks signature and expiry against the kind's own secret and
// returns the embedded claims.
func (t *TokenManager) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return t.secret(kind), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (t *TokenManager) secret(kind TokenKind) []byte {
	if kind == RefreshToken {
		return t.refreshSecret
	}
	return t.accessSecret
}

func (t *TokenManager) ttl(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return t.refreshTTL
	}
	return t.accessTTL
}
