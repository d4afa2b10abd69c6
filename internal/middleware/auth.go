package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/satbase/admin-be/internal/auth"
	"github.com/satbase/admin-be/internal/http/respond"
	"github.com/satbase/admin-be/internal/models"
)

type contextKey int

const claimsKey contextKey = iota

// ClaimsFrom returns the verified claims that Authenticate stored in the
// request context.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// Authorize is the pure role gate: absent claims deny regardless of the
// allowed set, as do roles outside it.
func Authorize(claims *auth.Claims, roles ...models.Role) bool {
	if claims == nil {
		return false
	}
	for _, role := range roles {
		if claims.Role == role {
			return true
		}
	}
	return false
}

// Guard bundles the authentication and role checks wrapped around protected
// routes. It has no side effects beyond populating request context.
type Guard struct {
	tokens *auth.TokenManager
}

// NewGuard creates a guard verifying bearer tokens with the manager's access
// key.
func NewGuard(tokens *auth.TokenManager) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate verifies the bearer token and stores its claims in the
// request context before calling next. Missing or malformed headers and
// invalid tokens both end the request with a 401.
func (g *Guard) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := g.tokens.Verify(token, auth.AccessToken)
		if err != nil {
			log.Printf("authenticate: %v", err)
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// Require authenticates and then gates the handler on the allowed roles.
func (g *Guard) Require(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return g.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFrom(r.Context())
		if !Authorize(claims, roles...) {
			respond.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}
