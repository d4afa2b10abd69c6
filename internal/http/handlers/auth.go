package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/satbase/admin-be/internal/auth"
	"github.com/satbase/admin-be/internal/http/respond"
	"github.com/satbase/admin-be/internal/middleware"
	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/models/dto"
	"github.com/satbase/admin-be/internal/storage"
)

// AuthHandler owns the login, refresh, and token-check endpoints.
type AuthHandler struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	guard  *middleware.Guard
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, tokens *auth.TokenManager, guard *middleware.Guard) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, guard: guard}
}

// Register attaches auth routes to the mux. /login admits ADMIN accounts,
// /admin-login admits SUPER_ADMIN accounts; both check the role before the
// password so a role mismatch is a 403 even with correct credentials.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.loginFor(models.RoleAdmin))
	mux.HandleFunc("POST /api/admin-login", h.loginFor(models.RoleSuperAdmin))
	mux.HandleFunc("POST /api/refresh-token", h.handleRefresh)
	mux.HandleFunc("GET /api/test-token", h.guard.Authenticate(h.handleTestToken))
}

func (h *AuthHandler) loginFor(required models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		if strings.TrimSpace(req.Phone) == "" || req.Password == "" {
			respond.Error(w, http.StatusBadRequest, "phone and password are required")
			return
		}

		user, err := h.users.FindByPhone(r.Context(), strings.TrimSpace(req.Phone))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "user not found")
				return
			}
			log.Printf("login: fetch user: %v", err)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if user.Role != required {
			respond.Error(w, http.StatusForbidden, fmt.Sprintf("access denied: only %s can log in here", required))
			return
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		access, refresh, err := h.tokens.IssuePair(user.ID, user.Username, user.Role)
		if err != nil {
			log.Printf("login: issue tokens: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to generate token")
			return
		}

		respond.JSON(w, http.StatusOK, dto.TokenPair{AccessToken: access, RefreshToken: refresh})
	}
}

// handleRefresh exchanges a valid refresh token for a fresh pair. Claims are
// re-derived from the token itself; no database lookup happens, so a role
// change is not reflected until the refresh token expires.
func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.RefreshToken == "" {
		respond.Error(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	claims, err := h.tokens.Verify(req.RefreshToken, auth.RefreshToken)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	access, refresh, err := h.tokens.IssuePair(claims.UserID, claims.Username, claims.Role)
	if err != nil {
		log.Printf("refresh: issue tokens: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respond.JSON(w, http.StatusOK, dto.TokenPair{AccessToken: access, RefreshToken: refresh})
}

// handleTestToken echoes the verified claims so clients can probe token
// validity.
func (h *AuthHandler) handleTestToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "token is valid",
		"user": map[string]any{
			"id":       claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}
