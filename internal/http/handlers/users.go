package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/satbase/admin-be/internal/auth"
	"github.com/satbase/admin-be/internal/http/respond"
	"github.com/satbase/admin-be/internal/middleware"
	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/models/dto"
	"github.com/satbase/admin-be/internal/storage"
)

// UsersHandler owns the user and role management endpoints. Management of
// other accounts is SUPER_ADMIN only; the "me" variants let an ADMIN touch
// its own record, with the identity taken from verified claims, never from
// the request.
type UsersHandler struct {
	users storage.UserStore
	guard *middleware.Guard
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users storage.UserStore, guard *middleware.Guard) *UsersHandler {
	return &UsersHandler{users: users, guard: guard}
}

// Register attaches user routes to the mux.
func (h *UsersHandler) Register(mux *http.ServeMux) {
	super := models.RoleSuperAdmin
	mux.HandleFunc("POST /api/users", h.guard.Require(h.handleCreate, super))
	mux.HandleFunc("GET /api/users", h.guard.Require(h.handleList, super))
	mux.HandleFunc("GET /api/users/{userId}", h.guard.Require(h.handleGet, super))
	mux.HandleFunc("GET /api/my-user-info", h.guard.Require(h.handleMyInfo, models.RoleAdmin))
	mux.HandleFunc("PUT /api/users/{userId}", h.guard.Require(h.handleUpdate, super))
	mux.HandleFunc("PUT /api/users/{userId}/pin", h.guard.Require(h.handleUpdatePin, super))
	mux.HandleFunc("PUT /api/users/{userId}/password", h.guard.Require(h.handleUpdatePassword, super))
	mux.HandleFunc("PUT /api/users/me/update-pin", h.guard.Require(h.handleUpdateMyPin, models.RoleAdmin))
	mux.HandleFunc("PUT /api/users/me/update-password", h.guard.Require(h.handleUpdateMyPassword, models.RoleAdmin))
	mux.HandleFunc("DELETE /api/users/{userId}", h.guard.Require(h.handleDelete, super))
	mux.HandleFunc("GET /api/roles", h.guard.Require(h.handleListRoles, super))
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" || req.Pin == "" || req.Password == "" ||
		req.RoleID == 0 || req.WalletID == "" || req.APIKey == "" {
		respond.Error(w, http.StatusBadRequest, "all fields are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	// Role IDs are the seeded rows: 1 = ADMIN, 2 = SUPER_ADMIN.
	var role models.Role
	switch req.RoleID {
	case 1:
		role = models.RoleAdmin
	case 2:
		role = models.RoleSuperAdmin
	default:
		respond.Error(w, http.StatusBadRequest, "invalid roleId")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Pin:          req.Pin,
		PasswordHash: passwordHash,
		Role:         role,
	}
	wallet := models.Wallet{
		WalletID:         req.WalletID,
		APIKey:           req.APIKey,
		IdentificationID: uuid.NewString(),
	}

	created, err := h.users.CreateUser(r.Context(), user, wallet)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "user already exists")
			return
		}
		log.Printf("create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "user and wallet created successfully",
		"user":    created,
	})
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	admins, err := h.users.ListByRole(r.Context(), models.RoleAdmin)
	if err != nil {
		log.Printf("list users: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if admins == nil {
		admins = []models.UserWithWallet{}
	}
	respond.JSON(w, http.StatusOK, admins)
}

func (h *UsersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	h.writeUser(w, r, id)
}

func (h *UsersHandler) handleMyInfo(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	h.writeUser(w, r, claims.UserID)
}

func (h *UsersHandler) writeUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("fetch user %d: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	upd := storage.UserUpdate{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		WalletID: req.WalletID,
		APIKey:   req.APIKey,
	}
	if err := h.users.UpdateUser(r.Context(), id, upd); err != nil {
		h.writeUpdateError(w, id, err)
		return
	}
	respond.Message(w, http.StatusOK, "user and wallet updated successfully")
}

func (h *UsersHandler) handleUpdatePin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	h.updatePin(w, r, id)
}

func (h *UsersHandler) handleUpdateMyPin(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	h.updatePin(w, r, claims.UserID)
}

func (h *UsersHandler) updatePin(w http.ResponseWriter, r *http.Request, id int64) {
	var req dto.UpdatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Pin == "" {
		respond.Error(w, http.StatusBadRequest, "pin is required")
		return
	}
	if err := h.users.UpdatePin(r.Context(), id, req.Pin); err != nil {
		h.writeUpdateError(w, id, err)
		return
	}
	respond.Message(w, http.StatusOK, "pin updated successfully")
}

func (h *UsersHandler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	h.updatePassword(w, r, id)
}

func (h *UsersHandler) handleUpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	h.updatePassword(w, r, claims.UserID)
}

func (h *UsersHandler) updatePassword(w http.ResponseWriter, r *http.Request, id int64) {
	var req dto.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "password is required")
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), id, passwordHash); err != nil {
		h.writeUpdateError(w, id, err)
		return
	}
	respond.Message(w, http.StatusOK, "password updated successfully")
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		h.writeUpdateError(w, id, err)
		return
	}
	respond.Message(w, http.StatusOK, "user deleted successfully")
}

func (h *UsersHandler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.users.ListRoles(r.Context())
	if err != nil {
		log.Printf("list roles: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, roles)
}

func (h *UsersHandler) writeUpdateError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		respond.Error(w, http.StatusConflict, "user already exists")
		return
	}
	log.Printf("update user %d: %v", id, err)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}

// pathUserID parses the {userId} wildcard; a non-numeric value is a 400.
func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}
