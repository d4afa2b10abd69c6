package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satbase/admin-be/internal/auth"
	"github.com/satbase/admin-be/internal/middleware"
	"github.com/satbase/admin-be/internal/models"
	"github.com/satbase/admin-be/internal/models/dto"
)

func newAuthFixture(t *testing.T) (*fakeStore, *auth.TokenManager, *http.ServeMux) {
	t.Helper()

	store := newFakeStore()
	tokens := auth.NewTokenManager("access-secret", "refresh-secret", "test", time.Minute, time.Hour)
	guard := middleware.NewGuard(tokens)

	mux := http.NewServeMux()
	NewAuthHandler(store, tokens, guard).Register(mux)
	return store, tokens, mux
}

func seedUser(t *testing.T, store *fakeStore, phone, password string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return store.addUser(models.User{
		Username:     "user-" + phone,
		Email:        phone + "@example.com",
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
	}, models.Wallet{WalletID: "w-" + phone, APIKey: "k-" + phone, IdentificationID: "id-" + phone})
}

func doJSON(mux *http.ServeMux, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	store, tokens, mux := newAuthFixture(t)
	user := seedUser(t, store, "+15550001", "hunter22", models.RoleAdmin)

	rec := doJSON(mux, http.MethodPost, "/api/login", `{"phone":"+15550001","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair dto.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := tokens.Verify(pair.AccessToken, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = tokens.Verify(pair.RefreshToken, auth.RefreshToken)
	require.NoError(t, err)

	// Each token verifies only under its own key.
	_, err = tokens.Verify(pair.RefreshToken, auth.AccessToken)
	assert.Error(t, err)
	_, err = tokens.Verify(pair.AccessToken, auth.RefreshToken)
	assert.Error(t, err)
}

func TestLoginRoleMismatchIsForbidden(t *testing.T) {
	store, _, mux := newAuthFixture(t)
	seedUser(t, store, "+15550002", "hunter22", models.RoleAdmin)
	seedUser(t, store, "+15550003", "hunter22", models.RoleSuperAdmin)

	// Correct credentials, wrong tier for the endpoint: 403 both ways.
	rec := doJSON(mux, http.MethodPost, "/api/admin-login", `{"phone":"+15550002","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(mux, http.MethodPost, "/api/login", `{"phone":"+15550003","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The right endpoint works for each.
	rec = doJSON(mux, http.MethodPost, "/api/admin-login", `{"phone":"+15550003","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	store, _, mux := newAuthFixture(t)
	seedUser(t, store, "+15550004", "hunter22", models.RoleAdmin)

	rec := doJSON(mux, http.MethodPost, "/api/login", `{"phone":"+15550004","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	rec = doJSON(mux, http.MethodPost, "/api/login", `{"phone":"+19999999","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(mux, http.MethodPost, "/api/login", `{"phone":"","password":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(mux, http.MethodPost, "/api/login", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshReissuesMatchingClaims(t *testing.T) {
	_, tokens, mux := newAuthFixture(t)

	refresh, err := tokens.Issue(9, "carol", models.RoleSuperAdmin, auth.RefreshToken)
	require.NoError(t, err)

	rec := doJSON(mux, http.MethodPost, "/api/refresh-token", `{"refresh_token":"`+refresh+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair dto.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	claims, err := tokens.Verify(pair.AccessToken, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "carol", claims.Username)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	_, tokens, mux := newAuthFixture(t)

	rec := doJSON(mux, http.MethodPost, "/api/refresh-token", `{"refresh_token":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(mux, http.MethodPost, "/api/refresh-token", `{"refresh_token":"garbage"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid or expired refresh token"}`, rec.Body.String())

	// An access token is not a refresh token.
	access, err := tokens.Issue(1, "alice", models.RoleAdmin, auth.AccessToken)
	require.NoError(t, err)
	rec = doJSON(mux, http.MethodPost, "/api/refresh-token", `{"refresh_token":"`+access+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := auth.NewTokenManager("access-secret", "refresh-secret", "test", -time.Minute, -time.Minute)
	old, err := expired.Issue(1, "alice", models.RoleAdmin, auth.RefreshToken)
	require.NoError(t, err)
	rec = doJSON(mux, http.MethodPost, "/api/refresh-token", `{"refresh_token":"`+old+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTestTokenEchoesClaims(t *testing.T) {
	_, tokens, mux := newAuthFixture(t)

	rec := doJSON(mux, http.MethodGet, "/api/test-token", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, err := tokens.Issue(5, "dave", models.RoleAdmin, auth.AccessToken)
	require.NoError(t, err)

	rec = doJSON(mux, http.MethodGet, "/api/test-token", "", access)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
		User    struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token is valid", body.Message)
	assert.Equal(t, int64(5), body.User.ID)
	assert.Equal(t, "ADMIN", body.User.Role)
}
