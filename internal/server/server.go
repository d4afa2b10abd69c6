package server

import (
	"context"
	"net/http"
	"time"

	"github.com/satbase/admin-be/internal/auth"
	"github.com/satbase/admin-be/internal/config"
	"github.com/satbase/admin-be/internal/http/handlers"
	"github.com/satbase/admin-be/internal/middleware"
	"github.com/satbase/admin-be/internal/storage"
	"github.com/satbase/admin-be/internal/wallet"
)

// Store is the combined persistence surface the server needs.
type Store interface {
	storage.UserStore
	storage.WalletStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store Store) *Server {
	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	guard := middleware.NewGuard(tokens)
	provider := wallet.NewClient(cfg.WalletAPIURL, cfg.UpstreamTimeout)
	rates := wallet.NewRateClient(cfg.WalletAPIURL, cfg.UpstreamTimeout)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens, guard).Register(mux)
	handlers.NewUsersHandler(store, guard).Register(mux)
	handlers.NewPaymentsHandler(store, provider, rates, guard).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(middleware.Recovery(mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
