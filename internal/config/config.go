package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars. Loaded once at
// startup and treated as read-only for the process lifetime.
type Config struct {
	Port             string
	DatabaseURL      string
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	WalletAPIURL     string
	UpstreamTimeout  time.Duration
	CORSOrigins      []string
}

// Load reads configuration from the environment and performs minimal
// validation. Secrets are required but never echoed back in errors or logs.
func Load() (Config, error) {
	cfg := Config{
		Port:             fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTAccessSecret:  strings.TrimSpace(os.Getenv("JWT_ACCESS_SECRET")),
		JWTRefreshSecret: strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET")),
		JWTIssuer:        fallback(os.Getenv("JWT_ISSUER"), "satbase-admin"),
		AccessTTL:        parseDuration(os.Getenv("ACCESS_TOKEN_TTL"), time.Minute),
		RefreshTTL:       parseDuration(os.Getenv("REFRESH_TOKEN_TTL"), time.Hour),
		WalletAPIURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("WALLET_API_URL")), "/"),
		UpstreamTimeout:  parseDuration(os.Getenv("UPSTREAM_TIMEOUT"), 5*time.Second),
		CORSOrigins:      parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return Config{}, errors.New("JWT_ACCESS_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return Config{}, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return Config{}, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if cfg.WalletAPIURL == "" {
		return Config{}, errors.New("WALLET_API_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseDuration(value string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
		return d
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
