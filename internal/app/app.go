package app

import (
	"fmt"
	"time"

	"squido/internal/events"
	"squido/pkg/auth"
	"squido/pkg/storage"
	"squido/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	JWTLeeway      time.Duration
	AccessTokenTTL time.Duration
	RefreshTTL     time.Duration
	CartTTL        time.Duration

	// Optional injected dependencies; constructed from the fields above
	// when nil. Tests pass in-memory implementations here.
	Store   store.Store
	Carts   store.CartStore
	Tokens  *auth.TokenIssuer
	Events  *events.Publisher
	Covers  storage.ObjectStore
}

// App wires storage, auth, and messaging into the bookstore services.
type App struct {
	store      store.Store
	carts      store.CartStore
	tokens     *auth.TokenIssuer
	events     *events.Publisher
	covers     storage.ObjectStore
	refreshTTL time.Duration
}

// New constructs the application core.
func New(cfg Config) (*App, error) {
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.CartTTL == 0 {
		cfg.CartTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	carts := cfg.Carts
	if carts == nil {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redisAddr required for the session cart store")
		}
		carts = store.NewRedisCartStore(cfg.RedisAddr, cfg.RedisPassword, cfg.CartTTL)
	}

	tokens := cfg.Tokens
	if tokens == nil {
		var err error
		tokens, err = auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, auth.TokenOptions{
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Leeway:   cfg.JWTLeeway,
		})
		if err != nil {
			return nil, fmt.Errorf("init token issuer: %w", err)
		}
	}

	return &App{
		store:      dataStore,
		carts:      carts,
		tokens:     tokens,
		events:     cfg.Events,
		covers:     cfg.Covers,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// Tokens exposes the access token issuer for HTTP middleware.
func (a *App) Tokens() *auth.TokenIssuer {
	return a.tokens
}

// Covers exposes the cover image object store, nil when not configured.
func (a *App) Covers() storage.ObjectStore {
	return a.covers
}
