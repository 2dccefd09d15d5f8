package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"squido/internal/app"
	"squido/internal/config"
	"squido/internal/events"
	"squido/internal/server"
	"squido/internal/util"
	"squido/pkg/storage"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	jwtLeeway, err := config.ParseTTL(cfg.JWTLeeway, 30*time.Second)
	if err != nil {
		log.Fatalf("failed to parse JWT leeway: %v", err)
	}
	accessTTL, err := config.ParseTTL(cfg.AccessTokenTTL, 15*time.Minute)
	if err != nil {
		log.Fatalf("failed to parse access token TTL: %v", err)
	}
	refreshTTL, err := config.ParseTTL(cfg.RefreshTTL, 7*24*time.Hour)
	if err != nil {
		log.Fatalf("failed to parse refresh TTL: %v", err)
	}
	cartTTL, err := config.ParseTTL(cfg.CartTTL, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to parse cart TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("failed to init event publisher: %v", err)
		}
		defer publisher.Close()
	}

	var covers storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		covers, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init cover storage: %v", err)
		}
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:    cfg.DatabaseURL,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		JWTSecret:      cfg.JWTSecret,
		JWTIssuer:      cfg.JWTIssuer,
		JWTAudience:    cfg.JWTAudience,
		JWTLeeway:      jwtLeeway,
		AccessTokenTTL: accessTTL,
		RefreshTTL:     refreshTTL,
		CartTTL:        cartTTL,
		Events:         publisher,
		Covers:         covers,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                        appCore,
		RedisAddr:                  cfg.RedisAddr,
		RedisPassword:              cfg.RedisPassword,
		LoginRateLimitPerMinute:    cfg.LoginRateLimitPerMinute,
		RegisterRateLimitPerMinute: cfg.RegisterRateLimitPerMinute,
		TrustedProxies:             cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("api server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
