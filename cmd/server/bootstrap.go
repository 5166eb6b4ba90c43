package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/postgres"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/security"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/shared/config"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/shared/logger"

	"github.com/rs/zerolog"
)

// base is what both subcommands need before doing their own work.
type base struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *postgres.DB
	secSvc ports.SecurityPort
}

func bootstrap(ctx context.Context) (*base, error) {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("plaid_env", cfg.Plaid.Env).
		Str("currency", cfg.Payment.Currency).
		Msg("Configuration loaded")

	// 3. Token cipher
	keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex-encoded: %w", err)
	}
	secSvc, err := security.NewAESService(keyBytes, &baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize security service: %w", err)
	}

	// 4. Database
	db, err := postgres.NewDB(ctx, cfg.Postgres.URL, &baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &base{cfg: cfg, log: baseLogger, db: db, secSvc: secSvc}, nil
}
