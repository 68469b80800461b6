package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/verdantis/carbon-canary/internal/config"
	"github.com/verdantis/carbon-canary/internal/ghgrp"
	"github.com/verdantis/carbon-canary/internal/storage"
	"github.com/verdantis/carbon-canary/internal/validation"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/canary/canary.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine wires the validation engine: storage, the EPA GHGRP gateway,
// and the audit trail all come from configuration.
func initEngine(store *storage.SQLiteStorage) (*validation.Engine, error) {
	cfg, err := config.LoadValidationConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid validation configuration: %w", err)
	}

	gateway := ghgrp.NewClient(config.LoadRegistryConfig())

	deps := validation.Deps{
		Storage: store,
		Gateway: gateway,
		Audit:   store,
		Results: store,
	}
	return validation.NewEngine(deps, cfg)
}
