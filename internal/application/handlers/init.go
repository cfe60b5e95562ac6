// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/revmod/internal/domain/ports"
	"github.com/ersonp/revmod/internal/infrastructure/config"
)

// DatabaseOpener opens the relational store described by cfg.
type DatabaseOpener func(cfg config.SQLiteConfig) (ports.RelationalDB, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	open DatabaseOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open DatabaseOpener) *InitHandler {
	return &InitHandler{open: open}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string `json:"config_path"`
	DatabasePath string `json:"database_path"`
}

// Handle writes the default config and creates the database schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("revmod already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if h.open != nil {
		if cfg.SQLite.Path != ":memory:" {
			if err := os.MkdirAll(config.DatabaseDir(cfg), 0755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := h.open(cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		DatabasePath: cfg.SQLite.Path,
	}, nil
}
