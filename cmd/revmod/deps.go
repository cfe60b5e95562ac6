package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/application/handlers"
	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
	"github.com/ersonp/revmod/internal/domain/services"
	"github.com/ersonp/revmod/internal/infrastructure/accesscache/redis"
	"github.com/ersonp/revmod/internal/infrastructure/config"
	"github.com/ersonp/revmod/internal/infrastructure/logging"
	"github.com/ersonp/revmod/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config            *config.Config
	Logger            *zap.Logger
	EntityHandler     *handlers.EntityHandler
	ModerationHandler *handlers.ModerationHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	// Ensure schema exists
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	var cache ports.AccessCache = ports.NoopAccessCache{}
	if cfg.Redis.Enabled {
		redisCache, err := redis.New(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer redisCache.Close()
		cache = redisCache
	}

	opts, err := moderationOptions(cfg.Moderation)
	if err != nil {
		return err
	}

	entityService := services.NewEntityService(store, logger)
	moderation := services.NewModeration(store, nil, cache, opts, logger)

	return fn(&Deps{
		Config:            cfg,
		Logger:            logger,
		EntityHandler:     handlers.NewEntityHandler(entityService, moderation),
		ModerationHandler: handlers.NewModerationHandler(moderation, entityService),
	})
}

// moderationOptions converts the moderation config section to service options.
func moderationOptions(cfg config.ModerationConfig) (services.Options, error) {
	op, err := entities.ParseOperation(cfg.DraftOperation)
	if err != nil {
		return services.Options{}, fmt.Errorf("moderation.draft_operation: %w", err)
	}
	return services.Options{
		EntityKind:       cfg.EntityKind,
		DraftSupport:     cfg.DraftSupport,
		DraftOperation:   op,
		UnpublishedTypes: cfg.UnpublishedTypes,
	}, nil
}

// openDatabase opens the SQLite store for the init command.
func openDatabase(cfg config.SQLiteConfig) (ports.RelationalDB, error) {
	repo, err := sqlite.NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	return repo, nil
}
