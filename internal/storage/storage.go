// Package storage opens the key-value backend selected in configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/pirarucu/internal/config"
	"github.com/rpggio/pirarucu/internal/postgres"
	"github.com/rpggio/pirarucu/internal/redisstore"
	"github.com/rpggio/pirarucu/internal/repository"
	"github.com/rpggio/pirarucu/internal/sqlite"
)

// Open connects to the configured backend. The returned close function
// releases the connection and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (repository.KeyValueStore, func() error, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case "memory":
		logger.Info("using in-memory storage")
		return repository.NewMemoryStore(), noop, nil

	case "sqlite", "":
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, noop, err
		}
		logger.Info("using sqlite storage", "path", cfg.Path)
		return sqlite.NewKVStore(db), db.Close, nil

	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using redis storage", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return redisstore.New(client, cfg.RedisPrefix), client.Close, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		store := postgres.New(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Info("using postgres storage")
		return store, func() error { pool.Close(); return nil }, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
