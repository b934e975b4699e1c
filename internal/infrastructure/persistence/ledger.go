// Package persistence opens the configured EventLedger backend.
package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence/boltdb"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence/memory"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence/postgres"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence/redisdb"
)

// OpenLedger returns the ledger for cfg.Ledger.Backend and a func that releases it.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.EventLedger, func(), error) {
	switch cfg.Ledger.Backend {
	case "", "memory":
		return memory.NewLedger(), func() {}, nil

	case "bolt":
		l, err := boltdb.Open(cfg.Ledger.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using bolt event ledger", "path", cfg.Ledger.BoltPath)
		return l, func() {
			if err := l.Close(); err != nil {
				logger.Error("failed to close bolt ledger", "error", err)
			}
		}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		logger.Info("using redis event ledger", "addr", cfg.Redis.Addr)
		return redisdb.NewLedger(client, cfg.Redis.KeyPrefix, cfg.Ledger.Retention), func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}, nil

	case "postgres":
		if err := postgres.RunMigrations(&cfg.Database); err != nil {
			return nil, nil, err
		}
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewEventLedger(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
}
