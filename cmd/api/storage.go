package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/prayertimes/internal/config"
	"github.com/hamed0406/prayertimes/internal/repo"
	"github.com/hamed0406/prayertimes/internal/repo/memory"
	"github.com/hamed0406/prayertimes/internal/repo/postgres"
	rstore "github.com/hamed0406/prayertimes/internal/repo/redis"
	"github.com/hamed0406/prayertimes/internal/repo/sqlite"
)

// openStore picks the store backend named by cfg.Store.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.PrayerStore, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBPath, err)
		}
		logger.Info("store_sqlite", zap.String("path", cfg.DBPath))
		return s, nil
	case config.StorePostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info("store_postgres")
		return s, nil
	case config.StoreRedis:
		s := rstore.New(cfg.RedisAddr, "", cfg.RedisPassword)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("store_redis", zap.String("addr", cfg.RedisAddr))
		return s, nil
	case config.StoreMemory:
		logger.Warn("store_memory", zap.String("note", "prayer times are lost on restart"))
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
