package storage

import (
	"context"
	"fmt"

	"attendform/internal/config"
	"attendform/internal/domain/form"
	"attendform/internal/infrastructure/storage/memory"
	"attendform/internal/infrastructure/storage/postgres"
	"attendform/internal/infrastructure/storage/redis"
	"attendform/internal/infrastructure/storage/sqlite"

	"golang.org/x/exp/slog"
)

// Storage - хранилище записей форм по ключу вида {variant}:{id}
type Storage interface {
	form.KV
	Close() error
}

var (
	_ Storage = (*memory.Storage)(nil)
	_ Storage = (*sqlite.Storage)(nil)
	_ Storage = (*postgres.Storage)(nil)
	_ Storage = (*redis.Storage)(nil)
)

// New открывает хранилище, выбранное в конфигурации.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (Storage, error) {
	log.Info("opening storage", "driver", cfg.Store.Driver)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqlite.New(cfg.Store.SQLitePath)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Store.DatabaseURI, cfg.Store.Migrations, log)
	case config.DriverRedis:
		return redis.New(ctx, redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			TTL:      cfg.Store.RecordTTL,
		})
	}
	return nil, fmt.Errorf("unknown storage driver: %q", cfg.Store.Driver)
}
