package app

import (
	"context"
	"fmt"

	"github.com/MikhailRaia/url-genie/internal/config"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/MikhailRaia/url-genie/internal/storage/cache"
	"github.com/MikhailRaia/url-genie/internal/storage/file"
	"github.com/MikhailRaia/url-genie/internal/storage/memory"
	"github.com/MikhailRaia/url-genie/internal/storage/postgres"
	"github.com/rs/zerolog/log"
)

// Backend names the storage chosen by OpenStorage.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendFile     Backend = "file"
	BackendMemory   Backend = "memory"
)

// SelectBackend picks postgres when a DSN is set, else file when a path is set, else memory.
func SelectBackend(cfg *config.Config) Backend {
	switch {
	case cfg.DatabaseDSN != "":
		return BackendPostgres
	case cfg.FileStoragePath != "":
		return BackendFile
	default:
		return BackendMemory
	}
}

// OpenStorage opens the configured repository, wrapped by the Redis cache when
// an address is set. The returned close function releases every connection.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.URLRepository, func(), error) {
	var (
		repo    storage.URLRepository
		closers []func()
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	backend := SelectBackend(cfg)
	switch backend {
	case BackendPostgres:
		pg, err := postgres.NewStorage(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database storage: %w", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
	case BackendFile:
		fs, err := file.NewStorage(cfg.FileStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		repo = fs
	default:
		repo = memory.NewStorage()
	}

	log.Info().Str("backend", string(backend)).Msg("Storage initialized")

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}

		cached := cache.New(repo, rdb, cache.DefaultTTL)
		repo = cached
		closers = append(closers, func() {
			if err := cached.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		})

		log.Info().Str("addr", cfg.RedisAddr).Msg("Redis lookup cache enabled")
	}

	return repo, closeAll, nil
}
