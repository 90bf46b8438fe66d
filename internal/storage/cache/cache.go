// Package cache provides a read-through Redis cache for short URL lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	shortURLPrefix = "urlgenie:short"
	idPrefix       = "urlgenie:id"

	// DefaultTTL bounds how long a resolved mapping stays cached.
	DefaultTTL = time.Hour
)

// Storage decorates a URLRepository with a Redis cache on FindByShortURL.
// Redis failures are logged and the call falls through to the wrapped repository.
type Storage struct {
	storage.URLRepository
	rdb *redis.Client
	ttl time.Duration
}

// Connect opens a Redis client for addr and verifies it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: failed to ping redis: %w", err)
	}

	return rdb, nil
}

// New wraps next with a cache backed by rdb.
func New(next storage.URLRepository, rdb *redis.Client, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Storage{
		URLRepository: next,
		rdb:           rdb,
		ttl:           ttl,
	}
}

func (s *Storage) FindByShortURL(ctx context.Context, shortURL string) (model.URLMapping, error) {
	raw, err := s.rdb.GetEx(ctx, shortKey(shortURL), s.ttl).Bytes()
	switch {
	case err == nil:
		var m model.URLMapping
		if jsonErr := json.Unmarshal(raw, &m); jsonErr == nil {
			s.touch(ctx, m)
			return m, nil
		}
		log.Warn().Str("short_url", shortURL).Msg("Discarding malformed cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("short_url", shortURL).Msg("Cache lookup failed")
	}

	m, err := s.URLRepository.FindByShortURL(ctx, shortURL)
	if err != nil {
		return model.URLMapping{}, err
	}

	s.remember(ctx, m)
	return m, nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	if err := s.URLRepository.Delete(ctx, id); err != nil {
		return err
	}

	s.forget(ctx, id)
	return nil
}

// Ping checks both Redis and the wrapped repository.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return s.URLRepository.Ping(ctx)
}

// Close releases the Redis client.
func (s *Storage) Close() error {
	return s.rdb.Close()
}

func (s *Storage) remember(ctx context.Context, m model.URLMapping) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, shortKey(m.ShortURL), data, s.ttl)
		pipe.Set(ctx, idKey(m.ID), m.ShortURL, s.ttl)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("short_url", m.ShortURL).Msg("Cache store failed")
	}
}

// touch rewrites the id key on a hit so it never expires before the short key it points to.
func (s *Storage) touch(ctx context.Context, m model.URLMapping) {
	if err := s.rdb.Set(ctx, idKey(m.ID), m.ShortURL, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("short_url", m.ShortURL).Msg("Cache refresh failed")
	}
}

func (s *Storage) forget(ctx context.Context, id string) {
	shortURL, err := s.rdb.GetDel(ctx, idKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("id", id).Msg("Cache invalidation failed")
		}
		return
	}

	if err := s.rdb.Del(ctx, shortKey(shortURL)).Err(); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Cache invalidation failed")
	}
}

func shortKey(shortURL string) string {
	return fmt.Sprintf("%s:%s", shortURLPrefix, shortURL)
}

func idKey(id string) string {
	return fmt.Sprintf("%s:%s", idPrefix, id)
}
