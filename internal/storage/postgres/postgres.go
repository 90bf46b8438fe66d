package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	insertURL = `
		INSERT INTO urls (original_url, short_url)
		VALUES ($1, $2)
		RETURNING id::text, original_url, short_url, created_at`

	listRecentURLs = `
		SELECT id::text, original_url, short_url, created_at
		FROM urls
		ORDER BY created_at DESC
		LIMIT $1`

	findByShortURL = `
		SELECT id::text, original_url, short_url, created_at
		FROM urls
		WHERE short_url = $1`

	deleteURL = `DELETE FROM urls WHERE id = $1`
)

type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to PostgreSQL and brings the schema up to date.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, cfg.ConnConfig); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().Str("database", cfg.ConnConfig.Database).Msg("Connected to PostgreSQL")

	return &Storage{pool: pool}, nil
}

func (s *Storage) Insert(ctx context.Context, originalURL, shortURL string) (model.URLMapping, error) {
	var m model.URLMapping

	err := s.pool.QueryRow(ctx, insertURL, originalURL, shortURL).
		Scan(&m.ID, &m.OriginalURL, &m.ShortURL, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.URLMapping{}, storage.ErrNoRow
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.URLMapping{}, storage.ErrShortURLExists
		}

		return model.URLMapping{}, fmt.Errorf("error inserting URL into database: %w", err)
	}

	return m, nil
}

func (s *Storage) ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error) {
	result := make([]model.URLMapping, 0)
	if limit <= 0 {
		return result, nil
	}

	rows, err := s.pool.Query(ctx, listRecentURLs, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent URLs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.URLMapping
		if err := rows.Scan(&m.ID, &m.OriginalURL, &m.ShortURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning URL row: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating URL rows: %w", err)
	}

	return result, nil
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	// Ids that are not UUIDs cannot exist in the table.
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if _, err := s.pool.Exec(ctx, deleteURL, parsed.String()); err != nil {
		return fmt.Errorf("error deleting URL: %w", err)
	}

	return nil
}

func (s *Storage) FindByShortURL(ctx context.Context, shortURL string) (model.URLMapping, error) {
	var m model.URLMapping

	err := s.pool.QueryRow(ctx, findByShortURL, shortURL).
		Scan(&m.ID, &m.OriginalURL, &m.ShortURL, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.URLMapping{}, storage.ErrNotFound
		}
		return model.URLMapping{}, fmt.Errorf("error querying URL by short url: %w", err)
	}

	return m, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
