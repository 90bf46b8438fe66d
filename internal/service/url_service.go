package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MikhailRaia/url-genie/internal/generator"
	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/rs/zerolog/log"
)

// maxCodeAttempts bounds how many codes Shorten tries before giving up on collisions.
const maxCodeAttempts = 5

var (
	ErrEmptyURL      = errors.New("please enter a URL to shorten")
	ErrInvalidURL    = errors.New("please enter a valid URL")
	ErrCodeExhausted = errors.New("could not generate a unique short code")
)

// MaxURLLength caps the normalized URL a caller may store.
const MaxURLLength = 8192

// URLService provides business logic for creating and resolving short URLs.
type URLService struct {
	storage  storage.URLRepository
	origin   string
	generate func() (string, error)
}

// NewURLService constructs a URLService with the given storage and public origin.
func NewURLService(storage storage.URLRepository, baseURL string) *URLService {
	return &URLService{
		storage:  storage,
		origin:   strings.TrimRight(baseURL, "/"),
		generate: generator.GenerateCode,
	}
}

// Origin returns the public origin short URLs are built on.
func (s *URLService) Origin() string {
	return s.origin
}

// NormalizeURL trims the input, defaults a missing scheme to https and
// checks that the result is an absolute URL.
func NormalizeURL(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyURL
	}

	if !strings.HasPrefix(trimmed, "http") {
		trimmed = "https://" + trimmed
	}

	if len(trimmed) > MaxURLLength {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidURL
	}

	return trimmed, nil
}

// ShortURL builds the absolute short URL for code.
func (s *URLService) ShortURL(code string) string {
	return s.origin + "/" + code
}

// Shorten validates input, generates a code and persists the mapping.
func (s *URLService) Shorten(ctx context.Context, input string) (model.URLMapping, error) {
	originalURL, err := NormalizeURL(input)
	if err != nil {
		return model.URLMapping{}, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return model.URLMapping{}, err
		}

		mapping, err := s.storage.Insert(ctx, originalURL, s.ShortURL(code))
		if err == nil {
			return mapping, nil
		}

		if !errors.Is(err, storage.ErrShortURLExists) {
			return model.URLMapping{}, err
		}

		log.Info().Str("code", code).Msg("Short code collision, generating a new one")
	}

	return model.URLMapping{}, ErrCodeExhausted
}

// ListRecent returns up to limit mappings, newest first.
func (s *URLService) ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error) {
	urls, err := s.storage.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent URLs: %w", err)
	}
	return urls, nil
}

// Delete removes a mapping by id.
func (s *URLService) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting URL: %w", err)
	}
	return nil
}

// DeleteMany removes every id, continuing past failures.
func (s *URLService) DeleteMany(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := s.storage.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Resolve returns the original URL for code. A miss is reported as storage.ErrNotFound.
func (s *URLService) Resolve(ctx context.Context, code string) (string, error) {
	code = strings.Trim(code, "/")
	if code == "" {
		return "", storage.ErrNotFound
	}

	mapping, err := s.storage.FindByShortURL(ctx, s.ShortURL(code))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error resolving code: %w", err)
	}

	return mapping.OriginalURL, nil
}

// Ping checks the backing storage.
func (s *URLService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}
