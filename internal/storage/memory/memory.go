package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/google/uuid"
)

// Storage implements an in-memory URLRepository for testing and development.
type Storage struct {
	mappings   []model.URLMapping
	byShortURL map[string]int
	mutex      sync.RWMutex
}

// NewStorage creates a new in-memory storage instance.
func NewStorage() *Storage {
	return &Storage{
		byShortURL: make(map[string]int),
	}
}

// Insert stores a new mapping and returns it with its assigned id and creation time.
func (s *Storage) Insert(_ context.Context, originalURL, shortURL string) (model.URLMapping, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.byShortURL[shortURL]; exists {
		return model.URLMapping{}, storage.ErrShortURLExists
	}

	mapping := model.URLMapping{
		ID:          uuid.NewString(),
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		CreatedAt:   time.Now().UTC(),
	}

	s.mappings = append(s.mappings, mapping)
	s.byShortURL[shortURL] = len(s.mappings) - 1

	return mapping, nil
}

// ListRecent returns up to limit mappings, newest first.
func (s *Storage) ListRecent(_ context.Context, limit int) ([]model.URLMapping, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 {
		return []model.URLMapping{}, nil
	}
	if limit > len(s.mappings) {
		limit = len(s.mappings)
	}

	result := make([]model.URLMapping, 0, limit)
	for i := len(s.mappings) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.mappings[i])
	}

	return result, nil
}

// Delete removes the mapping with the given id. Unknown ids are ignored.
func (s *Storage) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, m := range s.mappings {
		if m.ID != id {
			continue
		}

		s.mappings = append(s.mappings[:i], s.mappings[i+1:]...)
		s.reindex()
		return nil
	}

	return nil
}

// FindByShortURL looks up a mapping by exact short URL.
func (s *Storage) FindByShortURL(_ context.Context, shortURL string) (model.URLMapping, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idx, found := s.byShortURL[shortURL]
	if !found {
		return model.URLMapping{}, storage.ErrNotFound
	}

	return s.mappings[idx], nil
}

// Ping always succeeds for the in-memory storage.
func (s *Storage) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored mappings.
func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.mappings)
}

func (s *Storage) reindex() {
	s.byShortURL = make(map[string]int, len(s.mappings))
	for i, m := range s.mappings {
		s.byShortURL[m.ShortURL] = i
	}
}
