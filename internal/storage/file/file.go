package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/google/uuid"
)

// Storage implements URLRepository backed by an append-only JSONL journal.
type Storage struct {
	filePath    string
	byID        map[string]model.URLMapping
	byShortURL  map[string]string
	mu          sync.RWMutex
	fileWriteMu sync.Mutex
}

// NewStorage creates a file-backed storage at the provided path and replays its journal.
func NewStorage(filePath string) (*Storage, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Storage{
		filePath:   filePath,
		byID:       make(map[string]model.URLMapping),
		byShortURL: make(map[string]string),
	}

	if err := s.loadFromFile(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) Insert(_ context.Context, originalURL, shortURL string) (model.URLMapping, error) {
	s.mu.Lock()
	if _, exists := s.byShortURL[shortURL]; exists {
		s.mu.Unlock()
		return model.URLMapping{}, storage.ErrShortURLExists
	}

	mapping := model.URLMapping{
		ID:          uuid.NewString(),
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		CreatedAt:   time.Now().UTC(),
	}
	s.byID[mapping.ID] = mapping
	s.byShortURL[shortURL] = mapping.ID
	s.mu.Unlock()

	record := model.URLRecord{
		ID:          mapping.ID,
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		CreatedAt:   mapping.CreatedAt,
	}

	if err := s.saveRecordToFile(record); err != nil {
		s.mu.Lock()
		delete(s.byID, mapping.ID)
		delete(s.byShortURL, shortURL)
		s.mu.Unlock()
		return model.URLMapping{}, err
	}

	return mapping, nil
}

func (s *Storage) ListRecent(_ context.Context, limit int) ([]model.URLMapping, error) {
	if limit <= 0 {
		return []model.URLMapping{}, nil
	}

	s.mu.RLock()
	result := make([]model.URLMapping, 0, len(s.byID))
	for _, m := range s.byID {
		result = append(result, m)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (s *Storage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, exists := s.byID[id]
	if !exists {
		return nil
	}

	record := model.URLRecord{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		IsDeleted: true,
	}

	if err := s.saveRecordToFile(record); err != nil {
		return fmt.Errorf("failed to save deletion record: %w", err)
	}

	delete(s.byID, id)
	delete(s.byShortURL, mapping.ShortURL)

	return nil
}

func (s *Storage) FindByShortURL(_ context.Context, shortURL string) (model.URLMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, found := s.byShortURL[shortURL]
	if !found {
		return model.URLMapping{}, storage.ErrNotFound
	}

	return s.byID[id], nil
}

// Ping checks that the journal is still writable.
func (s *Storage) Ping(context.Context) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("storage file is not writable: %w", err)
	}
	return file.Close()
}

func (s *Storage) loadFromFile() error {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(bufio.NewReader(file))

	for decoder.More() {
		var record model.URLRecord
		if err := decoder.Decode(&record); err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}

		if record.IsDeleted {
			if existing, ok := s.byID[record.ID]; ok {
				delete(s.byShortURL, existing.ShortURL)
				delete(s.byID, record.ID)
			}
			continue
		}

		s.byID[record.ID] = record.Mapping()
		s.byShortURL[record.ShortURL] = record.ID
	}

	return nil
}

func (s *Storage) saveRecordToFile(record model.URLRecord) error {
	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}
