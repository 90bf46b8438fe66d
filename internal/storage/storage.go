package storage

import (
	"context"
	"errors"

	"github.com/MikhailRaia/url-genie/internal/model"
)

var (
	// ErrNotFound is returned when no mapping matches the lookup.
	ErrNotFound = errors.New("url mapping not found")
	// ErrNoRow is returned when an insert succeeds but yields no row.
	ErrNoRow = errors.New("insert returned no data")
	// ErrShortURLExists is returned when the short URL is already taken.
	ErrShortURLExists = errors.New("short url already exists")
)

// URLRepository is the data-access contract over the urls table.
type URLRepository interface {
	Insert(ctx context.Context, originalURL, shortURL string) (model.URLMapping, error)
	// ListRecent returns at most limit mappings, most recent first.
	ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error)
	// Delete succeeds silently when id does not exist.
	Delete(ctx context.Context, id string) error
	FindByShortURL(ctx context.Context, shortURL string) (model.URLMapping, error)
	Ping(ctx context.Context) error
}
