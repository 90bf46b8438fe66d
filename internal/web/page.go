package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MikhailRaia/url-genie/internal/generator"
	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/rs/zerolog/log"
)

// DefaultRecentLimit is how many mappings a page shows.
const DefaultRecentLimit = 10

// Repository is what a page needs from the URL service.
type Repository interface {
	Shortener
	ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error)
	Delete(ctx context.Context, id string) error
}

// Page is the page-scoped recent list plus its shortener form. The list is
// updated optimistically and reconciled against the repository on failure.
type Page struct {
	mu    sync.Mutex
	items []model.URLMapping
	limit int
	repo  Repository
	form  *Form
}

// NewPage returns an empty page showing up to limit items.
func NewPage(repo Repository, limit int) *Page {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	p := &Page{
		items: []model.URLMapping{},
		limit: limit,
		repo:  repo,
	}
	p.form = NewForm(repo, p.add)

	return p
}

// Form returns the page's shortener form.
func (p *Page) Form() *Form {
	return p.form
}

// Load replaces the list with the most recent mappings. On failure the
// current list is kept.
func (p *Page) Load(ctx context.Context) error {
	items, err := p.repo.ListRecent(ctx, p.limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load URLs")
		return err
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()

	return nil
}

// Prepend adds an optimistic entry. Its id and time are placeholders until the next Load.
func (p *Page) Prepend(originalURL, shortURL string) {
	id, err := generator.GenerateID(11)
	if err != nil {
		id = fmt.Sprintf("pending-%d", time.Now().UnixNano())
	}

	p.add(model.URLMapping{
		ID:          id,
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		CreatedAt:   time.Now().UTC(),
	})
}

// add puts m at the head of the list, keeping at most limit items.
func (p *Page) add(m model.URLMapping) {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]model.URLMapping, 0, len(p.items)+1)
	items = append(items, m)
	items = append(items, p.items...)
	if len(items) > p.limit {
		items = items[:p.limit]
	}
	p.items = items
}

// Delete removes id from the list immediately, then from the repository.
// If the repository call fails the list is replaced by a fresh fetch and the
// delete error is returned. A failing fetch leaves the optimistic list in place.
func (p *Page) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	kept := make([]model.URLMapping, 0, len(p.items))
	for _, m := range p.items {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	p.items = kept
	p.mu.Unlock()

	err := p.repo.Delete(ctx, id)
	if err == nil {
		return nil
	}

	log.Error().Err(err).Str("id", id).Msg("Failed to delete URL, reloading list")

	fresh, listErr := p.repo.ListRecent(ctx, p.limit)
	if listErr != nil {
		log.Error().Err(listErr).Msg("Failed to reload URLs after delete failure")
		return err
	}

	p.mu.Lock()
	p.items = fresh
	p.mu.Unlock()

	return err
}

// Items returns a snapshot of the list.
func (p *Page) Items() []model.URLMapping {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]model.URLMapping, len(p.items))
	copy(out, p.items)
	return out
}
