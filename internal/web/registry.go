package web

import "sync"

// maxPages caps how many session pages are held at once.
const maxPages = 10000

// Registry holds one Page per browser session.
type Registry struct {
	mu    sync.Mutex
	pages map[string]*Page
	repo  Repository
	limit int
}

// NewRegistry returns an empty registry whose pages list up to limit items.
func NewRegistry(repo Repository, limit int) *Registry {
	return &Registry{
		pages: make(map[string]*Page),
		repo:  repo,
		limit: limit,
	}
}

// Page returns the page for sessionID, creating it on first use.
func (r *Registry) Page(sessionID string) *Page {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pages[sessionID]; ok {
		return p
	}

	if len(r.pages) >= maxPages {
		for id := range r.pages {
			delete(r.pages, id)
			break
		}
	}

	p := NewPage(r.repo, r.limit)
	r.pages[sessionID] = p
	return p
}

// Len returns the number of live pages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}
