package model

import "time"

// URLMapping is a stored association between a short URL and its destination.
type URLMapping struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// URLRecord is one line of the file storage journal.
type URLRecord struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url,omitempty"`
	ShortURL    string    `json:"short_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsDeleted   bool      `json:"is_deleted,omitempty"`
}

// Mapping converts a journal record back into a URLMapping.
func (r URLRecord) Mapping() URLMapping {
	return URLMapping{
		ID:          r.ID,
		OriginalURL: r.OriginalURL,
		ShortURL:    r.ShortURL,
		CreatedAt:   r.CreatedAt,
	}
}
