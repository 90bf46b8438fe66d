package web

import (
	"net/url"
	"strings"

	"github.com/MikhailRaia/url-genie/internal/model"
)

const displayURLLength = 40

// Card is the view model of one recent mapping.
type Card struct {
	ID              string
	OriginalURL     string
	DisplayOriginal string
	ShortURL        string
	LocalHref       string
	CreatedDate     string
	CreatedTime     string
}

// NewCard builds the card for m under the current origin.
func NewCard(m model.URLMapping, origin string) Card {
	created := m.CreatedAt.Local()

	return Card{
		ID:              m.ID,
		OriginalURL:     m.OriginalURL,
		DisplayOriginal: truncate(m.OriginalURL, displayURLLength),
		ShortURL:        m.ShortURL,
		LocalHref:       LocalShortHref(m.ShortURL, origin),
		CreatedDate:     created.Format("2006-01-02"),
		CreatedTime:     created.Format("15:04:05"),
	}
}

// NewCards builds cards for every mapping, preserving order.
func NewCards(items []model.URLMapping, origin string) []Card {
	cards := make([]Card, 0, len(items))
	for _, m := range items {
		cards = append(cards, NewCard(m, origin))
	}
	return cards
}

// LocalShortHref re-derives a short link under origin from a stored short
// URL, so mappings created under another origin still resolve here.
func LocalShortHref(shortURL, origin string) string {
	origin = strings.TrimRight(origin, "/")

	u, err := url.Parse(shortURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return origin + "/" + lastSegment(shortURL)
	}

	return origin + "/" + firstSegment(u.Path)
}

func firstSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

func lastSegment(path string) string {
	segs := strings.Split(path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
