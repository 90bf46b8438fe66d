package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/stretchr/testify/require"
)

type mockURLService struct {
	shortenFunc    func(input string) (model.URLMapping, error)
	listRecentFunc func(limit int) ([]model.URLMapping, error)
	deleteFunc     func(id string) error
	resolveFunc    func(code string) (string, error)
	pingFunc       func() error

	mu         sync.Mutex
	shortened  []string
	listLimits []int
}

func (m *mockURLService) Shorten(_ context.Context, input string) (model.URLMapping, error) {
	m.mu.Lock()
	m.shortened = append(m.shortened, input)
	m.mu.Unlock()

	if m.shortenFunc != nil {
		return m.shortenFunc(input)
	}

	normalized, err := service.NormalizeURL(input)
	if err != nil {
		return model.URLMapping{}, err
	}
	return model.URLMapping{ID: "id-1", OriginalURL: normalized, ShortURL: "http://localhost:8080/abc123"}, nil
}

func (m *mockURLService) ListRecent(_ context.Context, limit int) ([]model.URLMapping, error) {
	m.mu.Lock()
	m.listLimits = append(m.listLimits, limit)
	m.mu.Unlock()

	if m.listRecentFunc != nil {
		return m.listRecentFunc(limit)
	}
	return []model.URLMapping{}, nil
}

func (m *mockURLService) Delete(_ context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return nil
}

func (m *mockURLService) Resolve(_ context.Context, code string) (string, error) {
	return m.resolveFunc(code)
}

func (m *mockURLService) Ping(context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc()
	}
	return nil
}

func (m *mockURLService) Origin() string {
	return "http://localhost:8080"
}

type mockDeleteQueue struct {
	submitFunc func(ids []string) error
	submitted  [][]string
}

func (m *mockDeleteQueue) Submit(ids []string) error {
	m.submitted = append(m.submitted, ids)
	if m.submitFunc != nil {
		return m.submitFunc(ids)
	}
	return nil
}

func newTestHandler(t *testing.T, svc *mockURLService, opts Options) *Handler {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	return NewHandler(svc, web.NewRegistry(svc, web.DefaultRecentLimit), renderer, opts)
}
