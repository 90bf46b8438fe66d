package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_handleCreateJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		shortenErr  error
		wantStatus  int
		wantError   string
	}{
		{
			name:        "Valid request",
			body:        `{"url":"example.com"}`,
			contentType: "application/json",
			wantStatus:  http.StatusCreated,
		},
		{
			name:        "Invalid JSON",
			body:        `{"url":`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantError:   "invalid JSON body",
		},
		{
			name:        "Wrong content type",
			body:        `{"url":"example.com"}`,
			contentType: "text/plain",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "Empty URL",
			body:        `{"url":""}`,
			contentType: "application/json",
			shortenErr:  service.ErrEmptyURL,
			wantStatus:  http.StatusBadRequest,
			wantError:   service.ErrEmptyURL.Error(),
		},
		{
			name:        "Collisions exhausted",
			body:        `{"url":"example.com"}`,
			contentType: "application/json",
			shortenErr:  service.ErrCodeExhausted,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "could not save URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{}
			if tt.shortenErr != nil {
				svc.shortenFunc = func(string) (model.URLMapping, error) {
					return model.URLMapping{}, tt.shortenErr
				}
			}
			h := newTestHandler(t, svc, Options{})

			req := httptest.NewRequest(http.MethodPost, "/api/urls", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rr := httptest.NewRecorder()

			h.handleCreateJSON(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			if tt.wantStatus == http.StatusCreated {
				var got model.URLMapping
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, "https://example.com", got.OriginalURL)
				assert.Equal(t, "http://localhost:8080/abc123", got.ShortURL)
				return
			}

			if tt.wantError != "" {
				var got model.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, tt.wantError, got.Error)
			}
		})
	}
}

func TestHandler_handleListJSON(t *testing.T) {
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		listErr    error
		wantStatus int
		wantLimit  int
	}{
		{name: "Default limit", query: "", wantStatus: http.StatusOK, wantLimit: 10},
		{name: "Explicit limit", query: "?limit=3", wantStatus: http.StatusOK, wantLimit: 3},
		{name: "Limit capped", query: "?limit=1000", wantStatus: http.StatusOK, wantLimit: 100},
		{name: "Zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "Non-numeric limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "Store failure", query: "", listErr: errors.New("down"), wantStatus: http.StatusInternalServerError, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{
				listRecentFunc: func(limit int) ([]model.URLMapping, error) {
					if tt.listErr != nil {
						return nil, tt.listErr
					}
					return []model.URLMapping{
						{ID: "id-1", OriginalURL: "https://example.com", ShortURL: "http://localhost:8080/abc123", CreatedAt: created},
					}, nil
				},
			}
			h := newTestHandler(t, svc, Options{})

			rr := httptest.NewRecorder()
			h.handleListJSON(rr, httptest.NewRequest(http.MethodGet, "/api/urls"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantLimit != 0 {
				assert.Equal(t, []int{tt.wantLimit}, svc.listLimits)
			} else {
				assert.Empty(t, svc.listLimits)
			}

			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `[{
					"id": "id-1",
					"original_url": "https://example.com",
					"short_url": "http://localhost:8080/abc123",
					"created_at": "2026-05-01T12:00:00Z"
				}]`, rr.Body.String())
			}
		})
	}
}

func TestHandler_handleDeleteJSON(t *testing.T) {
	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
	}{
		{name: "Deleted", wantStatus: http.StatusNoContent},
		{name: "Store failure", deleteErr: errors.New("down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{deleteFunc: func(id string) error {
				assert.Equal(t, "id-1", id)
				return tt.deleteErr
			}}
			h := newTestHandler(t, svc, Options{})

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/urls/id-1", nil), "id", "id-1")
			rr := httptest.NewRecorder()

			h.handleDeleteJSON(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestHandler_handleBatchDeleteJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		noQueue    bool
		submitErr  error
		wantStatus int
		wantIDs    []string
	}{
		{
			name:       "Accepted",
			body:       `["id-1","id-2"]`,
			wantStatus: http.StatusAccepted,
			wantIDs:    []string{"id-1", "id-2"},
		},
		{
			name:       "Empty list",
			body:       `[]`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Not an array",
			body:       `{"id":"id-1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Queue closed",
			body:       `["id-1"]`,
			submitErr:  errors.New("closed"),
			wantStatus: http.StatusServiceUnavailable,
			wantIDs:    []string{"id-1"},
		},
		{
			name:       "No queue configured",
			body:       `["id-1"]`,
			noQueue:    true,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &mockDeleteQueue{submitFunc: func([]string) error { return tt.submitErr }}
			opts := Options{DeleteQueue: queue}
			if tt.noQueue {
				opts.DeleteQueue = nil
			}
			h := newTestHandler(t, &mockURLService{}, opts)

			req := httptest.NewRequest(http.MethodPost, "/api/urls/delete", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.handleBatchDeleteJSON(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantIDs != nil {
				require.Len(t, queue.submitted, 1)
				assert.Equal(t, tt.wantIDs, queue.submitted[0])
			} else {
				assert.Empty(t, queue.submitted)
			}

			if tt.wantStatus == http.StatusAccepted {
				assert.JSONEq(t, `{"accepted":2}`, rr.Body.String())
			}
		})
	}
}

func TestHandler_handleResolveJSON(t *testing.T) {
	tests := []struct {
		name       string
		resolveURL string
		resolveErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Found",
			resolveURL: "https://example.com",
			wantStatus: http.StatusOK,
			wantBody:   `{"original_url":"https://example.com"}`,
		},
		{
			name:       "Missing",
			resolveErr: storage.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"short URL not found"}`,
		},
		{
			name:       "Store failure",
			resolveErr: errors.New("down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"could not resolve short URL"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{resolveFunc: func(string) (string, error) {
				return tt.resolveURL, tt.resolveErr
			}}
			h := newTestHandler(t, svc, Options{})

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/resolve/abc123", nil), "code", "abc123")
			rr := httptest.NewRecorder()

			h.handleResolveJSON(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
