// Package metrics instruments a URLRepository with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OperationLabel names the repository operation (e.g. "Insert", "FindByShortURL").
	OperationLabel = "operation"
	// StatusLabel is the outcome of the operation.
	StatusLabel = "status"

	StatusSuccess   = "success"
	StatusError     = "error"
	StatusNotFound  = "not_found"
	StatusCollision = "collision"
)

// Metrics holds the repository collectors.
type Metrics struct {
	Duration *prometheus.HistogramVec
	Total    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "urlgenie_storage_duration_seconds",
			Help:    "Latency of URL repository operations",
			Buckets: prometheus.DefBuckets,
		}, []string{OperationLabel}),
		Total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urlgenie_storage_operations_total",
			Help: "Number of URL repository operations by outcome",
		}, []string{OperationLabel, StatusLabel}),
	}
	reg.MustRegister(m.Duration, m.Total)
	return m
}

// Storage wraps a URLRepository and records every call.
type Storage struct {
	next    storage.URLRepository
	metrics Metrics
}

// New wraps next.
func New(next storage.URLRepository, m Metrics) *Storage {
	return &Storage{next: next, metrics: m}
}

func (s *Storage) Insert(ctx context.Context, originalURL, shortURL string) (model.URLMapping, error) {
	start := time.Now()
	m, err := s.next.Insert(ctx, originalURL, shortURL)
	s.observe("Insert", start, err)
	return m, err
}

func (s *Storage) ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error) {
	start := time.Now()
	list, err := s.next.ListRecent(ctx, limit)
	s.observe("ListRecent", start, err)
	return list, err
}

func (s *Storage) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe("Delete", start, err)
	return err
}

func (s *Storage) FindByShortURL(ctx context.Context, shortURL string) (model.URLMapping, error) {
	start := time.Now()
	m, err := s.next.FindByShortURL(ctx, shortURL)
	s.observe("FindByShortURL", start, err)
	return m, err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Storage) observe(op string, start time.Time, err error) {
	s.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	s.metrics.Total.WithLabelValues(op, status(err)).Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, storage.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, storage.ErrShortURLExists):
		return StatusCollision
	default:
		return StatusError
	}
}
