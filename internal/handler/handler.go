package handler

import (
	"context"
	"net/http"

	"github.com/MikhailRaia/url-genie/internal/logger"
	"github.com/MikhailRaia/url-genie/internal/middleware"
	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type URLService interface {
	Shorten(ctx context.Context, input string) (model.URLMapping, error)
	ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, code string) (string, error)
	Ping(ctx context.Context) error
	Origin() string
}

// DeleteQueue accepts ids for asynchronous deletion.
type DeleteQueue interface {
	Submit(ids []string) error
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	DeleteQueue   DeleteQueue
	Session       *middleware.SessionMiddleware
	CreateLimiter *middleware.IPRateLimiter
	Metrics       *HTTPMetrics
	Gatherer      prometheus.Gatherer
	AllowedOrigin []string
}

type Handler struct {
	urlService URLService
	pages      *web.Registry
	renderer   *web.Renderer
	opts       Options
}

func NewHandler(urlService URLService, pages *web.Registry, renderer *web.Renderer, opts Options) *Handler {
	if len(opts.AllowedOrigin) == 0 {
		opts.AllowedOrigin = []string{"*"}
	}

	return &Handler{
		urlService: urlService,
		pages:      pages,
		renderer:   renderer,
		opts:       opts,
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)
	if h.opts.Metrics != nil {
		r.Use(h.opts.Metrics.Instrument)
	}

	r.Use(middleware.GzipReader)
	r.Use(chimiddleware.Compress(5, middleware.CompressibleTypes...))

	r.Get("/ping", h.handlePing)
	if h.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if h.opts.Session != nil {
			r.Use(h.opts.Session.Session)
		}

		r.Get("/", h.handleHome)
		r.With(h.limitCreate).Post("/shorten", h.handleShorten)
		r.Post("/delete/{id}", h.handleDelete)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.opts.AllowedOrigin,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding"},
			MaxAge:         300,
		}))

		r.With(h.limitCreate).Post("/urls", h.handleCreateJSON)
		r.Get("/urls", h.handleListJSON)
		r.Delete("/urls/{id}", h.handleDeleteJSON)
		r.Post("/urls/delete", h.handleBatchDeleteJSON)
		r.Get("/resolve/{code}", h.handleResolveJSON)
	})

	r.Get("/{code}", h.handleRedirect)
	r.NotFound(h.handleNotFound)

	return r
}

func (h *Handler) limitCreate(next http.Handler) http.Handler {
	if h.opts.CreateLimiter == nil {
		return next
	}
	return h.opts.CreateLimiter.Limit(next)
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := h.urlService.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
