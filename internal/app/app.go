package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MikhailRaia/url-genie/internal/auth"
	"github.com/MikhailRaia/url-genie/internal/config"
	"github.com/MikhailRaia/url-genie/internal/generator"
	"github.com/MikhailRaia/url-genie/internal/handler"
	"github.com/MikhailRaia/url-genie/internal/middleware"
	"github.com/MikhailRaia/url-genie/internal/proto"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage/metrics"
	"github.com/MikhailRaia/url-genie/internal/web"
	"github.com/MikhailRaia/url-genie/internal/worker"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config       *config.Config
	handler      http.Handler
	grpcServer   *grpc.Server
	deleteWorker *worker.DeleteWorkerPool
	closeStorage func()
	closeOnce    sync.Once
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	repo, closeStorage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	urlService := service.NewURLService(metrics.New(repo, metrics.NewMetrics(reg)), cfg.BaseURL)

	renderer, err := web.NewRenderer()
	if err != nil {
		closeStorage()
		return nil, err
	}

	httpMetrics, err := handler.NewHTTPMetrics(reg)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = generator.GenerateID(32)
		if err != nil {
			closeStorage()
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		log.Warn().Msg("No session secret configured, sessions will not survive a restart")
	}

	deleteWorker := worker.NewDeleteWorkerPool(urlService, worker.DefaultConfig())
	deleteWorker.Start()

	httpHandler := handler.NewHandler(urlService, web.NewRegistry(urlService, cfg.RecentLimit), renderer, handler.Options{
		DeleteQueue:   deleteWorker,
		Session:       middleware.NewSessionMiddleware(auth.NewJWTService(secret)),
		CreateLimiter: middleware.NewIPRateLimiter(cfg.CreateRPS, cfg.CreateBurst),
		Metrics:       httpMetrics,
		Gatherer:      reg,
	})

	grpcMetrics := grpc_prometheus.NewServerMetrics()
	reg.MustRegister(grpcMetrics)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.UnaryRecoverer,
		middleware.UnaryLogger,
		grpcMetrics.UnaryServerInterceptor(),
	))
	proto.RegisterShortenerServiceServer(grpcServer, handler.NewShortenerGRPCServer(urlService))
	grpcMetrics.InitializeMetrics(grpcServer)

	return &App{
		config:       cfg,
		handler:      httpHandler.RegisterRoutes(),
		grpcServer:   grpcServer,
		deleteWorker: deleteWorker,
		closeStorage: closeStorage,
	}, nil
}

// Handler returns the HTTP handler tree.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP and gRPC until ctx is cancelled or a server fails, then
// shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		runErrs []error
	)
	fail := func(err error) {
		errMu.Lock()
		runErrs = append(runErrs, err)
		errMu.Unlock()
		cancel()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", a.config.ServerAddress).Str("baseURL", a.config.BaseURL).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail(fmt.Errorf("http server: %w", err))
		}
	}()

	if a.config.GRPCAddress != "" {
		lis, err := net.Listen("tcp", a.config.GRPCAddress)
		if err != nil {
			fail(fmt.Errorf("grpc listen: %w", err))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Info().Str("addr", a.config.GRPCAddress).Msg("Starting gRPC server")
				if err := a.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
					fail(fmt.Errorf("grpc server: %w", err))
				}
			}()
		}
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	a.grpcServer.GracefulStop()

	wg.Wait()

	a.Close()

	errMu.Lock()
	defer errMu.Unlock()
	return errors.Join(runErrs...)
}

// Close drains the delete worker and releases storage.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if err := a.deleteWorker.Shutdown(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("Delete worker shutdown failed")
		}
		a.closeStorage()
	})
}
