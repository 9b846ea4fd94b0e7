package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/flowline"
	"github.com/aretw0/flowline/internal/config"
	api "github.com/aretw0/flowline/pkg/adapters/http"
	"github.com/aretw0/flowline/pkg/observability"
	"github.com/aretw0/flowline/pkg/runs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions configures Serve.
type ServeOptions struct {
	Config config.Config
	Logger *slog.Logger

	// Watch reloads definitions from the workflows dir when they change.
	Watch bool
	// WatchDebounce overrides DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// Server is the assembled API: engine, run manager and HTTP handler.
type Server struct {
	Engine  *flowline.Engine
	Manager *runs.Manager
	Handler http.Handler

	persistence Persistence
}

// Close shuts the run manager down and releases the store.
func (s *Server) Close(ctx context.Context) error {
	return errors.Join(s.Manager.Shutdown(ctx), s.persistence.Close())
}

// NewServer wires the engine, the configured store and the HTTP API.
func NewServer(opts ServeOptions) (*Server, error) {
	cfg := opts.Config
	logger := opts.Logger

	var (
		metrics  *observability.Metrics
		registry *prometheus.Registry
	)
	if cfg.Server.Metrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics()
		metrics.MustRegister(registry)
	}

	engine, err := CreateEngine(EngineOptions{Config: cfg, Logger: logger, Metrics: metrics})
	if err != nil {
		return nil, err
	}

	persistence, err := CreateStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	managerOpts := []runs.Option{runs.WithLogger(logger)}
	if persistence.Locker != nil {
		managerOpts = append(managerOpts, runs.WithLocker(persistence.Locker))
		if cfg.Store.LockTTL > 0 {
			managerOpts = append(managerOpts, runs.WithLockTTL(cfg.Store.LockTTL))
		}
	}
	manager := runs.NewManager(engine, persistence.Store, managerOpts...)

	handlerOpts := []api.Option{
		api.WithLogger(logger),
		api.WithVersion(flowline.Version),
		api.WithCORSOrigins(cfg.Server.CORSOrigins...),
	}
	if registry != nil {
		handlerOpts = append(handlerOpts, api.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return &Server{
		Engine:      engine,
		Manager:     manager,
		Handler:     api.NewHandler(engine, manager, handlerOpts...),
		persistence: persistence,
	}, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg := opts.Config
	logger := opts.Logger

	s, err := NewServer(opts)
	if err != nil {
		return err
	}

	if opts.Watch && cfg.WorkflowsDir != "" {
		w, err := NewWorkflowWatcher(s.Engine, cfg.WorkflowsDir, opts.WatchDebounce, logger)
		if err != nil {
			s.Close(ctx)
			return err
		}
		go w.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("flowline server listening", "address", srv.Addr, "workflows", s.Engine.WorkflowNames())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		_ = s.Close(context.Background())
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("graceful shutdown did not complete in %v: %w", cfg.Server.ShutdownTimeout, err))
			_ = srv.Close()
		}
		if err := s.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		logger.Info("flowline server stopped")
		return errors.Join(errs...)
	}
}
