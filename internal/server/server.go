// Package server exposes the pipeline over an HTTP API.
//
// Clients upload a relation export once and receive a dataset ID; every
// other endpoint answers questions about that dataset. Uploaded datasets
// live in a session.Store and expire after Config.DatasetTTL.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/session"
	"github.com/matzehuels/prgraph/pkg/source"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultMaxUploadBytes = 32 << 20
	DefaultCleanupEvery   = time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Config configures the HTTP API.
type Config struct {
	Addr           string
	DatasetTTL     time.Duration
	MaxUploadBytes int64
	AllowedOrigins []string

	// Source holds the schema and sheet used to decode uploads. Requests
	// may override the sheet with ?sheet=.
	Source source.Options

	// Gatherer serves /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// CleanupEvery is the interval at which expired datasets are dropped.
	CleanupEvery time.Duration
}

// Server answers dataset queries over HTTP.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger
}

// New creates a server. runner should have Indexed set, since datasets are
// queried repeatedly.
func New(cfg Config, runner *pipeline.Runner, store session.Store, logger *log.Logger) *Server {
	if cfg.DatasetTTL <= 0 {
		cfg.DatasetTTL = session.DefaultTTL
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.CleanupEvery <= 0 {
		cfg.CleanupEvery = DefaultCleanupEvery
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, store: store, logger: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.requestLogger)
	router.Use(instrument)

	if len(s.cfg.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/healthz", s.health)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1/datasets", func(r chi.Router) {
		r.Post("/", s.upload)
		r.Route("/{datasetID}", func(r chi.Router) {
			r.Get("/", s.info)
			r.Delete("/", s.remove)
			r.Get("/categories", s.categories)
			r.Get("/identifiers", s.identifiers)
			r.Get("/connections/{pr}", s.connections)
			r.Get("/rows/{pr}", s.rows)
			r.Get("/graph/{pr}", s.graph)
		})
	})

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// Expired datasets are swept in the background while the server runs.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.store.Close()
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(ctx)
		}
	}
}

// Cleanup drops expired datasets and their indexes.
func (s *Server) Cleanup(ctx context.Context) int {
	expired, err := s.store.Cleanup(ctx)
	if err != nil {
		s.logger.Warn("dataset cleanup failed", "error", err)
	}
	for _, sess := range expired {
		s.runner.Forget(sess.Dataset)
		s.logger.Debug("dataset expired", "id", sess.ID, "name", sess.Name)
	}
	return len(expired)
}
