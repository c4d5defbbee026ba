// Package api implements the pixelsort HTTP service.
//
// The service exposes the sorting pipeline over a small JSON/multipart API:
//
//   - POST /v1/sort: sort an uploaded image or a remote URL, returning the
//     encoded result
//   - GET /v1/presets: list the available presets
//   - GET /healthz: liveness check
//
// Requests carry an X-Request-ID header (generated when absent) that is
// echoed on responses and attached to error bodies, so a failing call can be
// matched to its server log line.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smearlab/pixelsort/pkg/cache"
	"github.com/smearlab/pixelsort/pkg/httputil"
	"github.com/smearlab/pixelsort/pkg/imageio"
	"github.com/smearlab/pixelsort/pkg/pipeline"
	"github.com/smearlab/pixelsort/pkg/preset"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes caps the size of uploaded request bodies.
	DefaultMaxUploadBytes = 32 << 20

	shutdownTimeout = 5 * time.Second
)

// Config configures a [Server]. Zero fields are filled with defaults.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes sort requests. Nil gets a cacheless default runner.
	Runner *pipeline.Runner

	// Presets is the preset list served and accepted by the API.
	// Nil uses the built-in presets.
	Presets []preset.Preset

	// FetchCache stores fetched URL bodies between requests.
	FetchCache *httputil.Cache

	// ArtifactCache stores encoded responses, keyed by the hash of the
	// sorted result and the encoding options, so repeat requests skip
	// re-encoding. Nil disables the layer.
	ArtifactCache cache.Cache

	// MaxUploadBytes caps request body size. Zero applies
	// [DefaultMaxUploadBytes].
	MaxUploadBytes int64

	// Logger receives request and error logs. Nil uses log.Default().
	Logger *log.Logger
}

// Server serves the pixelsort HTTP API.
type Server struct {
	addr      string
	runner    *pipeline.Runner
	presets   []preset.Preset
	loader    *imageio.Loader
	artifacts cache.Cache
	keyer     cache.Keyer
	maxUpload int64
	logger    *log.Logger

	httpServer *http.Server
}

// NewServer creates a server from cfg, filling unset fields with defaults.
func NewServer(cfg Config) *Server {
	s := &Server{
		addr:      cfg.Addr,
		runner:    cfg.Runner,
		presets:   cfg.Presets,
		loader:    imageio.NewLoader(cfg.FetchCache),
		artifacts: cfg.ArtifactCache,
		maxUpload: cfg.MaxUploadBytes,
		logger:    cfg.Logger,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, nil)
	}
	s.keyer = s.runner.Keyer
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.presets == nil {
		s.presets = preset.Builtins()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed HTTP handler, for serving or testing.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sort", s.handleSort)
		r.Get("/presets", s.handlePresets)
	})
	return r
}

// Start runs the server until ctx is cancelled, then shuts it down
// gracefully. In-flight sort requests get shutdownTimeout to finish.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}
