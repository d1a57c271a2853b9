// Package server exposes the scale engine and the asset mirror over HTTP.
//
// # Routes
//
//	GET /healthz                    liveness probe
//	GET /api/catalog                registered entities in registration order
//	GET /api/evaluate?exponent=7.1  one evaluation as a hud.Report
//	*                               offline asset mirror (GET only)
//
// Every response carries an X-Request-ID header. Client-supplied IDs are
// echoed; otherwise a UUID is generated.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// Options configures a Server.
type Options struct {
	Logger   *log.Logger
	Resolver *scale.Resolver
	Registry *scale.Registry

	// Mirror handles every request no API route matches. When nil those
	// requests get 404.
	Mirror http.Handler
}

// Server is the cosmicscale HTTP front end.
type Server struct {
	router   chi.Router
	logger   *log.Logger
	resolver *scale.Resolver
	registry *scale.Registry
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.Registry == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "server needs a registry")
	}
	s := &Server{
		logger:   opts.Logger,
		resolver: opts.Resolver,
		registry: opts.Registry,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.resolver == nil {
		s.resolver = scale.DefaultResolver()
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/evaluate", s.handleEvaluate)
	})
	if opts.Mirror != nil {
		r.NotFound(opts.Mirror.ServeHTTP)
		r.MethodNotAllowed(opts.Mirror.ServeHTTP)
	}

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
