// Package controlapi implements the HTTP resource graph of spec §4.5:
// create, inspect, verify and delete mock servers, backed by a
// pkg/registry.Registry.
package controlapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pactgo/pact/pkg/logging"
	"github.com/pactgo/pact/pkg/registry"
)

// Server is the Control API's http.Handler plus the registry and
// defaults it needs to service requests. It does not bind a listener
// itself — callers wrap it in an *http.Server (or httptest.Server) the
// way the rest of the corpus does for its internal control surfaces.
type Server struct {
	registry *registry.Registry
	pactDir  string
	log      *slog.Logger
	mux      *http.ServeMux
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPactDir sets the directory POST /mockserver/{id}/verify writes
// pact files to on a clean verification.
func WithPactDir(dir string) Option {
	return func(s *Server) { s.pactDir = dir }
}

// New builds a Control API server bound to reg. If reg is nil, the
// process-wide registry.Global() is used.
func New(reg *registry.Registry, opts ...Option) *Server {
	if reg == nil {
		reg = registry.Global()
	}
	s := &Server{
		registry: reg,
		pactDir:  ".",
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleList)
	s.mux.HandleFunc("POST /{$}", s.handleCreate)
	s.mux.HandleFunc("GET /mockserver/{id}", s.handleGet)
	s.mux.HandleFunc("POST /mockserver/{id}/verify", s.handleVerify)
	s.mux.HandleFunc("DELETE /mockserver/{id}", s.handleDelete)
}

// withTimeout bounds lifecycle operations (start/shutdown) the
// way the rest of the corpus scopes engine control calls — the Control
// API itself enforces no deadline on consumer traffic (spec §5: "None
// intrinsic"), only on its own administrative calls.
func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
