// Package mockserver runs a pact as a live HTTP server: every
// Interaction becomes a route that, on a matching request, returns the
// recorded response; every request is logged so a consumer test can
// later ask which interactions were exercised and which requests
// didn't match anything (spec §4.3).
package mockserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pactgo/pact/pkg/logging"
	"github.com/pactgo/pact/pkg/pact"

	"github.com/google/uuid"
)

// State is one of the four lifecycle states a MockServer moves
// through. Only Starting->Running and Running->ShuttingDown->
// Terminated transitions are legal (spec §4.3); once Terminated a
// MockServer cannot be restarted, callers construct a new one.
type State int

// MockServer lifecycle states.
const (
	StateStarting State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// StartError reports that a MockServer failed to bind its listener.
type StartError struct {
	Port int
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("mockserver: cannot bind port %d: %v", e.Port, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// MockServer serves one pact.Pact's interactions over HTTP, per spec
// §4.3. The pact is cloned into the server on construction so the
// caller's document is independent of later mutations (spec §3).
type MockServer struct {
	id   string
	pact *pact.Pact
	log  *slog.Logger

	mu         sync.Mutex
	state      State
	listener   net.Listener
	httpServer *http.Server
	startTime  time.Time
	attempts   []MatchAttempt
	matchCount map[string]int
}

// Option configures a MockServer at construction time, following the
// functional-options pattern mockd's engine.Server uses.
type Option func(*MockServer)

// WithLogger sets the operational logger for the mock server.
func WithLogger(log *slog.Logger) Option {
	return func(s *MockServer) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a MockServer for p, in the Starting state.
func New(p *pact.Pact, opts ...Option) *MockServer {
	s := &MockServer{
		id:         uuid.NewString(),
		pact:       p.Clone(),
		log:        logging.Nop(),
		state:      StateStarting,
		matchCount: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the mock server's unique identifier, used by pkg/registry
// and pkg/controlapi to address it.
func (s *MockServer) ID() string { return s.id }

// Pact returns the pact served by this mock server. The result is the
// server's own copy (cloned on New), not the caller's original.
func (s *MockServer) Pact() *pact.Pact { return s.pact }

// State returns the current lifecycle state.
func (s *MockServer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start binds a TCP listener on the requested port (0 lets the OS
// choose) and begins serving, returning the assigned port, per spec
// §4.3's `start(id, pact, desired_port) -> assigned_port | StartError`.
func (s *MockServer) Start(ctx context.Context, desiredPort int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStarting {
		return 0, fmt.Errorf("mockserver: cannot start from state %s", s.state)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", desiredPort))
	if err != nil {
		return 0, &StartError{Port: desiredPort, Err: err}
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.handler()}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("mock server error", "id", s.id, "error", err)
		}
	}()

	s.state = StateRunning
	s.startTime = time.Now()
	port := listener.Addr().(*net.TCPAddr).Port
	s.log.Info("mock server started", "id", s.id, "port", port)
	return port, nil
}

// BaseURL returns "http://127.0.0.1:port" for the running server.
// Empty before Start or after Shutdown.
func (s *MockServer) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Port returns the bound TCP port, or 0 if not yet started.
func (s *MockServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	addr, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0
	}
	return addr.Port
}

// Mismatches returns a snapshot of the match attempt log, with
// synthesized MissingRequest entries appended for any interaction that
// was never matched over the server's life (spec §4.3's
// `mismatches(port)`). The snapshot is taken under the log lock and
// released before returning, so a caller reading it during
// ShuttingDown still sees the state at the transition moment (spec
// §4.3).
func (s *MockServer) Mismatches() []MatchAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MatchAttempt, len(s.attempts))
	copy(out, s.attempts)

	for _, interaction := range s.pact.Interactions {
		if interaction.Type != pact.InteractionHTTP {
			continue
		}
		if s.matchCount[interaction.Key()] == 0 {
			out = append(out, MatchAttempt{Kind: MissingRequest, Interaction: interaction})
		}
	}
	return out
}

// Matched reports whether every logged attempt is a RequestMatch and
// every interaction in the pact was matched at least once (spec
// §4.3's `matched(port)`).
func (s *MockServer) Matched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.attempts {
		if a.Kind != RequestMatch {
			return false
		}
	}
	for _, interaction := range s.pact.Interactions {
		if interaction.Type != pact.InteractionHTTP {
			continue
		}
		if s.matchCount[interaction.Key()] == 0 {
			return false
		}
	}
	return true
}

// Shutdown stops accepting connections and drains in-flight requests,
// per ctx's deadline. Moves the server ShuttingDown -> Terminated; a
// no-op if the server isn't Running.
func (s *MockServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return nil
	}
	s.state = StateShuttingDown
	srv := s.httpServer
	s.mu.Unlock()

	err := srv.Shutdown(ctx)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	s.log.Info("mock server stopped", "id", s.id)
	return err
}

func (s *MockServer) appendAttempt(a MatchAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
	if a.Kind == RequestMatch && a.Interaction != nil {
		s.matchCount[a.Interaction.Key()]++
	}
}
