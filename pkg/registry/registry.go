// Package registry holds the process-wide (or, for parallel test
// suites, per-instance) store of running mock servers, keyed by both
// UUID and port, per spec §4.4.
//
// All access is serialized by a single mutex; callbacks passed to
// Iterate run with the lock held, so they must not block or call back
// into the registry (spec §4.4's "must not block or re-enter").
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/pactgo/pact/pkg/mockserver"
	"github.com/pactgo/pact/pkg/pact"
)

// UnknownMockServer reports a lookup miss by id or port.
type UnknownMockServer struct {
	Key string
}

func (e *UnknownMockServer) Error() string {
	return fmt.Sprintf("registry: no mock server for %q", e.Key)
}

// Registry maps mock server UUIDs and ports to running MockServers.
// The zero value is not usable; construct with New or use Global.
type Registry struct {
	mu     sync.Mutex
	byID   map[string]*mockserver.MockServer
	byPort map[int]string
}

// New returns an isolated Registry instance, for test suites that want
// to run mock servers without contending on the global registry (spec
// §9: "to parallelize across tests, allow an isolated-registry mode").
func New() *Registry {
	return &Registry{
		byID:   make(map[string]*mockserver.MockServer),
		byPort: make(map[int]string),
	}
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry singleton, lazily
// initialized on first use (spec §9).
func Global() *Registry {
	globalOnce.Do(func() { global = New() })
	return global
}

// Start creates a MockServer for p, binds it to desiredPort (0 for an
// OS-assigned port), registers it, and returns its id and assigned
// port. On failure to bind, nothing is registered.
func (r *Registry) Start(ctx context.Context, p *pact.Pact, desiredPort int, opts ...mockserver.Option) (id string, port int, err error) {
	srv := mockserver.New(p, opts...)
	port, err = srv.Start(ctx, desiredPort)
	if err != nil {
		return "", 0, err
	}

	r.mu.Lock()
	r.byID[srv.ID()] = srv
	r.byPort[port] = srv.ID()
	r.mu.Unlock()

	return srv.ID(), port, nil
}

// LookupByID returns the mock server registered under id, or
// *UnknownMockServer if none is.
func (r *Registry) LookupByID(id string) (*mockserver.MockServer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	srv, ok := r.byID[id]
	if !ok {
		return nil, &UnknownMockServer{Key: id}
	}
	return srv, nil
}

// LookupByPort returns the mock server bound to port, or
// *UnknownMockServer if none is.
func (r *Registry) LookupByPort(port int) (*mockserver.MockServer, error) {
	r.mu.Lock()
	id, ok := r.byPort[port]
	r.mu.Unlock()
	if !ok {
		return nil, &UnknownMockServer{Key: fmt.Sprintf("port %d", port)}
	}
	return r.LookupByID(id)
}

// Iterate invokes fn once per registered mock server, in no particular
// order, while holding the registry lock. fn must not block or call
// back into the Registry (spec §4.4).
func (r *Registry) Iterate(fn func(*mockserver.MockServer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, srv := range r.byID {
		fn(srv)
	}
}

// Remove shuts down the mock server registered under id and removes it
// from the registry, returning true if one was found. Shutdown is
// invoked outside the registry lock so a slow listener drain cannot
// stall other registry operations.
func (r *Registry) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	srv, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
		delete(r.byPort, srv.Port())
	}
	r.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, srv.Shutdown(ctx)
}

// ShutdownAll stops and removes every registered mock server. Intended
// for test teardown and process exit, per spec §9's "teardown through
// shutdown_all".
func (r *Registry) ShutdownAll(ctx context.Context) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_, _ = r.Remove(ctx, id)
	}
}

// Len returns the number of registered mock servers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
