package controlapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pactgo/pact/pkg/httputil"
	"github.com/pactgo/pact/pkg/mockserver"
	"github.com/pactgo/pact/pkg/pact"
	"github.com/pactgo/pact/pkg/registry"
)

// mockServerStatus is the JSON shape returned for one mock server by
// GET / and GET /mockserver/{id} (spec §4.5, §6).
type mockServerStatus struct {
	ID       string `json:"id"`
	Port     int    `json:"port"`
	Consumer string `json:"consumer"`
	Provider string `json:"provider"`
	State    string `json:"state"`
	Matched  bool   `json:"matched"`
	BaseURL  string `json:"baseUrl"`
}

func statusOf(srv *mockserver.MockServer) mockServerStatus {
	p := srv.Pact()
	return mockServerStatus{
		ID:       srv.ID(),
		Port:     srv.Port(),
		Consumer: p.Consumer,
		Provider: p.Provider,
		State:    srv.State().String(),
		Matched:  srv.Matched(),
		BaseURL:  srv.BaseURL(),
	}
}

// handleList implements `GET /`: lists every live mock server (spec
// §4.5).
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var out []mockServerStatus
	s.registry.Iterate(func(srv *mockserver.MockServer) {
		out = append(out, statusOf(srv))
	})
	httputil.WriteJSON(w, http.StatusOK, out)
}

// handleCreate implements `POST /`: parses a pact document from the
// request body, starts a mock server for it, and responds with its id
// and port, setting Location to the new resource (spec §4.5).
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}
	p, err := pact.Parse(body)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}

	desiredPort := 0
	if raw := r.URL.Query().Get("port"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			desiredPort = n
		}
	}

	ctx, cancel := withTimeout()
	defer cancel()
	id, port, err := s.registry.Start(ctx, p, desiredPort, mockserver.WithLogger(s.log))
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}

	w.Header().Set("Location", "/mockserver/"+id)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "port": port})
}

// handleGet implements `GET /mockserver/{id}`: snapshots one server's
// status (spec §4.5).
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	srv, err := s.lookup(r.PathValue("id"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, errorBody(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusOf(srv))
}

// handleVerify implements `POST /mockserver/{id}/verify`: equivalent
// to reading mismatches() and, if clean, calling write_pact (spec
// §4.5). Responds 200 with the server's status on a clean
// verification, 422 with the mismatch list otherwise.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	srv, err := s.lookup(r.PathValue("id"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, errorBody(err))
		return
	}

	if !srv.Matched() {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"mockServer": statusOf(srv),
			"mismatches": mismatchesJSON(srv.Mismatches()),
		})
		return
	}

	if err := srv.WritePact(s.pactDir); err != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusOf(srv))
}

// handleDelete implements `DELETE /mockserver/{id}`: shuts the server
// down and removes it from the registry (spec §4.5).
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	srv, err := s.lookup(id)
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, errorBody(err))
		return
	}

	ctx, cancel := withTimeout()
	defer cancel()
	if _, err := s.registry.Remove(ctx, srv.ID()); err != nil {
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, errorBody(err))
		return
	}
	httputil.WriteNoContent(w)
}

// lookup resolves the id path segment, which is either a UUID or a
// decimal port number, distinguished by whether every character is a
// digit (spec §4.5).
func (s *Server) lookup(id string) (*mockserver.MockServer, error) {
	if isAllDigits(id) {
		port, err := strconv.Atoi(id)
		if err != nil {
			return nil, &registry.UnknownMockServer{Key: id}
		}
		return s.registry.LookupByPort(port)
	}
	return s.registry.LookupByID(id)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func mismatchesJSON(attempts []mockserver.MatchAttempt) []map[string]any {
	out := make([]map[string]any, 0, len(attempts))
	for _, a := range attempts {
		entry := map[string]any{"type": a.Kind.String(), "method": a.Method, "path": a.Path}
		if a.Interaction != nil {
			entry["interactionDescription"] = a.Interaction.Description
		}
		if len(a.Mismatches) > 0 {
			mismatches := make([]map[string]any, 0, len(a.Mismatches))
			for _, m := range a.Mismatches {
				mismatches = append(mismatches, map[string]any{
					"type": m.Kind.String(), "path": m.Path, "expected": m.Expected, "actual": m.Actual,
				})
			}
			entry["mismatches"] = mismatches
		}
		out = append(out, entry)
	}
	return out
}

