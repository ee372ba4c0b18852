package mockserver

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pactgo/pact/internal/matching"
	"github.com/pactgo/pact/pkg/httputil"
	"github.com/pactgo/pact/pkg/pact"
)

// handler returns the http.Handler that serves every request against
// the server's pact, recovering from panics in request processing so
// one malformed request can't take the whole mock server down (spec
// §7: "a panicking listener thread must be caught at the boundary").
func (s *MockServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("mock server request panicked", "id", s.id, "panic", rec)
				writeMismatchBody(w, http.StatusInternalServerError, MatchAttempt{
					Kind: RequestNotFound, Method: r.Method, Path: r.URL.Path,
				})
			}
		}()
		s.serve(w, r)
	})
}

func (s *MockServer) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		// Parse errors from the transport layer yield 400 and a
		// RequestNotFound log entry with a synthetic request (spec §4.3).
		attempt := MatchAttempt{Kind: RequestNotFound, Time: time.Now(), Method: r.Method, Path: r.URL.Path}
		s.appendAttempt(attempt)
		writeMismatchBody(w, http.StatusBadRequest, attempt)
		return
	}

	actualHeaders := pact.NewHeaders()
	for name := range r.Header {
		actualHeaders.Set(name, r.Header.Get(name))
	}
	actualQuery := pact.ParseQuery(r.URL.RawQuery)
	actualBody := requestBody(body, actualHeaders)

	matched, attempts := matching.Dispatch(s.pact.Interactions, r.Method, r.URL.Path, actualQuery, actualHeaders, actualBody)

	if matched != nil {
		attempt := MatchAttempt{Kind: RequestMatch, Time: time.Now(), Method: r.Method, Path: r.URL.Path, Interaction: matched}
		s.appendAttempt(attempt)
		writeResponse(w, matched.Response)
		return
	}

	attempt := classify(attempts, r.Method, r.URL.Path)
	s.appendAttempt(attempt)
	writeMismatchBody(w, http.StatusInternalServerError, attempt)
}

// classify applies spec §4.2's multi-interaction dispatch policy to a
// failed Dispatch call: among the candidates whose method and path
// matched (i.e. carry no MismatchMethod/MismatchPath entry), the one
// with the fewest remaining mismatches wins, ties broken by document
// order; if no candidate's method and path matched, the request is
// RequestNotFound rather than a mismatch against anything.
func classify(attempts []matching.Attempt, method, path string) MatchAttempt {
	var best *matching.Attempt
	for i := range attempts {
		if hasMethodOrPathMismatch(attempts[i].Mismatches) {
			continue
		}
		if best == nil || len(attempts[i].Mismatches) < len(best.Mismatches) {
			best = &attempts[i]
		}
	}
	if best == nil {
		return MatchAttempt{Kind: RequestNotFound, Time: time.Now(), Method: method, Path: path}
	}
	return MatchAttempt{
		Kind: RequestMismatch, Time: time.Now(), Method: method, Path: path,
		Interaction: best.Interaction, Mismatches: best.Mismatches,
	}
}

func hasMethodOrPathMismatch(mismatches []matching.Mismatch) bool {
	for _, m := range mismatches {
		if m.Kind == matching.MismatchMethod || m.Kind == matching.MismatchPath {
			return true
		}
	}
	return false
}

func requestBody(raw []byte, headers *pact.Headers) pact.OptionalBody {
	if len(raw) == 0 {
		return pact.Missing()
	}
	contentType, _ := headers.Get("Content-Type")
	return pact.Present(raw, contentType)
}

func writeResponse(w http.ResponseWriter, resp *pact.Response) {
	for _, name := range resp.Headers.Names() {
		value, _ := resp.Headers.Get(name)
		w.Header().Set(name, value)
	}
	status := int(resp.Status)
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Body.IsPresent() {
		w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body.Bytes())))
	}
	w.WriteHeader(status)
	if resp.Body.IsPresent() {
		_, _ = w.Write(resp.Body.Bytes())
	}
}

// writeMismatchBody writes the JSON-serialized mismatch record mandated
// by spec §6 for non-matching requests: "500 Internal Server Error
// with Content-Type: application/json and the JSON-serialized
// mismatch record as body" (400 instead of 500 for transport parse
// failures).
func writeMismatchBody(w http.ResponseWriter, status int, a MatchAttempt) {
	w.Header().Set("X-Pact-Unrecognized-Request", "true")
	httputil.WriteJSON(w, status, toAttemptJSON(a))
}

