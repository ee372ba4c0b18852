package mockserver

import (
	"time"

	"github.com/pactgo/pact/internal/matching"
	"github.com/pactgo/pact/pkg/pact"
)

// AttemptKind tags which of the four MatchAttempt variants a log entry
// represents (spec §3).
type AttemptKind int

// MatchAttempt kinds.
const (
	// RequestMatch: the incoming request matched an interaction exactly.
	RequestMatch AttemptKind = iota
	// RequestMismatch: the request matched an interaction on method and
	// path but failed on query/header/body.
	RequestMismatch
	// RequestNotFound: no interaction's method and path matched.
	RequestNotFound
	// MissingRequest: synthesized at snapshot time for an interaction
	// that was never matched successfully over the server's lifetime.
	MissingRequest
)

func (k AttemptKind) String() string {
	switch k {
	case RequestMatch:
		return "RequestMatch"
	case RequestMismatch:
		return "RequestMismatch"
	case RequestNotFound:
		return "RequestNotFound"
	case MissingRequest:
		return "MissingRequest"
	default:
		return "Unknown"
	}
}

// MatchAttempt is one entry in a MockServer's append-only log: the
// outcome of dispatching one incoming request against the server's
// pact, or (MissingRequest) an interaction synthesized at snapshot
// time because it was never exercised.
type MatchAttempt struct {
	Kind        AttemptKind
	Time        time.Time
	Method      string
	Path        string
	Interaction *pact.Interaction
	Mismatches  []matching.Mismatch
}

// attemptJSON is the wire shape written as the body of a 500 response
// when an incoming request doesn't match (spec §6: "the JSON-
// serialized mismatch record as body").
type attemptJSON struct {
	Type        string         `json:"type"`
	Method      string         `json:"method,omitempty"`
	Path        string         `json:"path,omitempty"`
	Description string         `json:"interactionDescription,omitempty"`
	Mismatches  []mismatchJSON `json:"mismatches,omitempty"`
}

type mismatchJSON struct {
	Kind     string `json:"type"`
	Path     string `json:"path,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func toAttemptJSON(a MatchAttempt) attemptJSON {
	out := attemptJSON{
		Type:   a.Kind.String(),
		Method: a.Method,
		Path:   a.Path,
	}
	if a.Interaction != nil {
		out.Description = a.Interaction.Description
	}
	for _, m := range a.Mismatches {
		out.Mismatches = append(out.Mismatches, mismatchJSON{
			Kind:     m.Kind.String(),
			Path:     m.Path,
			Expected: m.Expected,
			Actual:   m.Actual,
		})
	}
	return out
}
