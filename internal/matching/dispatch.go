package matching

import "github.com/pactgo/pact/pkg/pact"

// Attempt records the outcome of testing one interaction against an
// incoming request: zero Mismatches means this interaction matched.
type Attempt struct {
	Interaction *pact.Interaction
	Mismatches  []Mismatch
}

// Dispatch tests an incoming request against every HTTP interaction in
// document order, per spec §4.3's multi-interaction mock server
// behavior: the first interaction with zero mismatches is returned as
// the match; if none matches exactly, every attempt is returned so the
// caller (the mock server's 500 mismatch reporting) can surface the
// nearest candidate — the attempt with the fewest mismatches, ties
// broken by document order.
func Dispatch(interactions []*pact.Interaction, method, path string, query pact.Query, headers *pact.Headers, body pact.OptionalBody) (*pact.Interaction, []Attempt) {
	attempts := make([]Attempt, 0, len(interactions))
	for _, interaction := range interactions {
		if interaction.Type != pact.InteractionHTTP {
			continue
		}
		mismatches := MatchRequest(interaction.Request, method, path, query, headers, body)
		attempts = append(attempts, Attempt{Interaction: interaction, Mismatches: mismatches})
		if len(mismatches) == 0 {
			return interaction, attempts
		}
	}
	return nil, attempts
}

// Nearest returns the attempt with the fewest mismatches, the
// candidate a mock server reports when a request matches nothing
// exactly. Returns false if attempts is empty.
func Nearest(attempts []Attempt) (Attempt, bool) {
	if len(attempts) == 0 {
		return Attempt{}, false
	}
	best := attempts[0]
	for _, a := range attempts[1:] {
		if len(a.Mismatches) < len(best.Mismatches) {
			best = a
		}
	}
	return best, true
}
