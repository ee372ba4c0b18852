package matching

import "github.com/pactgo/pact/pkg/pact"

// MatchResponse compares a provider's actual response against an
// interaction's expected response, used by verification (spec §4.2)
// rather than by the consumer-side mock server, which always returns
// exactly the expected response and never needs to check one.
func MatchResponse(expected *pact.Response, actualStatus uint16, actualHeaders *pact.Headers, actualBody pact.OptionalBody) []Mismatch {
	var mismatches []Mismatch
	if expected.Status != actualStatus {
		mismatches = append(mismatches, statusMismatch(expected.Status, actualStatus))
	}
	mismatches = append(mismatches, MatchHeaders(expected.Headers, actualHeaders, expected.MatchingRules)...)
	mismatches = append(mismatches, MatchBody(expected.Body, actualBody, expected.MatchingRules)...)
	return mismatches
}
