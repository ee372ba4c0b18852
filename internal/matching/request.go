package matching

import "github.com/pactgo/pact/pkg/pact"

// MatchRequest compares an incoming request against an interaction's
// expected request, gathering mismatches from every category rather
// than stopping at the first failure, so a MockServer can report the
// complete reason a request didn't match (spec §4.2, §6).
func MatchRequest(expected *pact.Request, actualMethod, actualPath string, actualQuery pact.Query, actualHeaders *pact.Headers, actualBody pact.OptionalBody) []Mismatch {
	var mismatches []Mismatch
	mismatches = append(mismatches, MatchMethod(expected.CanonicalMethod(), actualMethod)...)
	mismatches = append(mismatches, MatchPath(expected.Path, actualPath, expected.MatchingRules)...)
	mismatches = append(mismatches, MatchQuery(expected.Query, actualQuery, expected.MatchingRules)...)
	mismatches = append(mismatches, MatchHeaders(expected.Headers, actualHeaders, expected.MatchingRules)...)
	mismatches = append(mismatches, MatchBody(expected.Body, actualBody, expected.MatchingRules)...)
	return mismatches
}
