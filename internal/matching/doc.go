// Package matching implements pact interaction matching: comparing an
// incoming HTTP request, and for provider verification a response,
// against the expectations recorded in a pact.Interaction.
//
// Matching never collapses to a single match/no-match boolean. Every
// comparison produces a (possibly empty) list of Mismatch values, one
// per location that failed to satisfy the expectation, so a mock
// server or verification report can explain exactly why a request or
// response didn't match (method.go, path.go, query.go, header.go) and
// why a body didn't (body.go dispatches to body_json.go, body_xml.go
// or body_text.go by content type).
//
// Matching rules (pact.MatchingRules) attach regex/type/equality/
// include/min/max directives to JSON-Path-like selectors; selector.go
// resolves which rule, if any, governs a concrete location using the
// most-specific-selector-wins rule with document-order tiebreaking.
// JSONPath evaluation for selectors that span arrays uses
// github.com/ohler55/ojg/jp; XML body comparison uses
// github.com/beevik/etree.
//
// dispatch.go ties per-field matching together: Dispatch walks a pact
// document's interactions in order and returns the first exact match,
// or every attempt so the caller can report the nearest miss.
package matching
