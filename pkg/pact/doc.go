// Package pact provides the typed document model for consumer-driven
// contracts: Pact, Interaction, Request, Response, OptionalBody and
// MatchingRules, along with parsing and canonical serialization across
// the V1, V1.1, V2 and V3 pact specification versions.
//
// The model is deliberately passive: it does not start servers or talk
// HTTP. internal/matching consumes these types to compare expected and
// actual request/response parts; pkg/mockserver consumes them to drive
// a listener; pkg/consumer produces them from a fluent builder.
package pact
