// Package consumer is the fluent Pact-building DSL of spec §4.6: a
// consumer test assembles a Pact out of literal values and Patterns
// (Term, SomethingLike, ArrayLike), the builder drives a mock server
// for the assembled Pact, and on teardown it checks every interaction
// was exercised before writing the pact file, or reports the mismatch
// otherwise.
//
// Method naming (Given, UponReceiving, WithRequest, WillRespondWith)
// follows the vocabulary established by the real
// pact-go consumer DSL so tests written against this package read like
// tests written against any other pact client.
package consumer
