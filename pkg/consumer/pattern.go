package consumer

import "github.com/pactgo/pact/pkg/pact"

// Pattern is a value that both produces a concrete JSON-able example
// (used as the literal the mock server sends or returns) and emits
// MatchingRules describing how a real request or response should be
// compared against it (spec §4.6). Plain Go values (strings, numbers,
// maps, slices, nil) are literals and need no Pattern wrapper; Pattern
// is the escape hatch for rule-bearing values.
type Pattern interface {
	// example returns the concrete value substituted into the pact
	// document and into the mock server's recorded request/response.
	example() interface{}
	// emitRule registers this pattern's rule at selector within rules.
	emitRule(rules *pact.MatchingRules, category pact.Category, selector string)
}

// termPattern implements Term(regex, example): match by regular
// expression (spec §4.6).
type termPattern struct {
	regex        string
	exampleValue string
}

// Term declares that a field must match regex; example is the concrete
// value used when the mock server needs a literal (e.g. the path or a
// body field in the generated example).
func Term(regex, example string) Pattern {
	return termPattern{regex: regex, exampleValue: example}
}

// Regex is an alias for Term, matching the name used throughout the
// original pact matcher DSL (pact_mock_server_matchers / most real
// pact consumer code uses both names for the same rule).
func Regex(pattern, example string) Pattern { return Term(pattern, example) }

func (t termPattern) example() interface{} { return t.exampleValue }
func (t termPattern) emitRule(rules *pact.MatchingRules, category pact.Category, selector string) {
	rules.Add(category, selector, pact.Rule{Match: pact.MatchRegex, Regex: t.regex})
}

// typePattern implements SomethingLike(example): match by JSON type,
// ignoring the concrete value (spec §4.6).
type typePattern struct{ value interface{} }

// SomethingLike declares that a field must be present and of the same
// JSON type as example, but its value is otherwise unconstrained.
func SomethingLike(example interface{}) Pattern { return typePattern{value: example} }

// Like is an alias for SomethingLike, the name most real pact consumer
// tests are written against.
func Like(example interface{}) Pattern { return SomethingLike(example) }

func (t typePattern) example() interface{} { return t.value }
func (t typePattern) emitRule(rules *pact.MatchingRules, category pact.Category, selector string) {
	rules.Add(category, selector, pact.Rule{Match: pact.MatchType})
}

// arrayPattern implements ArrayLike(example, min): match by type, with
// the actual array length required to be >= min and every element
// matching example's pattern (spec §4.6).
type arrayPattern struct {
	value interface{}
	min   int
}

// ArrayLike declares an array whose elements each match example's
// pattern (recursively) and whose length is at least min.
func ArrayLike(example interface{}, min int) Pattern {
	if min < 1 {
		min = 1
	}
	return arrayPattern{value: example, min: min}
}

// EachLike is an alias for ArrayLike, the name used throughout the
// original pact matcher DSL.
func EachLike(example interface{}, min int) Pattern { return ArrayLike(example, min) }

func (a arrayPattern) example() interface{} {
	elems := make([]interface{}, a.min)
	for i := range elems {
		elems[i] = resolveExample(a.value)
	}
	return elems
}

func (a arrayPattern) emitRule(rules *pact.MatchingRules, category pact.Category, selector string) {
	min := a.min
	rules.Add(category, selector, pact.Rule{Match: pact.MatchType, Min: &min})
}

func resolveExample(v interface{}) interface{} {
	if p, ok := v.(Pattern); ok {
		return p.example()
	}
	return v
}
