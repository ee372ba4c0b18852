package matching

import (
	"testing"

	"github.com/pactgo/pact/pkg/pact"
	"github.com/stretchr/testify/assert"
)

func TestMatchMethod(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{"exact match GET", "GET", "GET", true},
		{"case insensitive", "get", "GET", true},
		{"mismatch", "GET", "POST", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mismatches := MatchMethod(tt.expected, tt.actual)
			if tt.want {
				assert.Empty(t, mismatches)
			} else {
				assert.Len(t, mismatches, 1)
				assert.Equal(t, MismatchMethod, mismatches[0].Kind)
			}
		})
	}
}

func TestMatchPath(t *testing.T) {
	assert.Empty(t, MatchPath("/api/users", "/api/users", nil))
	mismatches := MatchPath("/api/users", "/api/other", nil)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, MismatchPath, mismatches[0].Kind)
}

func TestMatchPathRegexRule(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryPath, "$.path", pact.Rule{Match: pact.MatchRegex, Regex: `^/api/users/\d+$`})
	assert.Empty(t, MatchPath("/api/users/1", "/api/users/42", rules))
	assert.NotEmpty(t, MatchPath("/api/users/1", "/api/users/abc", rules))
}

func TestMatchQuery_IgnoresParamOrder(t *testing.T) {
	expected := pact.ParseQuery("a=1&b=2")
	actual := pact.ParseQuery("b=2&a=1")
	assert.Empty(t, MatchQuery(expected, actual, nil))
}

func TestMatchQuery_MissingParam(t *testing.T) {
	expected := pact.ParseQuery("a=1&b=2")
	actual := pact.ParseQuery("a=1")
	mismatches := MatchQuery(expected, actual, nil)
	assert.NotEmpty(t, mismatches)
}

func TestMatchQuery_ExtraParamRejected(t *testing.T) {
	expected := pact.ParseQuery("a=1")
	actual := pact.ParseQuery("a=1&b=2")
	mismatches := MatchQuery(expected, actual, nil)
	assert.NotEmpty(t, mismatches)
}

func TestMatchQuery_ExtraParamsToleratedWhenNoneExpected(t *testing.T) {
	expected := pact.ParseQuery("")
	actual := pact.ParseQuery("a=1&b=2")
	assert.Empty(t, MatchQuery(expected, actual, nil))
}

func TestMatchHeaders(t *testing.T) {
	expected := pact.NewHeaders()
	expected.Set("Content-Type", "application/json")
	actual := pact.NewHeaders()
	actual.Set("content-type", "application/json")
	actual.Set("X-Extra", "ignored")
	assert.Empty(t, MatchHeaders(expected, actual, nil))
}

func TestMatchHeaders_WhitespaceAfterCommaTolerated(t *testing.T) {
	expected := pact.NewHeaders()
	expected.Set("Accept", "alligators,hippos")
	actual := pact.NewHeaders()
	actual.Set("Accept", "alligators, hippos")
	assert.Empty(t, MatchHeaders(expected, actual, nil))
}

func TestMatchHeaders_OrderWithinListSignificant(t *testing.T) {
	expected := pact.NewHeaders()
	expected.Set("Accept", "alligators, hippos")
	actual := pact.NewHeaders()
	actual.Set("Accept", "hippos, alligators")
	mismatches := MatchHeaders(expected, actual, nil)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, MismatchHeader, mismatches[0].Kind)
}

func TestMatchHeaders_Missing(t *testing.T) {
	expected := pact.NewHeaders()
	expected.Set("Authorization", "Bearer xyz")
	actual := pact.NewHeaders()
	mismatches := MatchHeaders(expected, actual, nil)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, MismatchHeader, mismatches[0].Kind)
}

func TestMatchJSONBody_TypeMatcher(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.id", pact.Rule{Match: pact.MatchType})

	expected := []byte(`{"id": 1, "name": "Alice"}`)
	actual := []byte(`{"id": 999, "name": "Alice"}`)
	assert.Empty(t, MatchJSONBody(expected, actual, rules))
}

func TestMatchJSONBody_MissingKey(t *testing.T) {
	expected := []byte(`{"id": 1, "name": "Alice"}`)
	actual := []byte(`{"id": 1}`)
	mismatches := MatchJSONBody(expected, actual, pact.NewMatchingRules())
	assert.NotEmpty(t, mismatches)
	assert.Equal(t, MismatchBodyMissingKey, mismatches[0].Kind)
}

func TestMatchJSONBody_ExtraKeyIgnored(t *testing.T) {
	expected := []byte(`{"id": 1}`)
	actual := []byte(`{"id": 1, "extra": true}`)
	assert.Empty(t, MatchJSONBody(expected, actual, pact.NewMatchingRules()))
}

func TestMatchJSONBody_EachLike(t *testing.T) {
	rules := pact.NewMatchingRules()
	minLen := 1
	rules.Add(pact.CategoryBody, "$.body.items", pact.Rule{Match: pact.MatchType, Min: &minLen})

	expected := []byte(`{"items": [{"id": 1}]}`)
	actual := []byte(`{"items": [{"id": 1}, {"id": 2}, {"id": 3}]}`)
	assert.Empty(t, MatchJSONBody(expected, actual, rules))
}

func TestMatchJSONBody_EachLikeTooShort(t *testing.T) {
	rules := pact.NewMatchingRules()
	minLen := 2
	rules.Add(pact.CategoryBody, "$.body.items", pact.Rule{Match: pact.MatchType, Min: &minLen})

	expected := []byte(`{"items": [{"id": 1}]}`)
	actual := []byte(`{"items": []}`)
	mismatches := MatchJSONBody(expected, actual, rules)
	assert.NotEmpty(t, mismatches)
}

func TestMatchXMLBody(t *testing.T) {
	expected := []byte(`<root><name>Alice</name></root>`)
	actual := []byte(`<root><name>Alice</name></root>`)
	assert.Empty(t, MatchXMLBody(expected, actual, pact.NewMatchingRules()))
}

func TestMatchXMLBody_Mismatch(t *testing.T) {
	expected := []byte(`<root><name>Alice</name></root>`)
	actual := []byte(`<root><name>Bob</name></root>`)
	assert.NotEmpty(t, MatchXMLBody(expected, actual, pact.NewMatchingRules()))
}

func TestMatchTextBody(t *testing.T) {
	assert.Empty(t, MatchTextBody([]byte("hello"), []byte("hello"), pact.NewMatchingRules()))
	assert.NotEmpty(t, MatchTextBody([]byte("hello"), []byte("goodbye"), pact.NewMatchingRules()))
}

func TestMatchBody_MissingMeansUnconstrained(t *testing.T) {
	assert.Empty(t, MatchBody(pact.Missing(), pact.Present([]byte("anything"), "text/plain"), pact.NewMatchingRules()))
}

func TestMatchBody_NullMustBeNull(t *testing.T) {
	assert.Empty(t, MatchBody(pact.Null(), pact.Null(), pact.NewMatchingRules()))
	assert.NotEmpty(t, MatchBody(pact.Null(), pact.Present([]byte("x"), "text/plain"), pact.NewMatchingRules()))
}

func TestDispatch_FirstExactMatchWins(t *testing.T) {
	reqA := pact.NewRequest()
	reqA.Path = "/a"
	reqB := pact.NewRequest()
	reqB.Path = "/b"
	interactions := []*pact.Interaction{
		{Type: pact.InteractionHTTP, Description: "a", Request: reqA, Response: pact.NewResponse()},
		{Type: pact.InteractionHTTP, Description: "b", Request: reqB, Response: pact.NewResponse()},
	}

	matched, attempts := Dispatch(interactions, "GET", "/b", pact.Query{Values: map[string][]string{}}, pact.NewHeaders(), pact.Missing())
	assert.NotNil(t, matched)
	assert.Equal(t, "b", matched.Description)
	assert.Len(t, attempts, 2)
}

func TestDispatch_NoMatchReturnsNearest(t *testing.T) {
	req := pact.NewRequest()
	req.Path = "/orders"
	interactions := []*pact.Interaction{
		{Type: pact.InteractionHTTP, Description: "orders", Request: req, Response: pact.NewResponse()},
	}

	matched, attempts := Dispatch(interactions, "POST", "/orders", pact.Query{Values: map[string][]string{}}, pact.NewHeaders(), pact.Missing())
	assert.Nil(t, matched)
	nearest, ok := Nearest(attempts)
	assert.True(t, ok)
	assert.NotEmpty(t, nearest.Mismatches)
}
