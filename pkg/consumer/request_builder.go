package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/pactgo/pact/pkg/pact"
)

// RequestBuilder assembles the expected request half of an Interaction.
// Every setter accepts either a plain value or a Pattern (Term,
// SomethingLike, ArrayLike); patterned fields register a matching rule
// at the appropriate selector so the generated example doubles as
// matcher documentation (spec §4.6).
type RequestBuilder struct {
	req   *pact.Request
	rules *pact.MatchingRules
}

func newRequestBuilder() *RequestBuilder {
	req := pact.NewRequest()
	req.Query.Values = make(map[string][]string)
	return &RequestBuilder{req: req, rules: pact.NewMatchingRules()}
}

// Method sets the HTTP method. Methods are never subject to matching
// rules (spec §4.2), so method must be a plain string.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.req.Method = method
	return b
}

// Path sets the request path, as a literal string or a Pattern (most
// commonly Term/Regex, to accept any value matching a shape such as
// "/users/\\d+" while recording a concrete example path).
func (b *RequestBuilder) Path(path interface{}) *RequestBuilder {
	b.req.Path = fmt.Sprint(buildValue(pact.CategoryPath, "$.path", path, b.rules))
	return b
}

// Query adds a query parameter. value may be a plain string or a
// Pattern; passing the same name more than once appends additional
// values in call order, matching a repeated query parameter.
func (b *RequestBuilder) Query(name string, value interface{}) *RequestBuilder {
	selector := childSelector("$.query", name)
	rendered := fmt.Sprint(buildValue(pact.CategoryQuery, selector, value, b.rules))
	b.req.Query.Values[name] = append(b.req.Query.Values[name], rendered)
	return b
}

// Header sets a request header. value may be a plain string or a
// Pattern.
func (b *RequestBuilder) Header(name string, value interface{}) *RequestBuilder {
	selector := childSelector("$.header", name)
	rendered := fmt.Sprint(buildValue(pact.CategoryHeader, selector, value, b.rules))
	b.req.Headers.Set(name, rendered)
	return b
}

// JSONBody sets the request body to the JSON encoding of body, which
// may contain Patterns at any depth.
func (b *RequestBuilder) JSONBody(body interface{}) *RequestBuilder {
	concrete := buildValue(pact.CategoryBody, "$.body", body, b.rules)
	data, err := json.Marshal(concrete)
	if err != nil {
		// Only reachable for values json.Marshal itself rejects
		// (channels, funcs); fluent builders have no error return, so
		// the example is recorded as absent rather than panicking a
		// running test.
		b.req.Body = pact.Missing()
		return b
	}
	b.req.Body = pact.Present(data, "application/json")
	return b
}

func (b *RequestBuilder) build() *pact.Request {
	b.req.MatchingRules = b.rules
	return b.req
}
