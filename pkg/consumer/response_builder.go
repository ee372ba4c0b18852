package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/pactgo/pact/pkg/pact"
)

// ResponseBuilder assembles the expected response half of an
// Interaction — the canned response the mock server returns, and the
// rules a verifying provider's real response must satisfy.
type ResponseBuilder struct {
	resp  *pact.Response
	rules *pact.MatchingRules
}

func newResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{resp: pact.NewResponse(), rules: pact.NewMatchingRules()}
}

// Status sets the response status code.
func (b *ResponseBuilder) Status(status int) *ResponseBuilder {
	b.resp.Status = uint16(status)
	return b
}

// Header sets a response header. value may be a plain string or a
// Pattern.
func (b *ResponseBuilder) Header(name string, value interface{}) *ResponseBuilder {
	selector := childSelector("$.header", name)
	rendered := fmt.Sprint(buildValue(pact.CategoryHeader, selector, value, b.rules))
	b.resp.Headers.Set(name, rendered)
	return b
}

// JSONBody sets the response body to the JSON encoding of body, which
// may contain Patterns at any depth.
func (b *ResponseBuilder) JSONBody(body interface{}) *ResponseBuilder {
	concrete := buildValue(pact.CategoryBody, "$.body", body, b.rules)
	data, err := json.Marshal(concrete)
	if err != nil {
		b.resp.Body = pact.Missing()
		return b
	}
	b.resp.Body = pact.Present(data, "application/json")
	return b
}

func (b *ResponseBuilder) build() *pact.Response {
	b.resp.MatchingRules = b.rules
	return b.resp
}
