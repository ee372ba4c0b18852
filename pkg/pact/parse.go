package pact

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes a pact document's raw JSON bytes into a Pact, applying
// the read-time defaults spec §4.1 requires (missing method -> GET,
// missing path -> "/", missing status -> 200, and the four-way body
// state derivation) regardless of which specification version wrote
// the document.
func Parse(data []byte) (*Pact, error) {
	var doc struct {
		Consumer     struct{ Name string } `json:"consumer"`
		Provider     struct{ Name string } `json:"provider"`
		Interactions []json.RawMessage     `json:"interactions"`
		Metadata     map[string]json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pact: malformed document: %w", err)
	}

	spec, err := detectSpecification(doc.Metadata)
	if err != nil {
		return nil, err
	}

	p := NewPact(doc.Consumer.Name, doc.Provider.Name, spec)
	for k, v := range doc.Metadata {
		if k == "pactSpecification" || k == "pact-specification" {
			continue
		}
		var val interface{}
		if err := json.Unmarshal(v, &val); err == nil {
			p.Metadata[k] = val
		}
	}

	for idx, raw := range doc.Interactions {
		interaction, err := parseInteraction(raw, spec)
		if err != nil {
			return nil, fmt.Errorf("pact: interaction %d: %w", idx, err)
		}
		p.Interactions = append(p.Interactions, interaction)
	}
	return p, nil
}

func detectSpecification(metadata map[string]json.RawMessage) (Specification, error) {
	raw, ok := metadata["pactSpecification"]
	if !ok {
		raw, ok = metadata["pact-specification"]
	}
	if !ok {
		return V1, nil
	}
	var versioned struct{ Version string }
	if err := json.Unmarshal(raw, &versioned); err != nil {
		return "", fmt.Errorf("pact: malformed metadata.pactSpecification: %w", err)
	}
	return ParseSpecification(versioned.Version)
}

func parseInteraction(raw json.RawMessage, spec Specification) (*Interaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	i := &Interaction{Type: InteractionHTTP}
	if d, ok := fields["description"]; ok {
		json.Unmarshal(d, &i.Description)
	}
	i.ProviderStates = parseProviderStates(fields, spec)

	_, hasRequest := fields["request"]
	_, hasResponse := fields["response"]
	if !hasRequest && !hasResponse {
		if !spec.SupportsMessages() {
			return nil, &VersionError{Requested: string(spec), Reason: "message interactions require specification 3.0.0"}
		}
		i.Type = InteractionMessage
		if c, ok := fields["contents"]; ok {
			i.MessageContents = parseBodyRaw(c, "")
		} else {
			i.MessageContents = Missing()
		}
		if m, ok := fields["metadata"]; ok {
			var meta map[string]string
			json.Unmarshal(m, &meta)
			i.MessageMetadata = meta
		}
		return i, nil
	}

	req, err := parseRequest(fields["request"], spec)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	resp, err := parseResponse(fields["response"], spec)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	i.Request = req
	i.Response = resp
	return i, nil
}

func parseProviderStates(fields map[string]json.RawMessage, spec Specification) []ProviderState {
	if raw, ok := fields["providerStates"]; ok {
		var states []struct {
			Name   string                 `json:"name"`
			Params map[string]interface{} `json:"params"`
		}
		if err := json.Unmarshal(raw, &states); err == nil {
			out := make([]ProviderState, len(states))
			for i, s := range states {
				out[i] = ProviderState{Name: s.Name, Params: s.Params}
			}
			return out
		}
	}
	if raw, ok := fields["providerState"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil && name != "" {
			return []ProviderState{{Name: name}}
		}
	}
	if raw, ok := fields["provider_state"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil && name != "" {
			return []ProviderState{{Name: name}}
		}
	}
	return nil
}

func parseRequest(raw json.RawMessage, spec Specification) (*Request, error) {
	r := NewRequest()
	if len(raw) == 0 {
		return r, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if m, ok := fields["method"]; ok {
		var method string
		if err := json.Unmarshal(m, &method); err == nil && method != "" {
			r.Method = method
		}
	}
	if p, ok := fields["path"]; ok {
		var path string
		if err := json.Unmarshal(p, &path); err == nil && path != "" {
			r.Path = path
		}
	}
	r.Query = parseQueryField(fields["query"], spec)
	if h, ok := fields["headers"]; ok {
		r.Headers = parseHeadersField(h)
	}
	r.Body = parseBodyField(fields["body"], r.Headers)
	rules, err := parseMatchingRulesField(fields["matchingRules"], spec)
	if err != nil {
		return nil, err
	}
	r.MatchingRules = rules
	return r, nil
}

func parseResponse(raw json.RawMessage, spec Specification) (*Response, error) {
	r := NewResponse()
	if len(raw) == 0 {
		return r, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if s, ok := fields["status"]; ok {
		var status uint16
		if err := json.Unmarshal(s, &status); err == nil {
			r.Status = status
		}
	}
	if h, ok := fields["headers"]; ok {
		r.Headers = parseHeadersField(h)
	}
	r.Body = parseBodyField(fields["body"], r.Headers)
	rules, err := parseMatchingRulesField(fields["matchingRules"], spec)
	if err != nil {
		return nil, err
	}
	r.MatchingRules = rules
	return r, nil
}

// parseQueryField accepts either a raw query string (V1/V1.1) or a
// decoded name -> []values object (V2+), per spec §3, §9.
func parseQueryField(raw json.RawMessage, spec Specification) Query {
	if len(raw) == 0 || string(raw) == "null" {
		return Query{Values: map[string][]string{}}
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return ParseQuery(asString)
	}
	var asMap map[string][]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		if asMap == nil {
			asMap = map[string][]string{}
		}
		return Query{Values: asMap}
	}
	// Some V2 producers write single string values rather than arrays.
	var asFlat map[string]string
	if err := json.Unmarshal(raw, &asFlat); err == nil {
		out := make(map[string][]string, len(asFlat))
		for k, v := range asFlat {
			out[k] = []string{v}
		}
		return Query{Values: out}
	}
	return Query{Values: map[string][]string{}}
}

func parseHeadersField(raw json.RawMessage) *Headers {
	h := NewHeaders()
	var asMultiValue map[string][]string
	if err := json.Unmarshal(raw, &asMultiValue); err == nil {
		for name, values := range asMultiValue {
			h.Set(name, strings.Join(values, ", "))
		}
		return h
	}
	var asFlat map[string]string
	if err := json.Unmarshal(raw, &asFlat); err == nil {
		for name, value := range asFlat {
			h.Set(name, value)
		}
	}
	return h
}

// parseBodyField derives the four-way OptionalBody state from the raw
// "body" field: an absent key is Missing, a JSON `null` is Null, a
// zero-length string is Empty, a non-empty JSON string is Present with
// the decoded string's bytes, and anything else is Present with its
// bytes re-encoded as compact JSON. The declared content type only
// sets the body's mime type.
func parseBodyField(raw json.RawMessage, headers *Headers) OptionalBody {
	if len(raw) == 0 {
		return Missing()
	}
	contentType := ""
	if headers != nil {
		if ct, ok := headers.Get("Content-Type"); ok {
			contentType = ct
		}
	}
	return parseBodyRaw(raw, contentType)
}

func parseBodyRaw(raw json.RawMessage, contentType string) OptionalBody {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return Null()
	}
	if trimmed == `""` {
		return Empty()
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return Present([]byte(asString), contentType)
	}
	if compact, err := json.Marshal(json.RawMessage(trimmed)); err == nil {
		return Present(compact, contentType)
	}
	return Present([]byte(trimmed), contentType)
}

func parseMatchingRulesField(raw json.RawMessage, spec Specification) (*MatchingRules, error) {
	rules := NewMatchingRules()
	if len(raw) == 0 || !spec.SupportsMatchingRules() {
		return rules, nil
	}
	if spec.NestedMatchingRules() {
		return parseMatchingRulesV3(raw)
	}
	return parseMatchingRulesV2(raw)
}

// parseMatchingRulesV2 reads the flat selector -> rule-object map V2
// documents use, inferring each selector's category from its "$.path",
// "$.query", "$.headers"/"$.header" or "$.body" prefix.
func parseMatchingRulesV2(raw json.RawMessage) (*MatchingRules, error) {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("matchingRules: %w", err)
	}
	rules := NewMatchingRules()
	for selector, ruleRaw := range flat {
		cat, ok := categoryForSelector(selector)
		if !ok {
			continue
		}
		rule, err := parseRuleObject(ruleRaw)
		if err != nil {
			return nil, fmt.Errorf("matchingRules[%q]: %w", selector, err)
		}
		rules.Add(cat, selector, rule...)
	}
	return rules, nil
}

// parseMatchingRulesV3 reads the category-nested {"body": {"$.foo":
// {"matchers": [...]}}} shape V3 documents use.
func parseMatchingRulesV3(raw json.RawMessage) (*MatchingRules, error) {
	var byCategory map[string]map[string]struct {
		Matchers []Rule `json:"matchers"`
	}
	if err := json.Unmarshal(raw, &byCategory); err != nil {
		return nil, fmt.Errorf("matchingRules: %w", err)
	}
	rules := NewMatchingRules()
	for catName, selectors := range byCategory {
		cat := Category(catName)
		for selector, entry := range selectors {
			rules.Add(cat, selector, entry.Matchers...)
		}
	}
	return rules, nil
}

func parseRuleObject(raw json.RawMessage) ([]Rule, error) {
	var withMatchers struct {
		Matchers []Rule `json:"matchers"`
	}
	if err := json.Unmarshal(raw, &withMatchers); err == nil && len(withMatchers.Matchers) > 0 {
		return withMatchers.Matchers, nil
	}
	var single Rule
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []Rule{single}, nil
}

func categoryForSelector(selector string) (Category, bool) {
	switch {
	case strings.HasPrefix(selector, "$.path"), selector == "$.path":
		return CategoryPath, true
	case strings.HasPrefix(selector, "$.query"):
		return CategoryQuery, true
	case strings.HasPrefix(selector, "$.headers"), strings.HasPrefix(selector, "$.header"):
		return CategoryHeader, true
	case strings.HasPrefix(selector, "$.body"):
		return CategoryBody, true
	default:
		return "", false
	}
}
