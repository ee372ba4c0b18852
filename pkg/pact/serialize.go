package pact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// orderedField is one key/value pair in a manually-ordered JSON object.
// encoding/json always sorts map[string]any keys alphabetically, which
// scrambles the field order Pact documents are conventionally written
// in (consumer, provider, interactions, metadata, ...); building the
// object byte-by-byte keeps output stable and diff-friendly across
// write_pact calls, matching spec §4.1's idempotent-write requirement.
type orderedField struct {
	key   string
	value interface{}
}

func marshalOrdered(fields ...orderedField) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		raw, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("pact: marshal field %q: %w", f.key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyRaw, _ := json.Marshal(f.key)
		buf.Write(keyRaw)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal serializes a full Pact document in the field order and shape
// appropriate to its Specification, suitable for writing to a .json
// pact file (spec §4.1, §6).
func Marshal(p *Pact) ([]byte, error) {
	interactions := make([]json.RawMessage, len(p.Interactions))
	for i, interaction := range p.Interactions {
		raw, err := MarshalInteraction(interaction, p.Specification)
		if err != nil {
			return nil, fmt.Errorf("pact: interaction %d (%q): %w", i, interaction.Description, err)
		}
		interactions[i] = raw
	}

	metadata := map[string]interface{}{}
	for k, v := range p.Metadata {
		metadata[k] = v
	}
	metadata["pactSpecification"] = map[string]string{"version": string(p.Specification)}

	return marshalOrdered(
		orderedField{"consumer", map[string]string{"name": p.Consumer}},
		orderedField{"provider", map[string]string{"name": p.Provider}},
		orderedField{"interactions", interactions},
		orderedField{"metadata", metadata},
	)
}

// MarshalInteraction serializes a single Interaction the way it is
// embedded in a Pact document's "interactions" array.
func MarshalInteraction(i *Interaction, spec Specification) ([]byte, error) {
	if i.Type == InteractionMessage {
		return marshalMessageInteraction(i, spec)
	}

	reqRaw, err := marshalRequest(i.Request, spec)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	respRaw, err := marshalResponse(i.Response, spec)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	fields := []orderedField{{"description", i.Description}}
	if ps := marshalProviderStates(i.ProviderStates, spec); ps != nil {
		if spec == V3 {
			fields = append(fields, orderedField{"providerStates", ps})
		} else {
			fields = append(fields, orderedField{"providerState", ps})
		}
	}
	fields = append(fields,
		orderedField{"request", json.RawMessage(reqRaw)},
		orderedField{"response", json.RawMessage(respRaw)},
	)
	return marshalOrdered(fields...)
}

func marshalMessageInteraction(i *Interaction, spec Specification) ([]byte, error) {
	fields := []orderedField{{"description", i.Description}}
	if ps := marshalProviderStates(i.ProviderStates, spec); ps != nil {
		fields = append(fields, orderedField{"providerStates", ps})
	}
	if i.MessageContents.IsPresent() || i.MessageContents.IsEmpty() {
		fields = append(fields, orderedField{"contents", json.RawMessage(i.MessageContents.Bytes())})
	} else if i.MessageContents.IsNull() {
		fields = append(fields, orderedField{"contents", json.RawMessage("null")})
	}
	if len(i.MessageMetadata) > 0 {
		fields = append(fields, orderedField{"metadata", i.MessageMetadata})
	}
	if rules := marshalMatchingRulesV3(matchingRulesOf(i.Response)); rules != nil {
		fields = append(fields, orderedField{"matchingRules", rules})
	}
	return marshalOrdered(fields...)
}

func matchingRulesOf(r *Response) *MatchingRules {
	if r == nil {
		return nil
	}
	return r.MatchingRules
}

// marshalProviderStates returns nil when there are no states to write,
// a bare string for the legacy single-state V1/V2 field, or a list of
// {name, params} objects for V3.
func marshalProviderStates(states []ProviderState, spec Specification) interface{} {
	if len(states) == 0 {
		return nil
	}
	if spec != V3 {
		return states[0].Name
	}
	out := make([]map[string]interface{}, len(states))
	for i, s := range states {
		entry := map[string]interface{}{"name": s.Name}
		if len(s.Params) > 0 {
			entry["params"] = s.Params
		}
		out[i] = entry
	}
	return out
}

func marshalRequest(r *Request, spec Specification) ([]byte, error) {
	fields := []orderedField{
		{"method", r.CanonicalMethod()},
		{"path", r.Path},
	}
	if q := marshalQuery(r.Query, spec); q != nil {
		fields = append(fields, orderedField{"query", q})
	}
	if r.Headers.Len() > 0 {
		fields = append(fields, orderedField{"headers", r.Headers})
	}
	if body := marshalBody(r.Body); body != nil {
		fields = append(fields, orderedField{"body", json.RawMessage(body)})
	}
	if rules := marshalMatchingRules(r.MatchingRules, spec); rules != nil {
		fields = append(fields, orderedField{"matchingRules", rules})
	}
	return marshalOrdered(fields...)
}

func marshalResponse(r *Response, spec Specification) ([]byte, error) {
	fields := []orderedField{{"status", r.Status}}
	if r.Headers.Len() > 0 {
		fields = append(fields, orderedField{"headers", r.Headers})
	}
	if body := marshalBody(r.Body); body != nil {
		fields = append(fields, orderedField{"body", json.RawMessage(body)})
	}
	if rules := marshalMatchingRules(r.MatchingRules, spec); rules != nil {
		fields = append(fields, orderedField{"matchingRules", rules})
	}
	return marshalOrdered(fields...)
}

func marshalBody(b OptionalBody) []byte {
	switch b.State() {
	case BodyMissing:
		return nil
	case BodyNull:
		return []byte("null")
	case BodyEmpty:
		return []byte(`""`)
	default:
		if json.Valid(b.Bytes()) {
			return b.Bytes()
		}
		raw, _ := json.Marshal(string(b.Bytes()))
		return raw
	}
}

// marshalQuery renders the query the way each specification version
// expects it on the wire: V1/V1.1 as the raw string, V2+ as a decoded
// name -> []values object (spec §3, §9 "flatten vs preserve").
func marshalQuery(q Query, spec Specification) interface{} {
	if q.IsEmpty() {
		return nil
	}
	if spec == V1 || spec == V1_1 {
		return q.Raw
	}
	return q.Values
}

func marshalMatchingRules(rules *MatchingRules, spec Specification) interface{} {
	if rules.IsEmpty() {
		return nil
	}
	if spec.NestedMatchingRules() {
		return marshalMatchingRulesV3(rules)
	}
	return marshalMatchingRulesV2(rules)
}

// marshalMatchingRulesV2 flattens every category into one selector ->
// rule object map, as V2 pact documents do.
func marshalMatchingRulesV2(rules *MatchingRules) map[string]interface{} {
	out := map[string]interface{}{}
	for _, cat := range sortedCategories(rules) {
		for _, entry := range rules.Entries(cat) {
			if len(entry.Rules) == 0 {
				continue
			}
			out[entry.Selector] = entry.Rules[0]
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// marshalMatchingRulesV3 groups rules by category, each selector
// carrying a "matchers" array, as V3 pact documents do.
func marshalMatchingRulesV3(rules *MatchingRules) map[string]interface{} {
	out := map[string]interface{}{}
	for _, cat := range sortedCategories(rules) {
		bucket := map[string]interface{}{}
		for _, entry := range rules.Entries(cat) {
			bucket[entry.Selector] = map[string]interface{}{"matchers": entry.Rules}
		}
		if len(bucket) > 0 {
			out[string(cat)] = bucket
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedCategories(rules *MatchingRules) []Category {
	cats := rules.Categories()
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
