package pact

import (
	"encoding/json"
	"strings"
)

// Headers is a case-insensitive mapping from header name to raw string
// value, preserving the original-case key the document declared for
// serialization while comparing names case-insensitively, per spec §3.
type Headers struct {
	// order preserves insertion order for stable serialization.
	order  []string
	values map[string]string // keyed by canonical (lowercased) name
	names  map[string]string // canonical -> original-case name
}

// NewHeaders returns an empty header set.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string), names: make(map[string]string)}
}

// Set adds or replaces a header value, keyed case-insensitively.
func (h *Headers) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
		h.names = make(map[string]string)
	}
	key := strings.ToLower(name)
	if _, exists := h.values[key]; !exists {
		h.order = append(h.order, key)
	}
	h.values[key] = value
	h.names[key] = name
}

// Get returns a header's value and whether it was present, matching
// name case-insensitively.
func (h *Headers) Get(name string) (string, bool) {
	if h == nil || h.values == nil {
		return "", false
	}
	v, ok := h.values[strings.ToLower(name)]
	return v, ok
}

// Names returns the header names in declaration order, using each
// header's original case.
func (h *Headers) Names() []string {
	if h == nil {
		return nil
	}
	out := make([]string, 0, len(h.order))
	for _, key := range h.order {
		out = append(out, h.names[key])
	}
	return out
}

// Len reports the number of distinct headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.values)
}

// Clone returns an independent copy of the header set.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return nil
	}
	out := NewHeaders()
	for _, key := range h.order {
		out.Set(h.names[key], h.values[key])
	}
	return out
}

// MarshalJSON serializes headers as a flat name->value object using
// each header's original-case name.
func (h *Headers) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, h.Len())
	for _, key := range h.order {
		m[h.names[key]] = h.values[key]
	}
	return json.Marshal(m)
}

// UnmarshalJSON populates headers from a flat name->value object. The
// object is decoded through a Go map, so the resulting declaration
// order follows map iteration, not the key order of the document;
// headers compare by name, not position.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*h = *NewHeaders()
	for name, value := range m {
		h.Set(name, value)
	}
	return nil
}
