package pact

import (
	"net/url"
	"strings"
)

// Query represents a request's query string. Raw preserves the exact
// string as written (needed for V1/V1.1 byte-equality matching);
// Values holds the percent-decoded, name -> ordered-values parse used
// by V2+ structural matching. Order of parameter names is never
// significant; order of values within one name is, per spec §3.
type Query struct {
	Raw    string
	Values map[string][]string
}

// ParseQuery splits a raw query string into Values. Pairs are
// '&'-separated; each pair is split on the first '=', with a missing
// '=' meaning an empty value. Names and values are percent-decoded.
func ParseQuery(raw string) Query {
	q := Query{Raw: raw, Values: make(map[string][]string)}
	if raw == "" {
		return q
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		name, value, hasEq := strings.Cut(pair, "=")
		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			decodedName = name
		}
		var decodedValue string
		if hasEq {
			decodedValue, err = url.QueryUnescape(value)
			if err != nil {
				decodedValue = value
			}
		}
		q.Values[decodedName] = append(q.Values[decodedName], decodedValue)
	}
	return q
}

// IsEmpty reports whether the query has no raw content at all.
func (q Query) IsEmpty() bool {
	return q.Raw == "" && len(q.Values) == 0
}
