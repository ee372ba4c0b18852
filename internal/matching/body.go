package matching

import (
	"strings"

	"github.com/pactgo/pact/pkg/pact"
)

// MatchBody compares a request or response body against the
// interaction's expectation, honoring the Missing/Null/Empty/Present
// interaction rules of spec §4.2: an expectation of Missing places no
// constraint on the actual body; Null and Empty must be matched
// exactly as such; a Present expectation dispatches to a JSON, XML or
// plain-text comparison by the expected body's derived mime type.
func MatchBody(expected, actual pact.OptionalBody, rules *pact.MatchingRules) []Mismatch {
	switch expected.State() {
	case pact.BodyMissing:
		return nil
	case pact.BodyNull:
		if !actual.IsNull() {
			return []Mismatch{bodyTypeMismatch("$.body", "null", describeBodyState(actual))}
		}
		return nil
	case pact.BodyEmpty:
		if !actual.IsEmpty() && !(actual.IsPresent() && len(actual.Bytes()) == 0) {
			return []Mismatch{bodyTypeMismatch("$.body", "empty", describeBodyState(actual))}
		}
		return nil
	default: // BodyPresent
		if !actual.IsPresent() {
			return []Mismatch{bodyTypeMismatch("$.body", "present", describeBodyState(actual))}
		}
	}

	switch {
	case strings.HasSuffix(expected.MimeType(), "json"):
		return MatchJSONBody(expected.Bytes(), actual.Bytes(), rules)
	case strings.HasSuffix(expected.MimeType(), "xml"), expected.MimeType() == "text/html":
		return MatchXMLBody(expected.Bytes(), actual.Bytes(), rules)
	default:
		return MatchTextBody(expected.Bytes(), actual.Bytes(), rules)
	}
}

func describeBodyState(b pact.OptionalBody) string {
	return b.State().String()
}
