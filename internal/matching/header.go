package matching

import (
	"regexp"
	"strings"

	"github.com/pactgo/pact/pkg/pact"
)

// MatchHeaders compares a request's headers against an interaction's
// expected headers. Only headers the interaction declares are checked;
// headers present on the actual request but not mentioned are ignored,
// since real HTTP clients and intermediaries routinely add headers a
// consumer never specified (spec §4.2).
func MatchHeaders(expected, actual *pact.Headers, rules *pact.MatchingRules) []Mismatch {
	var mismatches []Mismatch
	for _, name := range expected.Names() {
		expValue, _ := expected.Get(name)
		actValue, present := actual.Get(name)
		path := pathFromNames(name)
		reported := "$.header" + path.String()[1:]
		if !present {
			mismatches = append(mismatches, headerMismatch(reported, expValue, "(missing)"))
			continue
		}
		mismatches = append(mismatches, matchHeaderValue(rules, path, reported, expValue, actValue)...)
	}
	return mismatches
}

func matchHeaderValue(rules *pact.MatchingRules, path concretePath, reported, expected, actual string) []Mismatch {
	if rules != nil {
		if entries := rules.Entries(pact.CategoryHeader); len(entries) > 0 {
			if rs, _, ok := resolveRules(entries, stripCategoryPrefix, path); ok {
				return applyHeaderRules(rs, reported, expected, actual)
			}
		}
	}
	if normalizeHeaderValue(expected) == normalizeHeaderValue(actual) {
		return nil
	}
	return []Mismatch{headerMismatch(reported, expected, actual)}
}

// normalizeHeaderValue trims whitespace around commas in a
// comma-separated header value, since intermediaries routinely
// reformat list-valued headers (e.g. Accept) without changing their
// meaning (spec §4.2 point 4). Segment order is preserved because it
// IS significant.
func normalizeHeaderValue(value string) string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

func applyHeaderRules(rules []pact.Rule, path, expected, actual string) []Mismatch {
	for _, r := range rules {
		switch r.Match {
		case pact.MatchRegex:
			pattern := r.Regex
			re, err := regexp.Compile(pattern)
			if err != nil || !re.MatchString(actual) {
				return []Mismatch{headerMismatch(path, "matches /"+pattern+"/", actual)}
			}
		case pact.MatchType:
			// Header values are always strings; presence already
			// confirmed by the caller, so type matching passes.
		default:
			if expected != actual {
				return []Mismatch{headerMismatch(path, expected, actual)}
			}
		}
	}
	return nil
}
