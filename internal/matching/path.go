package matching

import (
	"regexp"

	"github.com/pactgo/pact/pkg/pact"
)

// MatchPath compares a request path against the interaction's expected
// path. With no matching rule at "$.path" the comparison is exact
// string equality (spec §4.2); a "regex" rule at "$.path" replaces
// equality with a pattern match; a "type" rule always passes, since
// both sides are necessarily strings.
func MatchPath(expected, actual string, rules *pact.MatchingRules) []Mismatch {
	if rules != nil {
		if entries := rules.Entries(pact.CategoryPath); len(entries) > 0 {
			if rs, _, ok := resolveRules(entries, stripCategoryPrefix, concretePath{}); ok {
				return applyPathRules(rs, expected, actual)
			}
		}
	}
	if expected == actual {
		return nil
	}
	return []Mismatch{pathMismatch(expected, actual)}
}

func applyPathRules(rules []pact.Rule, expected, actual string) []Mismatch {
	for _, r := range rules {
		switch r.Match {
		case pact.MatchRegex:
			pattern := r.Regex
			if pattern == "" {
				pattern = expected
			}
			re, err := regexp.Compile(pattern)
			if err != nil || !re.MatchString(actual) {
				return []Mismatch{pathMismatch("matches /"+pattern+"/", actual)}
			}
		case pact.MatchType:
			// Both sides are strings by construction; type matching
			// on a path is always satisfied.
		default:
			if expected != actual {
				return []Mismatch{pathMismatch(expected, actual)}
			}
		}
	}
	return nil
}
