package matching

import (
	"regexp"
	"strings"

	"github.com/pactgo/pact/pkg/pact"
)

// MatchTextBody compares two non-JSON, non-XML bodies. With no
// matching rule at "$.body" this is byte-for-byte equality; a "regex"
// rule replaces equality with a pattern match and an "include" rule
// requires the actual body to contain the expected substring.
func MatchTextBody(expected, actual []byte, rules *pact.MatchingRules) []Mismatch {
	exp, act := string(expected), string(actual)

	if entries := rules.Entries(pact.CategoryBody); len(entries) > 0 {
		if rs, _, ok := resolveRules(entries, stripCategoryPrefix, concretePath{}); ok {
			for _, r := range rs {
				switch r.Match {
				case pact.MatchRegex:
					re, err := regexp.Compile(r.Regex)
					if err != nil || !re.MatchString(act) {
						return []Mismatch{bodyValueMismatch("$.body", "matches /"+r.Regex+"/", act)}
					}
					return nil
				case pact.MatchInclude:
					if !strings.Contains(act, exp) {
						return []Mismatch{bodyValueMismatch("$.body", "includes "+exp, act)}
					}
					return nil
				case pact.MatchType:
					return nil
				}
			}
		}
	}

	if exp != act {
		return []Mismatch{bodyValueMismatch("$.body", exp, act)}
	}
	return nil
}
