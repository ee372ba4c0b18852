package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pactgo/pact/pkg/pact"
)

// MatchQuery compares a request's query string against an
// interaction's expected query. Parameter name order is never
// significant (spec §9's resolved Open Question, confirmed against the
// upstream different_param_order fixture); the order of repeated
// values under the same name is. Every expected name must be present
// with the same value count, and by default the actual query may not
// carry names the interaction didn't declare.
func MatchQuery(expected, actual pact.Query, rules *pact.MatchingRules) []Mismatch {
	var mismatches []Mismatch

	for _, name := range sortedKeys(expected.Values) {
		expValues := expected.Values[name]
		actValues, present := actual.Values[name]
		if !present {
			mismatches = append(mismatches, queryMismatch(
				fmt.Sprintf("$.query.%s", name),
				strings.Join(expValues, ","), "(missing)"))
			continue
		}
		if len(expValues) != len(actValues) {
			mismatches = append(mismatches, bodyLengthMismatch(
				fmt.Sprintf("$.query.%s", name), len(expValues), len(actValues)))
		}
		for i, ev := range expValues {
			path := pathFromNames(name).index(i)
			av := ""
			if i < len(actValues) {
				av = actValues[i]
			} else {
				av = "(missing)"
			}
			mismatches = append(mismatches, matchQueryValue(rules, path, ev, av)...)
		}
	}

	// Extra actual parameters are only a mismatch when the interaction
	// declared at least one expected parameter (spec §4.2 point 3); a
	// request with no expected query at all tolerates whatever the
	// actual request carries.
	if len(expected.Values) == 0 {
		return mismatches
	}

	for _, name := range sortedKeys(actual.Values) {
		if _, ok := expected.Values[name]; ok {
			continue
		}
		mismatches = append(mismatches, queryMismatch(
			fmt.Sprintf("$.query.%s", name), "(absent)", strings.Join(actual.Values[name], ",")))
	}

	return mismatches
}

func matchQueryValue(rules *pact.MatchingRules, path concretePath, expected, actual string) []Mismatch {
	reported := "$.query" + path.String()[1:]
	if rules != nil {
		if entries := rules.Entries(pact.CategoryQuery); len(entries) > 0 {
			if rs, selector, ok := resolveRules(entries, stripCategoryPrefix, path); ok {
				return applyQueryRules(rs, selector, reported, expected, actual)
			}
		}
	}
	if expected == actual {
		return nil
	}
	return []Mismatch{queryMismatch(reported, expected, actual)}
}

func applyQueryRules(rules []pact.Rule, selector, path, expected, actual string) []Mismatch {
	for _, r := range rules {
		switch r.Match {
		case pact.MatchRegex:
			pattern := r.Regex
			re, err := regexp.Compile(pattern)
			if err != nil || !re.MatchString(actual) {
				return []Mismatch{queryMismatch(path, "matches /"+pattern+"/", actual)}
			}
		case pact.MatchType:
			// Query values are always strings; type matching is
			// satisfied as long as the value is present.
		default:
			if expected != actual {
				return []Mismatch{queryMismatch(path, expected, actual)}
			}
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
