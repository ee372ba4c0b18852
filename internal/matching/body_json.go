package matching

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/pactgo/pact/pkg/pact"
)

// MatchJSONBody compares two JSON documents structurally: every key in
// the expected object must exist in the actual object with a matching
// value (extra actual keys are ignored); arrays compare element by
// element unless a matching rule with Min/Max turns the comparison
// into "every actual element matches the first expected element"
// (spec §4.2's array min/max semantics), in which case the actual
// array's length at that selector is fetched with an ohler55/ojg
// JSONPath evaluation rather than re-walked by hand.
func MatchJSONBody(expectedRaw, actualRaw []byte, rules *pact.MatchingRules) []Mismatch {
	var expected, actual interface{}
	if err := json.Unmarshal(expectedRaw, &expected); err != nil {
		return []Mismatch{bodyTypeMismatch("$.body", "valid JSON", "invalid JSON")}
	}
	if err := json.Unmarshal(actualRaw, &actual); err != nil {
		return []Mismatch{bodyTypeMismatch("$.body", jsonKind(expected), "invalid JSON")}
	}

	var mismatches []Mismatch
	if entries := rules.Entries(pact.CategoryBody); len(entries) > 0 {
		mismatches = append(mismatches, checkArrayLengthRules(entries, actualRaw)...)
	}
	mismatches = append(mismatches, compareJSONValue(concretePath{}, expected, actual, rules)...)
	return mismatches
}

// checkArrayLengthRules validates every Min/Max-bearing body rule
// against the actual document, using ojg/jp to fetch the array the
// selector names directly rather than re-deriving it from the
// recursive walk.
func checkArrayLengthRules(entries []pact.RuleEntry, actualRaw []byte) []Mismatch {
	var mismatches []Mismatch
	for _, entry := range entries {
		for _, r := range entry.Rules {
			if r.Min == nil && r.Max == nil {
				continue
			}
			expr, err := jp.ParseString(jsonPathString(stripCategoryPrefix(entry.Selector)))
			if err != nil {
				continue
			}
			var doc interface{}
			if err := json.Unmarshal(actualRaw, &doc); err != nil {
				continue
			}
			results := expr.Get(doc)
			if len(results) == 0 {
				continue
			}
			arr, ok := results[0].([]interface{})
			if !ok {
				continue
			}
			if r.Min != nil && len(arr) < *r.Min {
				mismatches = append(mismatches, bodyLengthMismatch(entry.Selector, *r.Min, len(arr)))
			}
			if r.Max != nil && len(arr) > *r.Max {
				mismatches = append(mismatches, bodyLengthMismatch(entry.Selector, *r.Max, len(arr)))
			}
		}
	}
	return mismatches
}

func compareJSONValue(path concretePath, expected, actual interface{}, rules *pact.MatchingRules) []Mismatch {
	reported := "$.body" + path.String()[1:]

	if entries := rules.Entries(pact.CategoryBody); len(entries) > 0 {
		if rs, _, ok := resolveRules(entries, stripCategoryPrefix, path); ok {
			if mismatches, handled := applyBodyRules(rs, path, reported, expected, actual, rules); handled {
				return mismatches
			}
		}
	}

	return defaultCompareJSON(path, reported, expected, actual, rules)
}

// applyBodyRules applies matching rules resolved for this path. When a
// rule fully determines the outcome (type/regex/equality/include, or
// an each-like array rule) it returns handled=true so the caller skips
// the unconstrained default comparison; a bare "type" rule on a
// container still falls through to structural recursion underneath.
func applyBodyRules(rules []pact.Rule, path concretePath, reported string, expected, actual interface{}, allRules *pact.MatchingRules) ([]Mismatch, bool) {
	decided := false
	for _, r := range rules {
		switch r.Match {
		case pact.MatchRegex:
			as, ok := actual.(string)
			if !ok {
				return []Mismatch{bodyTypeMismatch(reported, "string", jsonKind(actual))}, true
			}
			re, err := regexp.Compile(r.Regex)
			if err != nil || !re.MatchString(as) {
				return []Mismatch{bodyValueMismatch(reported, "matches /"+r.Regex+"/", as)}, true
			}
			decided = true
		case pact.MatchEquality:
			if !jsonDeepEqual(expected, actual) {
				return []Mismatch{bodyValueMismatch(reported, jsonString(expected), jsonString(actual))}, true
			}
			decided = true
		case pact.MatchInclude:
			es, _ := expected.(string)
			as, ok := actual.(string)
			if !ok || !strings.Contains(as, es) {
				return []Mismatch{bodyValueMismatch(reported, "includes "+es, jsonString(actual))}, true
			}
			decided = true
		case pact.MatchType:
			if jsonKind(expected) != jsonKind(actual) {
				return []Mismatch{bodyTypeMismatch(reported, jsonKind(expected), jsonKind(actual))}, true
			}
			if _, isArr := expected.([]interface{}); isArr && (r.Min != nil || r.Max != nil) {
				return eachLike(path, reported, expected, actual, allRules), true
			}
			// Container: recurse structurally with type already
			// confirmed equal, so fall through to the default walk.
			if _, isArr := expected.([]interface{}); isArr {
				return defaultCompareJSON(path, reported, expected, actual, allRules), true
			}
			if _, isObj := expected.(map[string]interface{}); isObj {
				return defaultCompareJSON(path, reported, expected, actual, allRules), true
			}
			return nil, true
		}
	}
	return nil, decided
}

// eachLike validates that every element of actual (already confirmed
// to meet any Min/Max length constraint by checkArrayLengthRules)
// structurally matches the first element of expected, pact's "array
// containing a repeated shape" matcher.
func eachLike(path concretePath, reported string, expected, actual interface{}, rules *pact.MatchingRules) []Mismatch {
	expArr, ok := expected.([]interface{})
	if !ok || len(expArr) == 0 {
		return nil
	}
	actArr, ok := actual.([]interface{})
	if !ok {
		return []Mismatch{bodyTypeMismatch(reported, "array", jsonKind(actual))}
	}
	template := expArr[0]
	var mismatches []Mismatch
	for i, elem := range actArr {
		mismatches = append(mismatches, compareJSONValue(path.index(i), template, elem, rules)...)
	}
	return mismatches
}

func defaultCompareJSON(path concretePath, reported string, expected, actual interface{}, rules *pact.MatchingRules) []Mismatch {
	switch exp := expected.(type) {
	case nil:
		if actual != nil {
			return []Mismatch{bodyTypeMismatch(reported, "null", jsonKind(actual))}
		}
		return nil
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return []Mismatch{bodyTypeMismatch(reported, "object", jsonKind(actual))}
		}
		var mismatches []Mismatch
		for _, key := range sortedStringKeys(exp) {
			childPath := path.child(key)
			childReported := "$.body" + childPath.String()[1:]
			av, present := act[key]
			if !present {
				mismatches = append(mismatches, bodyMissingKeyMismatch(childReported, key))
				continue
			}
			mismatches = append(mismatches, compareJSONValue(childPath, exp[key], av, rules)...)
		}
		return mismatches
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return []Mismatch{bodyTypeMismatch(reported, "array", jsonKind(actual))}
		}
		if len(act) != len(exp) {
			return []Mismatch{bodyLengthMismatch(reported, len(exp), len(act))}
		}
		var mismatches []Mismatch
		for i, v := range exp {
			mismatches = append(mismatches, compareJSONValue(path.index(i), v, act[i], rules)...)
		}
		return mismatches
	default:
		if jsonKind(expected) != jsonKind(actual) {
			return []Mismatch{bodyTypeMismatch(reported, jsonKind(expected), jsonKind(actual))}
		}
		if !jsonDeepEqual(expected, actual) {
			return []Mismatch{bodyValueMismatch(reported, jsonString(expected), jsonString(actual))}
		}
		return nil
	}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func jsonDeepEqual(a, b interface{}) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}

func jsonString(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func sortedStringKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
