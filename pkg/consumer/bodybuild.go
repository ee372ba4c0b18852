package consumer

import (
	"sort"

	"github.com/pactgo/pact/pkg/pact"
)

// buildValue recursively resolves raw — which may be a plain Go value,
// a map/slice containing Patterns at any depth, or a Pattern itself —
// into the concrete example value written into the Pact document,
// while emitting every Pattern's matching rule at selector (spec §4.6).
//
// ArrayLike/EachLike is the one case that needs special handling: the
// matching engine (internal/matching's eachLike) always compares every
// actual element against the *first* expected element, so a pattern
// nested inside an array template must be registered at the wildcard
// selector ("$.body.items[*].id"), not at a fixed index, or it would
// only ever apply to element zero.
func buildValue(category pact.Category, selector string, raw interface{}, rules *pact.MatchingRules) interface{} {
	switch v := raw.(type) {
	case arrayPattern:
		v.emitRule(rules, category, selector)
		template := buildValue(category, wildcardSelector(selector), v.value, rules)
		if obj, ok := template.(map[string]interface{}); ok {
			for key, val := range obj {
				if val == nil {
					delete(obj, key)
				}
			}
		}
		elems := make([]interface{}, v.min)
		for i := range elems {
			elems[i] = template
		}
		return elems
	case termPattern:
		v.emitRule(rules, category, selector)
		return v.exampleValue
	case typePattern:
		v.emitRule(rules, category, selector)
		return buildValue(category, selector, v.value, rules)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for _, key := range sortedBodyKeys(v) {
			out[key] = buildValue(category, childSelector(selector, key), v[key], rules)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = buildValue(category, indexSelector(selector, i), elem, rules)
			// Null fields of an object inside an array are dropped;
			// a null that is itself an array element is kept.
			if obj, ok := out[i].(map[string]interface{}); ok {
				for key, val := range obj {
					if val == nil {
						delete(obj, key)
					}
				}
			}
		}
		return out
	default:
		return v
	}
}

func sortedBodyKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
