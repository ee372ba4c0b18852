package matching

import (
	"strconv"
	"strings"

	"github.com/pactgo/pact/pkg/pact"
)

// segment is one step of a parsed pact matching-rule selector, such as
// the "body", "items", "[0]" or "[*]" in "$.body.items[0]".
type segment struct {
	name     string
	index    int
	isIndex  bool
	wildcard bool
}

// parseSelector splits a selector string into segments. Selectors
// follow the pact matching-rule path grammar: a leading "$", dotted
// names ("$.body.foo"), bracketed names with or without quotes
// ("$['body']['foo']"), integer indices ("$.body.items[0]"), and the
// wildcard index "[*]" or name segment "*" that applies a rule to
// every element/key at that position.
func parseSelector(selector string) []segment {
	s := strings.TrimSpace(selector)
	s = strings.TrimPrefix(s, "$")

	var segs []segment
	i := 0
	for i < len(s) {
		switch {
		case s[i] == '.':
			i++
		case s[i] == '[':
			end := strings.IndexByte(s[i:], ']')
			if end == -1 {
				i = len(s)
				break
			}
			inner := s[i+1 : i+end]
			i += end + 1
			inner = strings.Trim(inner, "'\"")
			if inner == "*" {
				segs = append(segs, segment{wildcard: true})
			} else if n, err := strconv.Atoi(inner); err == nil {
				segs = append(segs, segment{index: n, isIndex: true})
			} else {
				segs = append(segs, segment{name: inner})
			}
		default:
			end := i
			for end < len(s) && s[end] != '.' && s[end] != '[' {
				end++
			}
			name := s[i:end]
			i = end
			if name == "*" {
				segs = append(segs, segment{wildcard: true})
			} else if name != "" {
				segs = append(segs, segment{name: name})
			}
		}
	}
	return segs
}

// concretePath is the actual location of a value being checked,
// expressed in the same segment shape as a selector so the two can be
// compared element by element.
type concretePath []segment

func pathFromNames(names ...string) concretePath {
	segs := make(concretePath, len(names))
	for i, n := range names {
		segs[i] = segment{name: n}
	}
	return segs
}

func (p concretePath) child(name string) concretePath {
	return append(append(concretePath{}, p...), segment{name: name})
}

func (p concretePath) index(i int) concretePath {
	return append(append(concretePath{}, p...), segment{index: i, isIndex: true})
}

// String renders a concrete path back into pact's dotted/bracketed
// selector notation, for reporting in Mismatch.Path.
func (p concretePath) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch {
		case seg.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		case seg.wildcard:
			b.WriteString(".*")
		default:
			b.WriteByte('.')
			b.WriteString(seg.name)
		}
	}
	return b.String()
}

// matchesSelector reports whether selSegs (already stripped of its
// leading category name) is a match — exact or wildcard — for a prefix
// of concrete.
func matchesSelector(selSegs []segment, concrete concretePath) bool {
	if len(selSegs) > len(concrete) {
		return false
	}
	for i, sel := range selSegs {
		c := concrete[i]
		switch {
		case sel.wildcard:
			continue
		case sel.isIndex:
			if !c.isIndex || c.index != sel.index {
				return false
			}
		default:
			if c.isIndex || c.name != sel.name {
				return false
			}
		}
	}
	return true
}

// specificity scores a selector by how many non-wildcard segments it
// pins down; higher specificity wins when two rule entries both apply
// to the same concrete path (spec §4.2's "most specific rule wins").
func specificity(selSegs []segment) int {
	score := 0
	for _, s := range selSegs {
		if !s.wildcard {
			score++
		}
	}
	return score
}

// resolveRules returns the rule(s) governing concrete, selecting the
// RuleEntry among entries whose selector (split into segments by
// stripPrefix, which the caller supplies to drop the category prefix)
// matches concrete with the greatest specificity; entries sharing the
// same specificity are resolved by document order, the entry appearing
// earliest in entries winning (spec §4.2).
func resolveRules(entries []pact.RuleEntry, stripPrefix func(string) []segment, concrete concretePath) ([]pact.Rule, string, bool) {
	bestSpecificity := -1
	var bestRules []pact.Rule
	var bestSelector string
	for _, entry := range entries {
		selSegs := stripPrefix(entry.Selector)
		if !matchesSelector(selSegs, concrete) {
			continue
		}
		sp := specificity(selSegs)
		if sp > bestSpecificity {
			bestSpecificity = sp
			bestRules = entry.Rules
			bestSelector = entry.Selector
		}
	}
	if bestSpecificity < 0 {
		return nil, "", false
	}
	return bestRules, bestSelector, true
}

// stripCategoryPrefix drops a selector's leading "$"-relative category
// segment ("body", "header"/"headers", "query", "path") so the
// remainder can be compared against a concrete path rooted at that
// category.
func stripCategoryPrefix(selector string) []segment {
	segs := parseSelector(selector)
	if len(segs) == 0 {
		return nil
	}
	switch segs[0].name {
	case "body", "header", "headers", "query", "path":
		return segs[1:]
	default:
		return segs
	}
}

// jsonPathString renders segments (as returned by stripCategoryPrefix)
// back into a root-relative JSONPath expression ojg/jp can parse, e.g.
// the "items" in "$.body.items" becomes "$.items" — a plain body
// document has no "body" key to route through, so the category
// segment must never reach jp.
func jsonPathString(segs []segment) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range segs {
		switch {
		case seg.wildcard:
			b.WriteString("[*]")
		case seg.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
		default:
			b.WriteByte('.')
			b.WriteString(seg.name)
		}
	}
	return b.String()
}
