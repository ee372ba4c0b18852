package matching

import (
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/pactgo/pact/pkg/pact"
)

// MatchXMLBody compares two XML documents element by element using
// beevik/etree's DOM, the same library the mockd SOAP matcher uses for
// XPath-based comparison. Every expected attribute must be present
// with an equal value, and for each child tag the expected element
// has, the actual element must have the same number of children with
// that tag; attributes and child tags the expectation does not mention
// are ignored. The element, attribute and text selectors "$.body.tag",
// "$.body.tag['@attr']" and "$.body.tag['#text']" accept the same
// regex/type/equality/include rules body.json values do.
func MatchXMLBody(expectedRaw, actualRaw []byte, rules *pact.MatchingRules) []Mismatch {
	expDoc := etree.NewDocument()
	if err := expDoc.ReadFromBytes(expectedRaw); err != nil || expDoc.Root() == nil {
		return []Mismatch{bodyTypeMismatch("$.body", "valid XML", "invalid XML")}
	}
	actDoc := etree.NewDocument()
	if err := actDoc.ReadFromBytes(actualRaw); err != nil || actDoc.Root() == nil {
		return []Mismatch{bodyTypeMismatch("$.body", expDoc.Root().Tag, "invalid XML")}
	}
	return compareXMLElement(pathFromNames(expDoc.Root().Tag), expDoc.Root(), actDoc.Root(), rules)
}

func compareXMLElement(path concretePath, expected, actual *etree.Element, rules *pact.MatchingRules) []Mismatch {
	reported := "$.body" + path.String()[1:]
	var mismatches []Mismatch

	if expected.Tag != actual.Tag {
		return []Mismatch{bodyTypeMismatch(reported, expected.Tag, actual.Tag)}
	}

	for _, attr := range expected.Attr {
		attrPath := path.child("@" + attr.Key)
		attrReported := "$.body" + attrPath.String()[1:]
		actAttr := actual.SelectAttr(attr.Key)
		if actAttr == nil {
			mismatches = append(mismatches, bodyMissingKeyMismatch(attrReported, attr.Key))
			continue
		}
		mismatches = append(mismatches, matchXMLScalar(rules, attrPath, attrReported, attr.Value, actAttr.Value)...)
	}

	expText := strings.TrimSpace(expected.Text())
	if expText != "" && len(expected.ChildElements()) == 0 {
		mismatches = append(mismatches, matchXMLScalar(rules, path.child("#text"), reported, expText, strings.TrimSpace(actual.Text()))...)
	}

	mismatches = append(mismatches, compareXMLChildren(path, expected, actual, rules)...)
	return mismatches
}

func compareXMLChildren(path concretePath, expected, actual *etree.Element, rules *pact.MatchingRules) []Mismatch {
	var mismatches []Mismatch
	expByTag := groupByTag(expected.ChildElements())
	actByTag := groupByTag(actual.ChildElements())

	for _, tag := range sortedTagKeys(expByTag) {
		expChildren := expByTag[tag]
		actChildren := actByTag[tag]
		childPath := path.child(tag)

		if entries := rules.Entries(pact.CategoryBody); len(entries) > 0 {
			if rs, _, ok := resolveRules(entries, stripCategoryPrefix, childPath); ok {
				if handled, ms := applyXMLEachLike(rs, childPath, expChildren, actChildren, rules); handled {
					mismatches = append(mismatches, ms...)
					continue
				}
			}
		}

		if len(actChildren) != len(expChildren) {
			mismatches = append(mismatches, bodyLengthMismatch("$.body"+childPath.String()[1:], len(expChildren), len(actChildren)))
			continue
		}
		for i, expChild := range expChildren {
			mismatches = append(mismatches, compareXMLElement(childPath.index(i), expChild, actChildren[i], rules)...)
		}
	}
	return mismatches
}

func applyXMLEachLike(rules []pact.Rule, path concretePath, expChildren, actChildren []*etree.Element, allRules *pact.MatchingRules) (bool, []Mismatch) {
	for _, r := range rules {
		if r.Min == nil && r.Max == nil {
			continue
		}
		var mismatches []Mismatch
		reported := "$.body" + path.String()[1:]
		if r.Min != nil && len(actChildren) < *r.Min {
			mismatches = append(mismatches, bodyLengthMismatch(reported, *r.Min, len(actChildren)))
		}
		if r.Max != nil && len(actChildren) > *r.Max {
			mismatches = append(mismatches, bodyLengthMismatch(reported, *r.Max, len(actChildren)))
		}
		if len(expChildren) > 0 {
			template := expChildren[0]
			for i, actChild := range actChildren {
				mismatches = append(mismatches, compareXMLElement(path.index(i), template, actChild, allRules)...)
			}
		}
		return true, mismatches
	}
	return false, nil
}

func matchXMLScalar(rules *pact.MatchingRules, path concretePath, reported, expected, actual string) []Mismatch {
	if entries := rules.Entries(pact.CategoryBody); len(entries) > 0 {
		if rs, _, ok := resolveRules(entries, stripCategoryPrefix, path); ok {
			for _, r := range rs {
				switch r.Match {
				case pact.MatchRegex:
					re, err := regexp.Compile(r.Regex)
					if err != nil || !re.MatchString(actual) {
						return []Mismatch{bodyValueMismatch(reported, "matches /"+r.Regex+"/", actual)}
					}
					return nil
				case pact.MatchInclude:
					if !strings.Contains(actual, expected) {
						return []Mismatch{bodyValueMismatch(reported, "includes "+expected, actual)}
					}
					return nil
				case pact.MatchType:
					return nil
				}
			}
		}
	}
	if expected != actual {
		return []Mismatch{bodyValueMismatch(reported, expected, actual)}
	}
	return nil
}

func groupByTag(elements []*etree.Element) map[string][]*etree.Element {
	out := make(map[string][]*etree.Element)
	for _, e := range elements {
		out[e.Tag] = append(out[e.Tag], e)
	}
	return out
}

func sortedTagKeys(m map[string][]*etree.Element) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
