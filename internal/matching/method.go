package matching

import "strings"

// MatchMethod compares two HTTP methods case-insensitively, per spec
// §4.2 (methods are never subject to matching rules).
func MatchMethod(expected, actual string) []Mismatch {
	if strings.EqualFold(expected, actual) {
		return nil
	}
	return []Mismatch{methodMismatch(strings.ToUpper(expected), strings.ToUpper(actual))}
}
