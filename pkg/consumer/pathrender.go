package consumer

import (
	"strconv"
	"strings"
)

// identifierSafe reports whether key can appear as a bare ".key"
// selector segment without quoting (spec §4.6's path rendering rule).
func identifierSafe(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			continue
		case i > 0 && r >= '0' && r <= '9':
			continue
		default:
			return false
		}
	}
	return true
}

var selectorEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// childSelector appends a key segment to base, quoting and escaping it
// when the key isn't identifier-safe.
func childSelector(base, key string) string {
	if identifierSafe(key) {
		return base + "." + key
	}
	return base + "['" + selectorEscaper.Replace(key) + "']"
}

// indexSelector appends an array index segment to base.
func indexSelector(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// wildcardSelector appends the "[*]" segment pact uses to apply a rule
// to every element of an array, the selector EachLike/ArrayLike
// templates register their nested rules at.
func wildcardSelector(base string) string {
	return base + "[*]"
}
