package matching

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// ValidateSelector parses a pact matching-rule selector as a JSONPath
// expression, the same validation mockd runs on its own JSONPath
// matchers at load time (see the teacher's ValidateJSONPathExpression).
// A selector that fails to parse as JSONPath is still accepted for
// non-body categories (header/query/path selectors use a narrower
// grammar selector.go parses directly); this is only a best-effort
// early check for body selectors.
func ValidateSelector(selector string) error {
	if _, err := jp.ParseString(selector); err != nil {
		return fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return nil
}
