// Package output holds the rendering helpers pkg/cli's commands share:
// print.go's printResult encodes through JSON when --json is set,
// list.go builds its server table with Table, and verify.go calls
// Warn when a clean verification still leaves interactions unexercised.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// JSON writes v to stdout as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table returns a tab-aligned writer targeting stdout. Callers must
// Flush it once all rows are written.
func Table() *tabwriter.Writer {
	const minWidth, tabWidth, padding = 0, 0, 2
	return tabwriter.NewWriter(os.Stdout, minWidth, tabWidth, padding, ' ', 0)
}

// Warn prints a formatted warning to stderr, for conditions that
// don't fail the command but are worth the operator's attention.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
