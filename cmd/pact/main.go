// Command pact is the CLI entry point for starting, listing, and
// verifying consumer-driven contract mock servers.
package main

import "github.com/pactgo/pact/pkg/cli"

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
