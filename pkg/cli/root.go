// Package cli implements the pact command-line interface: a thin
// cobra front end over pkg/controlapi's HTTP resource graph (spec
// §4.5, §7).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands.
	adminURL   string
	jsonOutput bool

	// Version is injected during build.
	Version = "dev"
	// Commit is injected during build.
	Commit = "none"
	// BuildDate is injected during build.
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pact",
	Short: "pact drives a consumer-driven contract testing mock server",
	Long: `pact starts and controls HTTP mock servers from Pact documents and
verifies that a provider received every interaction it promised.

The control API it talks to defaults to http://localhost:4290 and can
be overridden with --admin-url or the PACT_ADMIN_URL environment
variable.`,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are handled in Execute()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main() and only needs to happen
// once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func defaultAdminURL() string {
	if v := os.Getenv("PACT_ADMIN_URL"); v != "" {
		return v
	}
	return "http://localhost:4290"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&adminURL, "admin-url", defaultAdminURL(), "Control API base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
