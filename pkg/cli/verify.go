package cli

import (
	"fmt"

	"github.com/pactgo/pact/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Verify a mock server's interactions and write its pact file on a clean run",
	Long: `Checks every interaction the mock server was configured with against
the requests it actually received. On success the server's pact file
is written and the command exits 0. On a mismatch, the command prints
the differences and exits 2.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		client := NewAdminClient(adminURL)
		ok, status, mismatches, err := client.Verify(id)
		if err != nil {
			return withExitCode(exitCodeForLookup(err), fmt.Errorf("failed to verify mock server: %s", FormatConnectionError(err)))
		}

		if ok {
			if !status.Matched {
				output.Warn("%s (%s -> %s) passed with no mismatches, but not every interaction was exercised", id, status.Consumer, status.Provider)
			}
			printResult(status, func() {
				fmt.Printf("Verified %s (%s -> %s): pact file written\n", id, status.Consumer, status.Provider)
			})
			return nil
		}

		printResult(map[string]interface{}{"mockServer": status, "mismatches": mismatches}, func() {
			fmt.Printf("Verification failed for %s (%s -> %s):\n", id, status.Consumer, status.Provider)
			for _, m := range mismatches {
				fmt.Printf("  - %v\n", m)
			}
		})
		return withExitCode(2, fmt.Errorf("%d interaction(s) did not match", len(mismatches)))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
