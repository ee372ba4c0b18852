package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one mock server's status",
	Long:  `id may be either the mock server's UUID or the decimal port it is bound to.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewAdminClient(adminURL)
		status, err := client.Get(args[0])
		if err != nil {
			return withExitCode(exitCodeForLookup(err), fmt.Errorf("failed to get mock server: %s", FormatConnectionError(err)))
		}

		printResult(status, func() {
			fmt.Printf("ID:       %s\n", status.ID)
			fmt.Printf("Port:     %d\n", status.Port)
			fmt.Printf("Consumer: %s\n", status.Consumer)
			fmt.Printf("Provider: %s\n", status.Provider)
			fmt.Printf("State:    %s\n", status.State)
			fmt.Printf("Matched:  %t\n", status.Matched)
			fmt.Printf("Base URL: %s\n", status.BaseURL)
		})
		return nil
	},
}

// exitCodeForLookup maps an id-resolution failure to exit code 3
// (spec §7); any other control API error (connection failure, 5xx) is
// exit code 1.
func exitCodeForLookup(err error) int {
	if apiErr, ok := err.(*APIError); ok && apiErr.ErrorCode == "not_found" {
		return 3
	}
	return 1
}

func init() {
	rootCmd.AddCommand(getCmd)
}
