package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown <id>",
	Short: "Stop a mock server and remove it from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		client := NewAdminClient(adminURL)
		if err := client.Shutdown(id); err != nil {
			return withExitCode(exitCodeForLookup(err), fmt.Errorf("failed to shut down mock server: %s", FormatConnectionError(err)))
		}

		printResult(map[string]string{"id": id, "status": "stopped"}, func() {
			fmt.Printf("Mock server %s stopped\n", id)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shutdownCmd)
}
