package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var startPort int

var startCmd = &cobra.Command{
	Use:     "start <pact-file>",
	Aliases: []string{"create"},
	Short:   "Start a mock server from a pact document",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return withExitCode(1, fmt.Errorf("failed to read %s: %w", args[0], err))
		}

		client := NewAdminClient(adminURL)
		result, err := client.Create(data, startPort)
		if err != nil {
			return withExitCode(1, fmt.Errorf("failed to start mock server: %s", FormatConnectionError(err)))
		}

		printResult(result, func() {
			fmt.Printf("Mock server %s started on port %d\n", result.ID, result.Port)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().IntVar(&startPort, "port", 0, "Port to bind (0 lets the OS choose)")
}
