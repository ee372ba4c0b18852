package cli

import (
	"fmt"

	"github.com/pactgo/pact/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running mock servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewAdminClient(adminURL)
		servers, err := client.List()
		if err != nil {
			return withExitCode(1, fmt.Errorf("failed to list mock servers: %s", FormatConnectionError(err)))
		}

		printResult(servers, func() {
			if len(servers) == 0 {
				fmt.Println("No mock servers running.")
				return
			}
			w := output.Table()
			defer func() { _ = w.Flush() }()
			fmt.Fprintln(w, "ID\tPORT\tCONSUMER\tPROVIDER\tSTATE\tMATCHED")
			for _, s := range servers {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%t\n", s.ID, s.Port, s.Consumer, s.Provider, s.State, s.Matched)
			}
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
