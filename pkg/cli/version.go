package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pact CLI version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printResult(map[string]string{"version": Version, "commit": Commit, "buildDate": BuildDate}, func() {
			fmt.Printf("pact %s (%s, built %s)\n", Version, Commit, BuildDate)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
