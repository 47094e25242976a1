package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/familytree/ledger/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ledgerctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Current().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
