package cli

import (
	"github.com/spf13/cobra"
)

var auditRepair bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Find relation edges without a matching reverse edge",
	Long: `audit scans every relation edge and reports orphans (no reverse edge) and
mismatches (a reverse edge with the wrong kind). With --repair the missing
or wrong reverse edges are written in a single transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := newServices(e.cfg, e.db, e.log)
		report, err := svc.relatives.AuditReverseEdges(cmd.Context(), auditRepair)
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), output, report)
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditRepair, "repair", false, "write the missing reverse edges")
	rootCmd.AddCommand(auditCmd)
}
