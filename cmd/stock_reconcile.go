package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"backoffice.GO/config"
	stockService "backoffice.GO/service/stock"
)

var stockReconcileCmd = &cobra.Command{
	Use:   "stock:reconcile",
	Short: "Compare cached stock against the ledger and report mismatches",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		mismatches, err := stockService.Reconcile(db)
		if err != nil {
			fmt.Printf("Reconciliation failed: %v\n", err)
			return
		}
		if len(mismatches) == 0 {
			fmt.Println("All variants match the ledger.")
			return
		}
		fmt.Printf("%d variant(s) out of sync:\n", len(mismatches))
		for _, m := range mismatches {
			fmt.Printf("  %s (variant %d): cached=%d ledger=%d\n", m.SKU, m.VariantID, m.CachedQty, m.LedgerQty)
		}
	},
}

func init() {
	rootCmd.AddCommand(stockReconcileCmd)
}
