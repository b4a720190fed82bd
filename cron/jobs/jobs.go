package jobs

import (
	"log"

	"backoffice.GO/config"
	"backoffice.GO/cron"
	stockService "backoffice.GO/service/stock"
)

func init() {
	cron.Register("stockreconcile", "30 2 * * *", StockReconcileJob)
	cron.Register("dashboardwarm", "@every 5m", DashboardWarmJob)
}

// StockReconcileJob checks every non-bundle variant's cached stock_qty
// against the ledger aggregate and logs mismatches.
func StockReconcileJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("stockreconcile: db connection failed: %v", err)
		return
	}
	mismatches, err := stockService.Reconcile(db)
	if err != nil {
		log.Printf("stockreconcile: %v", err)
		return
	}
	if len(mismatches) == 0 {
		log.Println("stockreconcile: ledger and stock cache agree")
		return
	}
	for _, m := range mismatches {
		log.Printf("stockreconcile: variant %d (%s) cached=%d ledger=%d", m.VariantID, m.SKU, m.CachedQty, m.LedgerQty)
	}
}

// DashboardWarmJob refreshes the dashboard stats cache.
func DashboardWarmJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("dashboardwarm: db connection failed: %v", err)
		return
	}
	stockService.InvalidateDashboard()
	if _, err := stockService.GetDashboardStats(db); err != nil {
		log.Printf("dashboardwarm: %v", err)
	}
}
