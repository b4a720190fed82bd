package stock

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"backoffice.GO/config"
	"backoffice.GO/core/apperr"
	"backoffice.GO/core/cache"
	stockEntity "backoffice.GO/model/entity/stock"
	catalogRepo "backoffice.GO/model/repository/catalog"
	stockRepo "backoffice.GO/model/repository/stock"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 60 // seconds
)

// ReceiveItem is one line of a receiving batch. Cost, when positive, becomes
// the variant's new default cost.
type ReceiveItem struct {
	SKU  string  `json:"sku"`
	Qty  int     `json:"qty"`
	Cost float64 `json:"cost"`
	Note string  `json:"note"`
}

// ReceiveStock applies a receiving batch: for each item it resolves the SKU,
// increments the cached stock, updates the default cost and appends an IN
// ledger entry. The whole batch is one transaction; an unknown SKU rolls back
// every item. Duplicate SKUs within a batch compound line by line.
func ReceiveStock(db *gorm.DB, items []ReceiveItem, requesterName, note string) (string, error) {
	if len(items) == 0 {
		return "", apperr.Validationf("items are required")
	}
	for i, item := range items {
		if item.SKU == "" {
			return "", apperr.Validationf("item %d: sku is required", i+1)
		}
		if item.Qty <= 0 {
			return "", apperr.Validationf("item %d (%s): quantity must be positive", i+1, item.SKU)
		}
	}
	if requesterName == "" {
		requesterName = "Staff"
	}

	now := time.Now()
	requestNo := fmt.Sprintf("STOCKIN-%s-%04d", now.Format("20060102"), 1000+rand.Intn(9000))

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := catalogRepo.NewProductRepository(tx)
		ledger := stockRepo.NewStockRepository(tx)

		request := stockEntity.StockRequest{
			RequestNo:     requestNo,
			RequesterName: requesterName,
			Note:          note,
			Status:        stockEntity.RequestApproved,
			ApprovedAt:    &now,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		for _, item := range items {
			variant, err := repo.FindVariantBySKU(item.SKU)
			if err != nil {
				return err
			}

			// Receiving stock updates the cost to the latest lot when given.
			cost := variant.DefaultCost
			if item.Cost > 0 {
				cost = item.Cost
			}
			if err := repo.ReceiveVariantStock(variant.ID, item.Qty, cost); err != nil {
				return err
			}

			logNote := note
			if item.Note != "" {
				logNote = fmt.Sprintf("Stock received: %s", item.Note)
			}
			if _, err := ledger.Append(variant.ID, item.Qty, stockEntity.MovementIn, logNote); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	InvalidateDashboard()
	return requestNo, nil
}

// DashboardStats are the back-office KPIs.
type DashboardStats struct {
	TotalCost        float64 `json:"totalCost"`
	TotalProducts    int64   `json:"totalProducts"`
	NewProductsToday int64   `json:"newProductsToday"`
	LowStock         int64   `json:"lowStock"`
}

func lowStockThreshold() int {
	if config.AppConfig != nil {
		return config.AppConfig.LowStockThreshold
	}
	return 5
}

// GetDashboardStats computes the dashboard KPIs, serving from Redis (when
// configured) or the in-process cache with a short TTL.
func GetDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	if config.RedisClient != nil {
		if raw, err := config.RedisClient.Get(config.RedisCtx(), dashboardCacheKey).Result(); err == nil {
			var stats DashboardStats
			if json.Unmarshal([]byte(raw), &stats) == nil {
				return &stats, nil
			}
		}
	} else if v, ok := cache.GetInstance().Get(dashboardCacheKey); ok {
		if stats, isStats := v.(*DashboardStats); isStats {
			return stats, nil
		}
	}

	stats, err := computeDashboardStats(db)
	if err != nil {
		return nil, err
	}

	if config.RedisClient != nil {
		if b, err := json.Marshal(stats); err == nil {
			config.RedisClient.Set(config.RedisCtx(), dashboardCacheKey, b, dashboardCacheTTL*time.Second)
		}
	} else {
		cache.GetInstance().Set(dashboardCacheKey, stats, dashboardCacheTTL, []string{"dashboard"})
	}
	return stats, nil
}

func computeDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	repo := catalogRepo.NewProductRepository(db)

	totalCost, err := repo.StockValue()
	if err != nil {
		return nil, err
	}
	totalProducts, err := repo.CountProducts()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	newToday, err := repo.CountProductsSince(midnight)
	if err != nil {
		return nil, err
	}
	lowStock, err := repo.LowStockCount(lowStockThreshold())
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalCost:        totalCost,
		TotalProducts:    totalProducts,
		NewProductsToday: newToday,
		LowStock:         lowStock,
	}, nil
}

// InvalidateDashboard drops cached dashboard stats after any stock mutation.
func InvalidateDashboard() {
	if config.RedisClient != nil {
		config.RedisClient.Del(config.RedisCtx(), dashboardCacheKey)
	}
	cache.GetInstance().DeleteByTag("dashboard")
}

// Mismatch is one variant whose cached stock disagrees with the ledger.
type Mismatch struct {
	VariantID uint   `json:"variant_id"`
	SKU       string `json:"sku"`
	CachedQty int    `json:"cached_qty"`
	LedgerQty int    `json:"ledger_qty"`
}

// Reconcile compares every non-bundle variant's cached stock_qty against the
// signed ledger aggregate. Mismatches are reported, never corrected.
func Reconcile(db *gorm.DB) ([]Mismatch, error) {
	repo := catalogRepo.NewProductRepository(db)
	ledger := stockRepo.NewStockRepository(db)

	variants, err := repo.NonBundleVariants()
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, v := range variants {
		aggregate, err := ledger.AggregateStock(v.ID)
		if err != nil {
			return nil, err
		}
		if aggregate != v.StockQty {
			mismatches = append(mismatches, Mismatch{
				VariantID: v.ID,
				SKU:       v.SKU,
				CachedQty: v.StockQty,
				LedgerQty: aggregate,
			})
		}
	}
	return mismatches, nil
}
