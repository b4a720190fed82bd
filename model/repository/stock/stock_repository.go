package stock

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
)

// StockRepository owns the stock ledger: append-only writes and the
// aggregations derived from it.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
// handle. Mutations that must commit together with other statements go
// through this.
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

// Append inserts one immutable ledger entry. It does not touch the cached
// variant stock_qty; the caller owns keeping cache and ledger consistent
// within the same transaction.
func (r *StockRepository) Append(variantID uint, quantity int, movType stockEntity.MovementType, note string) (uint, error) {
	if quantity <= 0 {
		return 0, apperr.Validationf("ledger quantity must be positive, got %d", quantity)
	}
	if !movType.Valid() {
		return 0, apperr.Validationf("unknown movement type %q", movType)
	}
	var count int64
	if err := r.db.Model(&catalogEntity.Variant{}).Where("id = ?", variantID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperr.Validationf("variant %d does not exist", variantID)
	}

	entry := stockEntity.StockLog{
		VariantID: variantID,
		Quantity:  quantity,
		Type:      movType,
		Note:      note,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// AggregateStock returns the signed sum of all ledger entries for a variant.
// Reconciliation path, not the hot read path (that is the cached stock_qty).
func (r *StockRepository) AggregateStock(variantID uint) (int, error) {
	var total int
	err := r.db.Raw(`
		SELECT COALESCE(SUM(CASE
			WHEN type IN ('OUT', 'ADJUST_SUB') THEN -quantity
			ELSE quantity
		END), 0)
		FROM stock_logs WHERE variant_id = ?`, variantID).Scan(&total).Error
	return total, err
}

// StatsFilter bounds movement aggregations to a calendar date range
// (inclusive on both ends).
type StatsFilter struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// MovementStats holds grouped quantity sums per movement type.
type MovementStats struct {
	TotalIn        int `gorm:"column:total_in" json:"total_in"`
	TotalOut       int `gorm:"column:total_out" json:"total_out"`
	TotalAdjustAdd int `gorm:"column:total_adjust_add" json:"total_adjust_add"`
	TotalAdjustSub int `gorm:"column:total_adjust_sub" json:"total_adjust_sub"`
	TotalReturn    int `gorm:"column:total_return" json:"total_return"`
}

// Incoming combines received and upward-corrected quantities.
func (s *MovementStats) Incoming() int {
	return s.TotalIn + s.TotalAdjustAdd
}

// Outgoing combines shipped and downward-corrected quantities.
func (s *MovementStats) Outgoing() int {
	return s.TotalOut + s.TotalAdjustSub
}

// Net is the signed stock movement over the period:
// (IN + RETURN + ADJUST_ADD) - (OUT + ADJUST_SUB).
func (s *MovementStats) Net() int {
	return (s.TotalIn + s.TotalReturn + s.TotalAdjustAdd) - (s.TotalOut + s.TotalAdjustSub)
}

// MovementStats aggregates ledger quantities per type, optionally bounded to
// [startDate 00:00:00, endDate 23:59:59].
func (r *StockRepository) MovementStats(filter StatsFilter) (*MovementStats, error) {
	q := r.db.Model(&stockEntity.StockLog{}).Select(`
		COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) AS total_in,
		COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) AS total_out,
		COALESCE(SUM(CASE WHEN type = 'ADJUST_ADD' THEN quantity ELSE 0 END), 0) AS total_adjust_add,
		COALESCE(SUM(CASE WHEN type = 'ADJUST_SUB' THEN quantity ELSE 0 END), 0) AS total_adjust_sub,
		COALESCE(SUM(CASE WHEN type = 'RETURN' THEN quantity ELSE 0 END), 0) AS total_return`)
	q = applyDateRange(q, "stock_logs.created_at", filter.StartDate, filter.EndDate)

	var stats MovementStats
	if err := q.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// LogFilter is the structured filter for ledger queries. Empty fields are
// ignored; no SQL is ever concatenated from them.
type LogFilter struct {
	Search    string
	Type      string // movement type; "adjust" matches both ADJUST types; ""/"all" matches everything
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// LedgerRow is a ledger entry joined with its owning variant and product for
// display.
type LedgerRow struct {
	ID           uint                    `gorm:"column:id" json:"id"`
	VariantID    uint                    `gorm:"column:variant_id" json:"variant_id"`
	Quantity     int                     `gorm:"column:quantity" json:"quantity"`
	Type         stockEntity.MovementType `gorm:"column:type" json:"type"`
	Note         string                  `gorm:"column:note" json:"note"`
	CreatedAt    time.Time               `gorm:"column:created_at" json:"created_at"`
	SKU          string                  `gorm:"column:sku" json:"sku"`
	OptionName   string                  `gorm:"column:option_name" json:"option_name"`
	SellingPrice float64                 `gorm:"column:selling_price" json:"selling_price"`
	Title        string                  `gorm:"column:title" json:"title"`
	Images       datatypes.JSON          `gorm:"column:images" json:"-"`
	ImagePaths   []string                `gorm:"-" json:"images"`
}

// decodeImages fills ImagePaths from the raw images column.
func (row *LedgerRow) decodeImages() {
	row.ImagePaths = []string{}
	if len(row.Images) == 0 {
		return
	}
	var paths []string
	if json.Unmarshal(row.Images, &paths) == nil {
		row.ImagePaths = paths
	}
}

func (r *StockRepository) logQuery(filter LogFilter) *gorm.DB {
	q := r.db.Table("stock_logs").
		Joins("JOIN variants ON stock_logs.variant_id = variants.id").
		Joins("JOIN products ON variants.product_id = products.id")

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(products.title) LIKE ? OR LOWER(variants.sku) LIKE ? OR LOWER(stock_logs.note) LIKE ?", like, like, like)
	}

	if t := strings.ToLower(strings.TrimSpace(filter.Type)); t != "" && t != "all" {
		if t == "adjust" {
			q = q.Where("stock_logs.type IN ?", []string{string(stockEntity.MovementAdjustAdd), string(stockEntity.MovementAdjustSub)})
		} else {
			q = q.Where("stock_logs.type = ?", strings.ToUpper(filter.Type))
		}
	}

	return applyDateRange(q, "stock_logs.created_at", filter.StartDate, filter.EndDate)
}

// Query returns ledger entries joined with variant and product, newest first,
// plus the total row count unaffected by pagination.
func (r *StockRepository) Query(filter LogFilter, page, limit int) ([]LedgerRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := r.logQuery(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LedgerRow
	err := r.logQuery(filter).
		Select("stock_logs.*, variants.sku, variants.option_name, variants.price AS selling_price, products.title, products.images").
		Order("stock_logs.created_at DESC, stock_logs.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].decodeImages()
	}
	return rows, total, nil
}

// Recent returns the latest ledger entries for the dashboard feed.
func (r *StockRepository) Recent(limit int) ([]LedgerRow, error) {
	if limit < 1 {
		limit = 5
	}
	rows, _, err := r.Query(LogFilter{}, 1, limit)
	return rows, err
}

// applyDateRange adds inclusive calendar-date bounds on column. Dates that do
// not parse as YYYY-MM-DD are ignored.
func applyDateRange(q *gorm.DB, column, startDate, endDate string) *gorm.DB {
	if startDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", startDate, time.Local); err == nil {
			q = q.Where(column+" >= ?", t)
		}
	}
	if endDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", endDate, time.Local); err == nil {
			q = q.Where(column+" < ?", t.AddDate(0, 0, 1))
		}
	}
	return q
}
