package catalog

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	catalogEntity "backoffice.GO/model/entity/catalog"
)

// ProductRepository owns products and their SKU variants.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy bound to the given transaction handle.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(p *catalogEntity.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) CreateVariant(v *catalogEntity.Variant) error {
	return r.db.Create(v).Error
}

// FindByID loads a product with its variants.
func (r *ProductRepository) FindByID(id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("Variants").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindVariantBySKU resolves a SKU to its variant.
func (r *ProductRepository) FindVariantBySKU(sku string) (*catalogEntity.Variant, error) {
	var v catalogEntity.Variant
	err := r.db.Where("sku = ?", sku).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("product with SKU %s", sku)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepository) VariantsByProduct(productID uint) ([]catalogEntity.Variant, error) {
	var variants []catalogEntity.Variant
	err := r.db.Where("product_id = ?", productID).Order("id").Find(&variants).Error
	return variants, err
}

func (r *ProductRepository) FindVariantByID(id uint) (*catalogEntity.Variant, error) {
	var v catalogEntity.Variant
	err := r.db.First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("variant %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ProductRepository) DeleteVariants(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&catalogEntity.Variant{}, ids).Error
}

// UpdateVariantFields updates the non-stock columns of a variant. Stock never
// changes through this path.
func (r *ProductRepository) UpdateVariantFields(id uint, sku, optionName string, price float64) error {
	return r.db.Model(&catalogEntity.Variant{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sku":         sku,
		"option_name": optionName,
		"price":       price,
	}).Error
}

// SetVariantStock overwrites the cached stock quantity. Callers must append
// the reconciling ledger entry in the same transaction.
func (r *ProductRepository) SetVariantStock(id uint, qty int) error {
	return r.db.Model(&catalogEntity.Variant{}).Where("id = ?", id).Update("stock_qty", qty).Error
}

// ReceiveVariantStock increments the cached stock quantity and records the
// latest unit cost. The increment runs in SQL so concurrent receives never
// lose updates. Callers must append the matching IN ledger entry in the same
// transaction.
func (r *ProductRepository) ReceiveVariantStock(id uint, qty int, cost float64) error {
	return r.db.Model(&catalogEntity.Variant{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock_qty":    gorm.Expr("stock_qty + ?", qty),
		"default_cost": cost,
	}).Error
}

// ListFilter is the structured filter for product list queries.
type ListFilter struct {
	Search   string
	Category string
	Status   string // only "active"/"inactive" are applied, anything else is ignored
	Sort     string // stock_desc | stock_asc | oldest | "" (newest first)
}

func (r *ProductRepository) listQuery(filter ListFilter) *gorm.DB {
	q := r.db.Model(&catalogEntity.Product{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		skuMatch := r.db.Model(&catalogEntity.Variant{}).Select("product_id").Where("LOWER(sku) LIKE ?", like)
		q = q.Where("LOWER(title) LIKE ? OR id IN (?)", like, skuMatch)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status == catalogEntity.StatusActive || filter.Status == catalogEntity.StatusInactive {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

// List returns a page of products with variants preloaded, plus the total
// count unaffected by pagination. Stock sorts use the per-product sum of
// variant stock_qty.
func (r *ProductRepository) List(filter ListFilter, page, limit int) ([]catalogEntity.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := r.listQuery(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	switch filter.Sort {
	case "stock_desc":
		order = "computed_stock DESC, id DESC"
	case "stock_asc":
		order = "computed_stock ASC, id DESC"
	case "oldest":
		order = "created_at ASC, id ASC"
	}

	var products []catalogEntity.Product
	err := r.listQuery(filter).
		Select("products.*, COALESCE((SELECT SUM(stock_qty) FROM variants WHERE variants.product_id = products.id), 0) AS computed_stock").
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Preload("Variants").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// NonBundleVariants returns every variant that participates in the ledger.
func (r *ProductRepository) NonBundleVariants() ([]catalogEntity.Variant, error) {
	var variants []catalogEntity.Variant
	err := r.db.Where("is_bundle = ?", false).Order("id").Find(&variants).Error
	return variants, err
}

// CountProducts returns the total product count.
func (r *ProductRepository) CountProducts() (int64, error) {
	var n int64
	err := r.db.Model(&catalogEntity.Product{}).Count(&n).Error
	return n, err
}

// CountProductsSince counts products created at or after t.
func (r *ProductRepository) CountProductsSince(t time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&catalogEntity.Product{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

// StockValue is the inventory valuation: sum of stock_qty * default_cost over
// all variants.
func (r *ProductRepository) StockValue() (float64, error) {
	var total float64
	err := r.db.Raw(`SELECT COALESCE(SUM(stock_qty * default_cost), 0) FROM variants`).Scan(&total).Error
	return total, err
}

// LowStockCount counts variants at or below the threshold (inclusive).
func (r *ProductRepository) LowStockCount(threshold int) (int64, error) {
	var n int64
	err := r.db.Model(&catalogEntity.Variant{}).Where("stock_qty <= ?", threshold).Count(&n).Error
	return n, err
}
