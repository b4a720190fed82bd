package catalog

import "time"

// Variant represents the variants table. SKU is the business key. StockQty is
// a materialized cache of the stock ledger: it must only change together with
// a matching stock_logs append, inside the same transaction.
type Variant struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID   uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	SKU         string    `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	OptionName  string    `gorm:"column:option_name;type:varchar(100)" json:"option_name"`
	Price       float64   `gorm:"column:price;type:decimal(10,2);not null;default:0" json:"price"`
	DefaultCost float64   `gorm:"column:default_cost;type:decimal(10,2);not null;default:0" json:"default_cost"`
	StockQty    int       `gorm:"column:stock_qty;not null;default:0" json:"stock_qty"`
	IsBundle    bool      `gorm:"column:is_bundle;not null;default:false" json:"is_bundle"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Variant) TableName() string {
	return "variants"
}
