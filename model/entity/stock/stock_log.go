package stock

import "time"

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementIn        MovementType = "IN"
	MovementOut       MovementType = "OUT"
	MovementAdjustAdd MovementType = "ADJUST_ADD"
	MovementAdjustSub MovementType = "ADJUST_SUB"
	MovementReturn    MovementType = "RETURN"
)

// Sign returns the effect of the movement on stock: +1 adds the quantity,
// -1 subtracts it.
func (t MovementType) Sign() int {
	switch t {
	case MovementOut, MovementAdjustSub:
		return -1
	default:
		return 1
	}
}

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustAdd, MovementAdjustSub, MovementReturn:
		return true
	}
	return false
}

// StockLog is one immutable ledger entry: a typed stock change for a variant.
// Rows are only ever inserted, never updated or deleted.
type StockLog struct {
	ID        uint         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	VariantID uint         `gorm:"column:variant_id;index;not null" json:"variant_id"`
	Quantity  int          `gorm:"column:quantity;not null" json:"quantity"`
	Type      MovementType `gorm:"column:type;type:varchar(12);not null;default:IN" json:"type"`
	Note      string       `gorm:"column:note;type:varchar(255)" json:"note"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (StockLog) TableName() string {
	return "stock_logs"
}
