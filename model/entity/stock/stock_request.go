package stock

import "time"

// Stock request statuses.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestCancelled = "cancelled"
)

// StockRequest is the header row of one receiving event. Receiving writes
// stock truth to the ledger directly; the header is kept for the audit trail
// of who received a batch and when.
type StockRequest struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequestNo     string     `gorm:"column:request_no;type:varchar(50);uniqueIndex;not null" json:"request_no"`
	RequesterName string     `gorm:"column:requester_name;type:varchar(100)" json:"requester_name"`
	Note          string     `gorm:"column:note;type:text" json:"note"`
	Status        string     `gorm:"column:status;type:varchar(10);not null;default:pending" json:"status"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ApprovedAt    *time.Time `gorm:"column:approved_at" json:"approved_at"`
}

func (StockRequest) TableName() string {
	return "stock_requests"
}

// StockRequestItem is a line item of a stock request. The current receiving
// flow writes the ledger directly and does not populate these rows; the table
// stays in the schema for compatibility.
type StockRequestItem struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequestID   uint    `gorm:"column:request_id;index;not null" json:"request_id"`
	VariantID   uint    `gorm:"column:variant_id;index;not null" json:"variant_id"`
	Quantity    int     `gorm:"column:quantity;not null" json:"quantity"`
	CostPerUnit float64 `gorm:"column:cost_per_unit;type:decimal(10,2);not null;default:0" json:"cost_per_unit"`
}

func (StockRequestItem) TableName() string {
	return "stock_request_items"
}
