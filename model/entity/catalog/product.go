package catalog

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Derived product types. Never stored; computed from variant shape.
const (
	TypeSingle  = "single"
	TypeVariant = "variant"
	TypeBundle  = "bundle"
)

// Product represents the products table. Images are kept as a JSON-serialized
// ordered list of paths.
type Product struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Category    string         `gorm:"column:category;type:varchar(100);not null" json:"category"`
	Images      datatypes.JSON `gorm:"column:images" json:"images"`
	Status      string         `gorm:"column:status;type:varchar(10);not null;default:active" json:"status"`
	Material    *string        `gorm:"column:material;type:varchar(50)" json:"material"`
	PartTone    *string        `gorm:"column:part_tone;type:varchar(50)" json:"part_tone"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ImageList deserializes the images column. Malformed JSON yields an empty
// list rather than an error.
func (p *Product) ImageList() []string {
	if len(p.Images) == 0 {
		return []string{}
	}
	var paths []string
	if err := json.Unmarshal(p.Images, &paths); err != nil {
		return []string{}
	}
	return paths
}

// DerivedType computes the product type from its variants: bundle if any
// variant is a bundle, variant if more than one variant exists, else single.
func (p *Product) DerivedType() string {
	for _, v := range p.Variants {
		if v.IsBundle {
			return TypeBundle
		}
	}
	if len(p.Variants) > 1 {
		return TypeVariant
	}
	return TypeSingle
}

// TotalStock sums the cached stock quantity over all variants.
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.StockQty
	}
	return total
}
