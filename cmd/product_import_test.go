package cmd

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
)

func importTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Product{},
		&catalogEntity.Variant{},
		&stockEntity.StockLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestImportProductsCSV_GroupsConsecutiveTitles(t *testing.T) {
	db := importTestDB(t)

	csv := `title,category,status,sku,option_name,price,default_cost,stock_qty,is_bundle
Opal Ring,rings,active,OP-S,S,120,60,10,0
Opal Ring,rings,active,OP-M,M,120,60,5,0
Gold Chain,chains,active,GC-40,,590,300,2,0
`
	res, err := ImportProductsCSV(db, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProductsCSV: %v", err)
	}
	if res.TotalRows != 3 || res.Products != 2 || res.Variants != 3 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 3 rows / 2 products / 3 variants", res)
	}

	var ring catalogEntity.Product
	if err := db.Preload("Variants").Where("title = ?", "Opal Ring").First(&ring).Error; err != nil {
		t.Fatalf("load ring: %v", err)
	}
	if len(ring.Variants) != 2 {
		t.Errorf("ring variants = %d, want 2", len(ring.Variants))
	}

	// Initial stock went through the ledger
	var logCount int64
	db.Model(&stockEntity.StockLog{}).Count(&logCount)
	if logCount != 3 {
		t.Errorf("ledger entries = %d, want 3", logCount)
	}
}

func TestImportProductsCSV_SkipsBadRows(t *testing.T) {
	db := importTestDB(t)

	csv := `title,category,sku,stock_qty
,rings,NO-TITLE,1
Valid Ring,rings,VR-1,4
`
	res, err := ImportProductsCSV(db, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProductsCSV: %v", err)
	}
	if res.Products != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 product / 1 skipped", res)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", res.Warnings)
	}
}

func TestImportProductsCSV_MissingColumn(t *testing.T) {
	db := importTestDB(t)

	csv := "title,sku\nRing,R-1\n"
	if _, err := ImportProductsCSV(db, strings.NewReader(csv)); err == nil {
		t.Error("missing category column accepted")
	}
}

func TestImportProductsCSV_FailedProductCountsAsSkipped(t *testing.T) {
	db := importTestDB(t)

	// Missing SKU fails product validation
	csv := `title,category,sku
Broken Ring,rings,
Fine Ring,rings,FR-1
`
	res, err := ImportProductsCSV(db, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProductsCSV: %v", err)
	}
	if res.Products != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 product / 1 skipped", res)
	}
}
