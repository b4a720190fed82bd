package catalog_test

import (
	"context"
	"testing"

	catalogService "backoffice.GO/service/catalog"
)

func TestSearchProducts_SQLFallback(t *testing.T) {
	db := testDB(t)

	catalogService.CreateProduct(db, catalogService.ProductInput{
		Title:    "Emerald Ring",
		Category: "rings",
		Variants: []catalogService.VariantInput{{SKU: "EM-1", Price: 450, StockQty: 3}},
	})
	catalogService.CreateProduct(db, catalogService.ProductInput{
		Title:    "Bracelet",
		Category: "bracelets",
		Variants: []catalogService.VariantInput{{SKU: "BR-1", Price: 90}},
	})

	// Without ELASTICSEARCH_HOST the search degrades to SQL matching
	hits, total, err := catalogService.SearchProducts(context.Background(), db, "emerald", 1, 10)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if total != 1 || len(hits) != 1 {
		t.Fatalf("total = %d, hits = %d, want 1/1", total, len(hits))
	}
	hit := hits[0]
	if hit.Title != "Emerald Ring" || hit.SKU != "EM-1" || hit.Stock != 3 || hit.Price != 450 {
		t.Errorf("hit = %+v", hit)
	}
}

func TestSearchProducts_SKUMatch(t *testing.T) {
	db := testDB(t)

	catalogService.CreateProduct(db, catalogService.ProductInput{
		Title:    "Plain Band",
		Category: "rings",
		Variants: []catalogService.VariantInput{{SKU: "RING-X"}},
	})

	_, total, err := catalogService.SearchProducts(context.Background(), db, "ring-x", 1, 10)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}
