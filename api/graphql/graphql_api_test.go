package graphql_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	gqlApi "backoffice.GO/api/graphql"
	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
	stockRepo "backoffice.GO/model/repository/stock"
)

func testDB(t *testing.T) *gorm.DB {
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

func testServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	gqlApi.RegisterGraphQLRoutes(e, db)
	return e
}

func query(t *testing.T, e *echo.Echo, q string) map[string]interface{} {
	t.Helper()
	b, _ := json.Marshal(map[string]string{"query": q})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data   map[string]interface{} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %+v", resp.Errors)
	}
	return resp.Data
}

func seedProduct(t *testing.T, db *gorm.DB, title string, variants ...catalogEntity.Variant) *catalogEntity.Product {
	t.Helper()
	p := catalogEntity.Product{Title: title, Category: "rings"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	for i := range variants {
		variants[i].ProductID = p.ID
		if err := db.Create(&variants[i]).Error; err != nil {
			t.Fatalf("seed variant: %v", err)
		}
	}
	return &p
}

func TestSchemaParses(t *testing.T) {
	if _, err := gqlApi.NewSchema(testDB(t)); err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
}

func TestProductsQuery(t *testing.T) {
	db := testDB(t)
	seedProduct(t, db, "Opal Ring",
		catalogEntity.Variant{SKU: "OP-S", StockQty: 4},
		catalogEntity.Variant{SKU: "OP-M", StockQty: 6},
	)
	e := testServer(t, db)

	data := query(t, e, `{
		products {
			total
			items { title stock type variants { sku stockQty } }
		}
	}`)

	page := data["products"].(map[string]interface{})
	if page["total"] != float64(1) {
		t.Errorf("total = %v, want 1", page["total"])
	}
	items := page["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["stock"] != float64(10) {
		t.Errorf("stock = %v, want 10", item["stock"])
	}
	if item["type"] != "variant" {
		t.Errorf("type = %v, want variant", item["type"])
	}
	if len(item["variants"].([]interface{})) != 2 {
		t.Errorf("variants = %v, want 2", item["variants"])
	}
}

func TestProductBySKUQuery(t *testing.T) {
	db := testDB(t)
	seedProduct(t, db, "Gold Chain", catalogEntity.Variant{SKU: "GC-40", StockQty: 2})
	e := testServer(t, db)

	data := query(t, e, `{ product(sku: "GC-40") { title stock } }`)
	product := data["product"].(map[string]interface{})
	if product["title"] != "Gold Chain" {
		t.Errorf("title = %v", product["title"])
	}

	// Unknown SKUs resolve to null, not an error
	data = query(t, e, `{ product(sku: "NOPE") { title } }`)
	if data["product"] != nil {
		t.Errorf("product = %v, want null", data["product"])
	}
}

func TestStockStatsQuery(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db, "Ring", catalogEntity.Variant{SKU: "ST-1"})
	var v catalogEntity.Variant
	db.Where("product_id = ?", p.ID).First(&v)

	repo := stockRepo.NewStockRepository(db)
	repo.Append(v.ID, 10, stockEntity.MovementIn, "")
	repo.Append(v.ID, 3, stockEntity.MovementOut, "")
	e := testServer(t, db)

	data := query(t, e, `{ stockStats { totalIn totalOut net } }`)
	stats := data["stockStats"].(map[string]interface{})
	if stats["totalIn"] != float64(10) || stats["totalOut"] != float64(3) || stats["net"] != float64(7) {
		t.Errorf("stats = %v, want in=10 out=3 net=7", stats)
	}
}

func TestExtensionQuery(t *testing.T) {
	gqlApi.Register("echoback", func(ctx context.Context, argsJSON string) (string, error) {
		return argsJSON, nil
	})
	e := testServer(t, testDB(t))

	data := query(t, e, `{ extension(name: "echoback", argsJson: "{\"x\":1}") }`)
	if data["extension"] != `{"x":1}` {
		t.Errorf("extension = %v", data["extension"])
	}
}
