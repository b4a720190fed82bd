package stock_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	stockApi "backoffice.GO/api/stock"
	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
	stockRepo "backoffice.GO/model/repository/stock"
)

const (
	testUser = "admin"
	testPass = "secret"
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
		&stockEntity.StockRequest{},
		&stockEntity.StockRequestItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		return user == testUser && pass == testPass, nil
	}))
	stockApi.RegisterStockRoutes(apiGroup, db)
	return e
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func doJSON(e *echo.Echo, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedVariant(t *testing.T, db *gorm.DB, title, sku string, qty int) *catalogEntity.Variant {
	t.Helper()
	p := catalogEntity.Product{Title: title, Category: "rings"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	v := catalogEntity.Variant{ProductID: p.ID, SKU: sku, StockQty: qty}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return &v
}

func TestStockInAPI_NoAuth_Returns401(t *testing.T) {
	e := testServer(t, testDB(t))

	body := map[string]interface{}{
		"items": []map[string]interface{}{{"sku": "X", "qty": 1}},
	}
	rec := doJSON(e, http.MethodPost, "/api/products/stock-in", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestStockInAPI_EmptyItems_Returns400(t *testing.T) {
	e := testServer(t, testDB(t))

	body := map[string]interface{}{"items": []map[string]interface{}{}}
	rec := doJSON(e, http.MethodPost, "/api/products/stock-in", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStockInAPI_ReceivesBatch(t *testing.T) {
	db := testDB(t)
	seedVariant(t, db, "Ring", "SI-1", 2)
	e := testServer(t, db)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"sku": "SI-1", "qty": 8, "cost": 40},
		},
		"requesterName": "Bob",
		"note":          "restock",
	}
	rec := doJSON(e, http.MethodPost, "/api/products/stock-in", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	data := resp["data"].(map[string]interface{})
	if data["requestNo"] == nil || data["requestNo"] == "" {
		t.Error("missing requestNo")
	}

	var v catalogEntity.Variant
	db.Where("sku = ?", "SI-1").First(&v)
	if v.StockQty != 10 {
		t.Errorf("qty = %d, want 10", v.StockQty)
	}
}

func TestStockInAPI_UnknownSKU_Returns404AndRollsBack(t *testing.T) {
	db := testDB(t)
	seedVariant(t, db, "Ring", "RB-1", 2)
	e := testServer(t, db)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"sku": "RB-1", "qty": 5},
			{"sku": "GHOST", "qty": 1},
		},
	}
	rec := doJSON(e, http.MethodPost, "/api/products/stock-in", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body: %s", rec.Code, rec.Body.String())
	}

	var v catalogEntity.Variant
	db.Where("sku = ?", "RB-1").First(&v)
	if v.StockQty != 2 {
		t.Errorf("qty = %d, want untouched 2", v.StockQty)
	}
}

func TestStockLogsAPI_StatsAndPagination(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "Ring", "SL-1", 0)
	repo := stockRepo.NewStockRepository(db)
	entries := []struct {
		qty int
		typ stockEntity.MovementType
	}{
		{10, stockEntity.MovementIn},
		{2, stockEntity.MovementAdjustAdd},
		{3, stockEntity.MovementOut},
		{2, stockEntity.MovementAdjustSub},
		{1, stockEntity.MovementReturn},
	}
	for _, en := range entries {
		if _, err := repo.Append(v.ID, en.qty, en.typ, ""); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	e := testServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/products/stock-logs?limit=2", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)

	stats := resp["stats"].(map[string]interface{})
	if stats["in"] != float64(12) {
		t.Errorf("in = %v, want 12", stats["in"])
	}
	if stats["out"] != float64(5) {
		t.Errorf("out = %v, want 5", stats["out"])
	}
	if stats["net"] != float64(8) {
		t.Errorf("net = %v, want 8", stats["net"])
	}

	pagination := resp["pagination"].(map[string]interface{})
	if pagination["total"] != float64(5) {
		t.Errorf("total = %v, want 5", pagination["total"])
	}
	if pagination["totalPages"] != float64(3) {
		t.Errorf("totalPages = %v, want 3", pagination["totalPages"])
	}
	data := resp["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("rows = %d, want 2", len(data))
	}
}

func TestStockLogsAPI_TypeFilterAdjust(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "Ring", "TF-1", 0)
	repo := stockRepo.NewStockRepository(db)
	repo.Append(v.ID, 5, stockEntity.MovementIn, "")
	repo.Append(v.ID, 1, stockEntity.MovementAdjustAdd, "")
	repo.Append(v.ID, 2, stockEntity.MovementAdjustSub, "")
	e := testServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/products/stock-logs?type=adjust", nil, basicAuth(testUser, testPass))
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	data := resp["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("rows = %d, want 2 adjust entries", len(data))
	}
}

func TestRecentStockItemsAPI(t *testing.T) {
	db := testDB(t)
	v := seedVariant(t, db, "Ring", "RS-1", 0)
	repo := stockRepo.NewStockRepository(db)
	for i := 0; i < 8; i++ {
		repo.Append(v.ID, i+1, stockEntity.MovementIn, "")
	}
	e := testServer(t, db)

	rec := doJSON(e, http.MethodGet, "/api/products/recent-stock-items?limit=3", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	data := resp["data"].([]interface{})
	if len(data) != 3 {
		t.Errorf("rows = %d, want 3", len(data))
	}
}
