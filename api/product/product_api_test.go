package product_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	productApi "backoffice.GO/api/product"
	catalogEntity "backoffice.GO/model/entity/catalog"
	stockEntity "backoffice.GO/model/entity/stock"
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
	productApi.RegisterProductRoutes(apiGroup, db)
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

func createBody(title string, skus ...string) map[string]interface{} {
	variants := make([]map[string]interface{}, 0, len(skus))
	for _, sku := range skus {
		variants = append(variants, map[string]interface{}{"sku": sku, "price": 100, "stock_qty": 5})
	}
	return map[string]interface{}{
		"title":    title,
		"category": "rings",
		"variants": variants,
	}
}

func TestProductAPI_NoAuth_Returns401(t *testing.T) {
	e := testServer(t, testDB(t))

	rec := doJSON(e, http.MethodPost, "/api/products", createBody("Ring", "R-1"), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProductAPI_Create_Returns201(t *testing.T) {
	e := testServer(t, testDB(t))

	rec := doJSON(e, http.MethodPost, "/api/products", createBody("Opal Ring", "OP-1", "OP-2"), basicAuth(testUser, testPass))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["success"] != true {
		t.Error("success = false")
	}
	data := resp["data"].(map[string]interface{})
	if data["stock"] != float64(10) {
		t.Errorf("stock = %v, want 10", data["stock"])
	}
	if data["type"] != "variant" {
		t.Errorf("type = %v, want variant", data["type"])
	}
}

func TestProductAPI_Create_ValidationError_Returns400(t *testing.T) {
	e := testServer(t, testDB(t))

	body := map[string]interface{}{"category": "rings"}
	rec := doJSON(e, http.MethodPost, "/api/products", body, basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["success"] != false {
		t.Error("success should be false")
	}
}

func TestProductAPI_List_PaginationEnvelope(t *testing.T) {
	db := testDB(t)
	e := testServer(t, db)

	for i := 0; i < 12; i++ {
		rec := doJSON(e, http.MethodPost, "/api/products", createBody(fmt.Sprintf("Item %d", i), fmt.Sprintf("PG-%d", i)), basicAuth(testUser, testPass))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d: status = %d", i, rec.Code)
		}
	}

	rec := doJSON(e, http.MethodGet, "/api/products?page=2&limit=5", nil, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["count"] != float64(5) {
		t.Errorf("count = %v, want 5", resp["count"])
	}
	pagination := resp["pagination"].(map[string]interface{})
	if pagination["total"] != float64(12) {
		t.Errorf("total = %v, want 12", pagination["total"])
	}
	if pagination["page"] != float64(2) {
		t.Errorf("page = %v, want 2", pagination["page"])
	}
	if pagination["pages"] != float64(3) {
		t.Errorf("pages = %v, want 3", pagination["pages"])
	}
}

func TestProductAPI_List_SearchFilter(t *testing.T) {
	db := testDB(t)
	e := testServer(t, db)

	doJSON(e, http.MethodPost, "/api/products", createBody("Emerald Ring", "EM-1"), basicAuth(testUser, testPass))
	doJSON(e, http.MethodPost, "/api/products", createBody("Bracelet", "BR-1"), basicAuth(testUser, testPass))

	rec := doJSON(e, http.MethodGet, "/api/products?search=emerald", nil, basicAuth(testUser, testPass))
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["count"] != float64(1) {
		t.Errorf("count = %v, want 1", resp["count"])
	}
}

func TestProductAPI_Update(t *testing.T) {
	db := testDB(t)
	e := testServer(t, db)

	rec := doJSON(e, http.MethodPost, "/api/products", createBody("Bangle", "BG-1"), basicAuth(testUser, testPass))
	var created map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&created)
	data := created["data"].(map[string]interface{})
	id := data["id"].(float64)
	variants := data["variants"].([]interface{})
	variantID := variants[0].(map[string]interface{})["id"].(float64)

	update := map[string]interface{}{
		"title":    "Bangle Deluxe",
		"category": "bracelets",
		"status":   "active",
		"variants": []map[string]interface{}{
			{"id": variantID, "sku": "BG-1", "price": 150, "stock_qty": 2},
		},
	}
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/products/%d", int(id)), update, basicAuth(testUser, testPass))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	updated := resp["data"].(map[string]interface{})
	if updated["title"] != "Bangle Deluxe" {
		t.Errorf("title = %v", updated["title"])
	}
	if updated["stock"] != float64(2) {
		t.Errorf("stock = %v, want 2", updated["stock"])
	}
}

func TestProductAPI_Update_UnknownID_Returns404(t *testing.T) {
	e := testServer(t, testDB(t))

	rec := doJSON(e, http.MethodPut, "/api/products/9999", createBody("Ghost", "GH-1"), basicAuth(testUser, testPass))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body: %s", rec.Code, rec.Body.String())
	}
}

func TestProductAPI_Update_BadID_Returns400(t *testing.T) {
	e := testServer(t, testDB(t))

	rec := doJSON(e, http.MethodPut, "/api/products/abc", createBody("Ring", "R-1"), basicAuth(testUser, testPass))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
