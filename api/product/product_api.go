package product

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice.GO/api"
	catalogRepo "backoffice.GO/model/repository/catalog"
	catalogService "backoffice.GO/service/catalog"
)

func init() {
	api.RegisterModule(RegisterProductRoutes)
}

func RegisterProductRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")

	// POST /api/products – create product with variants (auth required via /api middleware)
	g.POST("", func(c echo.Context) error {
		var input catalogService.ProductInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body", "error": err.Error()})
		}

		product, err := catalogService.CreateProduct(db, input)
		if err != nil {
			return api.WriteError(c, err, "Failed to create product")
		}

		generateDerivatives(input.Images)

		return c.JSON(http.StatusCreated, echo.Map{
			"success": true,
			"message": "Product created successfully",
			"data":    product,
		})
	})

	// GET /api/products – filtered, sorted, paginated list
	g.GET("", func(c echo.Context) error {
		page := queryInt(c, "page", 1)
		limit := queryInt(c, "limit", 10)
		filter := catalogRepo.ListFilter{
			Search:   c.QueryParam("search"),
			Category: c.QueryParam("category"),
			Status:   c.QueryParam("status"),
			Sort:     c.QueryParam("sort"),
		}

		result, err := catalogService.ListProducts(db, filter, page, limit)
		if err != nil {
			return api.WriteError(c, err, "Failed to fetch products")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"count":   len(result.Products),
			"pagination": echo.Map{
				"total": result.Total,
				"page":  page,
				"pages": totalPages(result.Total, limit),
			},
			"data": result.Products,
		})
	})

	// PUT /api/products/:id – update scalars and apply the variant set diff
	g.PUT("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid product id"})
		}

		var input catalogService.ProductInput
		if err := c.Bind(&input); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body", "error": err.Error()})
		}

		product, err := catalogService.UpdateProduct(db, uint(id), input)
		if err != nil {
			return api.WriteError(c, err, "Failed to update product")
		}

		generateDerivatives(input.Images)

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Product updated successfully",
			"data":    product,
		})
	})
}

// generateDerivatives builds thumbnails/WebP copies for stored images.
// Best effort: a missing or unreadable file never fails the request.
func generateDerivatives(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := catalogService.GenerateDerivatives(p); err != nil {
			log.Printf("media derivative skipped: %v", err)
		}
	}
}

func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func totalPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
