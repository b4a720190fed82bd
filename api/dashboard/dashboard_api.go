package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice.GO/api"
	stockService "backoffice.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterDashboardRoutes)
}

func RegisterDashboardRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")

	// GET /api/products/stats – dashboard KPIs (cached)
	g.GET("/stats", func(c echo.Context) error {
		stats, err := stockService.GetDashboardStats(db)
		if err != nil {
			return api.WriteError(c, err, "Failed to fetch dashboard stats")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data":    stats,
		})
	})
}
