package stock

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"backoffice.GO/api"
	stockRepo "backoffice.GO/model/repository/stock"
	stockService "backoffice.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/products")

	// POST /api/products/stock-in – receive a batch of stock
	g.POST("/stock-in", func(c echo.Context) error {
		var body struct {
			Items         []stockService.ReceiveItem `json:"items"`
			RequesterName string                     `json:"requesterName"`
			Note          string                     `json:"note"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid items data", "error": err.Error()})
		}
		if len(body.Items) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid items data"})
		}

		requestNo, err := stockService.ReceiveStock(db, body.Items, body.RequesterName, body.Note)
		if err != nil {
			return api.WriteError(c, err, "Failed to create stock request")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Stock request created successfully",
			"data":    echo.Map{"requestNo": requestNo},
		})
	})

	// GET /api/products/stock-logs – ledger audit view with movement stats
	g.GET("/stock-logs", func(c echo.Context) error {
		page := queryInt(c, "page", 1)
		limit := queryInt(c, "limit", 50)
		filter := stockRepo.LogFilter{
			Search:    c.QueryParam("search"),
			Type:      c.QueryParam("type"),
			StartDate: c.QueryParam("startDate"),
			EndDate:   c.QueryParam("endDate"),
		}

		repo := stockRepo.NewStockRepository(db)
		logs, total, err := repo.Query(filter, page, limit)
		if err != nil {
			return api.WriteError(c, err, "Failed to fetch stock logs")
		}
		stats, err := repo.MovementStats(stockRepo.StatsFilter{
			StartDate: filter.StartDate,
			EndDate:   filter.EndDate,
		})
		if err != nil {
			return api.WriteError(c, err, "Failed to fetch stock stats")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data":    logs,
			"stats": echo.Map{
				"in":  stats.Incoming(),
				"out": stats.Outgoing(),
				"net": stats.Net(),
			},
			"pagination": echo.Map{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages(total, limit),
			},
		})
	})

	// GET /api/products/recent-stock-items – latest ledger entries for the dashboard
	g.GET("/recent-stock-items", func(c echo.Context) error {
		limit := queryInt(c, "limit", 5)
		items, err := stockRepo.NewStockRepository(db).Recent(limit)
		if err != nil {
			return api.WriteError(c, err, "Failed to fetch recent stock items")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data":    items,
		})
	})
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
