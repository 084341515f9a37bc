package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
)

type statsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPetani   int64 `json:"total_petani"`
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
	TotalOrders   int64 `json:"total_orders"`
	TotalRevenue  int64 `json:"total_revenue"`
}

// adminStats aggregates marketplace counters in six queries. Sums come back
// as COALESCE(..., 0) so an empty table reads as zero, not NULL.
func adminStats(c echo.Context) error {
	db := GetDB(c)
	var stats statsResponse

	if err := db.Model(&domain.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count users")
	}
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RolePetani).Count(&stats.TotalPetani).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count petani")
	}
	if err := db.Model(&domain.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count products")
	}
	if err := db.Model(&domain.Product{}).
		Select("COALESCE(SUM(stock), 0)").Scan(&stats.TotalStock).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sum stock")
	}
	if err := db.Model(&domain.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count orders")
	}
	if err := db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sum revenue")
	}

	return c.JSON(http.StatusOK, stats)
}
