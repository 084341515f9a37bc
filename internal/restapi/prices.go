package restapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"github.com/nbbcoffee/coffeehub/pkg/common"
	"gorm.io/gorm"
)

type pricePayload struct {
	CoffeeType  string `json:"coffee_type" validate:"required,min=1,max=64"`
	Price       int64  `json:"price" validate:"min=0"`
	Description string `json:"description"`
}

func listPrices(c echo.Context) error {
	var prices []domain.CoffeePrice
	if err := GetDB(c).Order("updated_at DESC").Find(&prices).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query prices")
	}
	return c.JSON(http.StatusOK, prices)
}

// upsertPrice keeps one row per coffee type. Posting an existing type
// overwrites its price and description instead of adding a second row.
func upsertPrice(c echo.Context) error {
	var payload pricePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse price parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}
	coffeeType := strings.TrimSpace(payload.CoffeeType)

	var price domain.CoffeePrice
	err := GetDB(c).Where("coffee_type = ?", coffeeType).First(&price).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		price = domain.CoffeePrice{
			ID:          common.UUIDint64(),
			CoffeeType:  coffeeType,
			Price:       payload.Price,
			Description: payload.Description,
			UpdatedAt:   time.Now(),
		}
		if err := GetDB(c).Create(&price).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create price")
		}
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query price")
	default:
		updates := map[string]interface{}{
			"price":       payload.Price,
			"description": payload.Description,
			"updated_at":  time.Now(),
		}
		if err := GetDB(c).Model(&domain.CoffeePrice{}).Where("id = ?", price.ID).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update price")
		}
		if err := GetDB(c).Where("id = ?", price.ID).First(&price).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to reload price")
		}
	}
	return c.JSON(http.StatusOK, price)
}

func deletePrice(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid price ID")
	}

	var price domain.CoffeePrice
	if err := GetDB(c).Where("id = ?", id).First(&price).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRICE_NOT_FOUND", "Price not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query price")
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.CoffeePrice{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete price")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Price deleted"})
}
