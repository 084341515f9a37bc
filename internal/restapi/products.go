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

type productPayload struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Description    string `json:"description"`
	Price          int64  `json:"price" validate:"min=0"`
	Stock          int    `json:"stock" validate:"min=0"`
	ImageUrl       string `json:"image_url"`
	SellerUsername string `json:"seller_username" validate:"required"`
}

type productUpdatePayload struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,min=0"`
	Stock       *int    `json:"stock" validate:"omitempty,min=0"`
	ImageUrl    *string `json:"image_url"`
}

type productView struct {
	ID          int64  `gorm:"column:id" json:"id,string"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	Price       int64  `gorm:"column:price" json:"price"`
	Stock       int    `gorm:"column:stock" json:"stock"`
	ImageUrl    string `gorm:"column:image_url" json:"image_url"`
	SellerId    int64  `gorm:"column:seller_id" json:"seller_id,string"`
	SellerName  string `gorm:"column:seller_name" json:"seller_name"`
}

// listProducts resolves the seller name with one joined query rather than a
// per-row lookup.
func listProducts(c echo.Context) error {
	var rows []productView
	err := GetDB(c).Table("products").
		Select("products.id, products.name, products.description, products.price, products.stock, products.image_url, products.seller_id, users.username AS seller_name").
		Joins("LEFT JOIN users ON users.id = products.seller_id").
		Order("products.id DESC").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}
	if rows == nil {
		rows = []productView{}
	}
	return c.JSON(http.StatusOK, rows)
}

func listSellerProducts(c echo.Context) error {
	var seller domain.User
	if err := GetDB(c).Where("username = ?", c.Param("username")).First(&seller).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusOK, []productView{})
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query seller")
	}

	var products []domain.Product
	if err := GetDB(c).Where("seller_id = ?", seller.ID).Order("id DESC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products")
	}

	rows := make([]productView, 0, len(products))
	for _, p := range products {
		rows = append(rows, newProductView(p, seller.Username))
	}
	return c.JSON(http.StatusOK, rows)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	var seller domain.User
	if err := GetDB(c).Where("username = ?", payload.SellerUsername).First(&seller).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query seller")
	}

	now := time.Now()
	product := domain.Product{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
		SellerId:    seller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
	}
	return c.JSON(http.StatusOK, newProductView(product, seller.Username))
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product")
	}

	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Price != nil {
		updates["price"] = *payload.Price
	}
	if payload.Stock != nil {
		updates["stock"] = *payload.Stock
	}
	if payload.ImageUrl != nil {
		updates["image_url"] = strings.TrimSpace(*payload.ImageUrl)
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := GetDB(c).Model(&domain.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product updated"})
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID")
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product")
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

func newProductView(p domain.Product, sellerName string) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageUrl:    p.ImageUrl,
		SellerId:    p.SellerId,
		SellerName:  sellerName,
	}
}
