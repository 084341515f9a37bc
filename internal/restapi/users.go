package restapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nbbcoffee/coffeehub/internal/domain"
	"gorm.io/gorm"
)

type profileResponse struct {
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	Role            domain.Role `json:"role"`
	FullName        string      `json:"full_name"`
	PhoneNumber     string      `json:"phone_number"`
	Address         string      `json:"address"`
	Kecamatan       string      `json:"kecamatan"`
	City            string      `json:"city"`
	Province        string      `json:"province"`
	PostalCode      string      `json:"postal_code"`
	ProfileImageUrl string      `json:"profile_image_url"`
	ShopName        string      `json:"shop_name"`
	FarmArea        string      `json:"farm_area"`
	CoffeeTypes     string      `json:"coffee_types"`
	Description     string      `json:"description"`
}

type profileUpdatePayload struct {
	FullName        *string `json:"full_name"`
	PhoneNumber     *string `json:"phone_number"`
	Address         *string `json:"address"`
	Kecamatan       *string `json:"kecamatan"`
	City            *string `json:"city"`
	Province        *string `json:"province"`
	PostalCode      *string `json:"postal_code"`
	ProfileImageUrl *string `json:"profile_image_url"`
	ShopName        *string `json:"shop_name"`
	FarmArea        *string `json:"farm_area"`
	CoffeeTypes     *string `json:"coffee_types"`
	Description     *string `json:"description"`
}

func newProfileResponse(u domain.User) profileResponse {
	return profileResponse{
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		FullName:        u.FullName,
		PhoneNumber:     u.PhoneNumber,
		Address:         u.Address,
		Kecamatan:       u.Kecamatan,
		City:            u.City,
		Province:        u.Province,
		PostalCode:      u.PostalCode,
		ProfileImageUrl: u.ProfileImageUrl,
		ShopName:        u.ShopName,
		FarmArea:        u.FarmArea,
		CoffeeTypes:     u.CoffeeTypes,
		Description:     u.Description,
	}
}

func getProfile(c echo.Context) error {
	var user domain.User
	if err := GetDB(c).Where("username = ?", c.Param("username")).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user")
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

// updateProfile applies only the supplied fields, absent fields keep their
// prior values.
func updateProfile(c echo.Context) error {
	var user domain.User
	if err := GetDB(c).Where("username = ?", c.Param("username")).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user")
	}

	var payload profileUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile parameters")
	}

	updates := map[string]interface{}{}
	setString(updates, "full_name", payload.FullName)
	setString(updates, "phone_number", payload.PhoneNumber)
	setString(updates, "address", payload.Address)
	setString(updates, "kecamatan", payload.Kecamatan)
	setString(updates, "city", payload.City)
	setString(updates, "province", payload.Province)
	setString(updates, "postal_code", payload.PostalCode)
	setString(updates, "profile_image_url", payload.ProfileImageUrl)
	setString(updates, "shop_name", payload.ShopName)
	setString(updates, "farm_area", payload.FarmArea)
	setString(updates, "coffee_types", payload.CoffeeTypes)
	setString(updates, "description", payload.Description)

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := GetDB(c).Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile")
		}
		if err := GetDB(c).Where("id = ?", user.ID).First(&user).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to reload profile")
		}
	}
	return c.JSON(http.StatusOK, newProfileResponse(user))
}

func setString(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
