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

type blogPayload struct {
	Title          string `json:"title" validate:"required,min=1,max=200"`
	Content        string `json:"content" validate:"required"`
	ImageUrl       string `json:"image_url"`
	AuthorUsername string `json:"author_username" validate:"required"`
}

type blogUpdatePayload struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	ImageUrl *string `json:"image_url"`
}

func listBlogs(c echo.Context) error {
	var blogs []domain.Blog
	if err := GetDB(c).Order("created_at DESC").Find(&blogs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query blogs")
	}
	return c.JSON(http.StatusOK, blogs)
}

func createBlog(c echo.Context) error {
	var payload blogPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse blog parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	blog := domain.Blog{
		ID:             common.UUIDint64(),
		Title:          strings.TrimSpace(payload.Title),
		Content:        payload.Content,
		ImageUrl:       strings.TrimSpace(payload.ImageUrl),
		AuthorUsername: payload.AuthorUsername,
		CreatedAt:      time.Now(),
	}
	if err := GetDB(c).Create(&blog).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create blog")
	}
	return c.JSON(http.StatusOK, blog)
}

func updateBlog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid blog ID")
	}

	var blog domain.Blog
	if err := GetDB(c).Where("id = ?", id).First(&blog).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BLOG_NOT_FOUND", "Blog not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query blog")
	}

	var payload blogUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse blog parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Title != nil {
		updates["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.Content != nil {
		updates["content"] = *payload.Content
	}
	if payload.ImageUrl != nil {
		updates["image_url"] = strings.TrimSpace(*payload.ImageUrl)
	}

	if len(updates) > 0 {
		if err := GetDB(c).Model(&domain.Blog{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update blog")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Blog updated"})
}

func deleteBlog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid blog ID")
	}

	var blog domain.Blog
	if err := GetDB(c).Where("id = ?", id).First(&blog).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BLOG_NOT_FOUND", "Blog not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query blog")
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Blog{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete blog")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Blog deleted"})
}
