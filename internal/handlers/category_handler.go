package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the category catalogue
type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterCategoryRoutes registers category routes; writes are admin only
func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group, guards Guards) {
	g.GET("/categories", h.ListCategories)
	g.POST("/categories", h.CreateCategory, guards.Admin...)
	g.PUT("/categories/:id", h.UpdateCategory, guards.Admin...)
	g.DELETE("/categories/:id", h.DeleteCategory, guards.Admin...)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req models.CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory deactivates a category; it stays in the store
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "category deactivated successfully"})
}
