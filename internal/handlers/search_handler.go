package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group, guards Guards) {
	g.GET("/search/users", h.SearchUsers)
	g.GET("/search/posts", h.SearchPosts, guards.Optional)
}

// SearchUsers matches active accounts by username or full name
func (h *SearchHandler) SearchUsers(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.search.Users(c.Request().Context(), c.QueryParam("q"), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// SearchPosts matches active posts by content
func (h *SearchHandler) SearchPosts(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	cat, err := category(c)
	if err != nil {
		return err
	}
	page, err := h.search.Posts(c.Request().Context(), c.QueryParam("q"), cat, q, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
