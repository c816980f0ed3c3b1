package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, guards Guards) {
	g.POST("/posts", h.CreatePost, guards.Required)
	g.GET("/posts/feed", h.Feed, guards.Optional)
	g.GET("/posts/feed/following", h.FollowingFeed, guards.Required)
	g.GET("/posts/user/:userId", h.UserPosts, guards.Optional)
	g.GET("/posts/:id", h.GetPost, guards.Optional)
	g.PUT("/posts/:id", h.UpdatePost, guards.Required)
	g.DELETE("/posts/:id", h.DeletePost, guards.Required)
	g.POST("/posts/:id/like", h.ToggleLike, guards.Required)
	g.POST("/posts/:id/report", h.ReportPost, guards.Required)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Feed lists active posts, newest first, optionally narrowed to a category
func (h *PostHandler) Feed(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	cat, err := category(c)
	if err != nil {
		return err
	}
	page, err := h.posts.Feed(c.Request().Context(), cat, q, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PostHandler) FollowingFeed(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.posts.FollowingFeed(c.Request().Context(), p, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PostHandler) UserPosts(c echo.Context) error {
	author, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.posts.ByAuthor(c.Request().Context(), author, q, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), id, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost replaces a post's content
func (h *PostHandler) UpdatePost(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost hides a post from every listing
func (h *PostHandler) DeletePost(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}

func (h *PostHandler) ToggleLike(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.posts.ToggleLike(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PostHandler) ReportPost(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.posts.Report(c.Request().Context(), p, id, req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "post reported successfully"})
}
