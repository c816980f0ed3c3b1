package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes. The post id shares
// the ":id" segment with the post routes so the router keeps one param node.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, guards Guards) {
	g.POST("/posts/:id/comments", h.CreateComment, guards.Required)
	g.GET("/posts/:id/comments", h.ListComments, guards.Optional)
	g.PUT("/comments/:id", h.UpdateComment, guards.Required)
	g.DELETE("/comments/:id", h.DeleteComment, guards.Required)
	g.POST("/comments/:id/like", h.ToggleLike, guards.Required)
	g.POST("/comments/:id/report", h.ReportComment, guards.Required)
}

// CreateComment adds a comment to an active post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Request().Context(), p, postID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments lists a post's active comments, oldest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.comments.ListByPost(c.Request().Context(), postID, q, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) UpdateComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted successfully"})
}

func (h *CommentHandler) ToggleLike(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.comments.ToggleLike(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CommentHandler) ReportComment(c echo.Context) error {
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
	if err := h.comments.Report(c.Request().Context(), p, id, req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "comment reported successfully"})
}
