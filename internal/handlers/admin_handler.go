package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the moderation and user management endpoints
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// RegisterAdminRoutes registers the admin routes. The group must already be
// guarded by authentication and the ADMIN role.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/reports", h.ListReports)
	g.PUT("/reports/:reportId", h.ReviewReport)
	g.DELETE("/posts/:id", h.DeletePost)
	g.DELETE("/comments/:id", h.DeleteComment)

	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)
	g.PUT("/users/:id/block", h.BlockUser)
	g.PUT("/users/:id/role", h.ChangeRole)

	g.GET("/statistics", h.Statistics)
	g.GET("/moderation-log", h.ModerationLog)
}

// ListReports flattens post and comment reports, optionally filtered by status
func (h *AdminHandler) ListReports(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	status := models.ReportStatus(c.QueryParam("status"))
	switch status {
	case "", models.ReportPending, models.ReportReviewed, models.ReportDismissed:
	default:
		return apperrors.Validationf("status must be one of pending, reviewed, dismissed")
	}
	page, err := h.admin.ListReports(c.Request().Context(), status, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) ReviewReport(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.ReviewReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.admin.ReviewReport(c.Request().Context(), p, c.Param("reportId"), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "report updated successfully"})
}

func (h *AdminHandler) DeletePost(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.admin.DeletePost(c.Request().Context(), p, id, req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted permanently"})
}

func (h *AdminHandler) DeleteComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.admin.DeleteComment(c.Request().Context(), p, id, req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted permanently"})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.admin.ListUsers(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.AdminCreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.CreateUser(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.UpdateUser(c.Request().Context(), p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admin.DeleteUser(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}

func (h *AdminHandler) BlockUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.BlockUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.BlockUser(c.Request().Context(), p, id, *req.Blocked, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.ChangeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.ChangeRole(c.Request().Context(), p, id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.admin.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ModerationLog pages through the audit trail, newest first
func (h *AdminHandler) ModerationLog(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.admin.ModerationLog(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
