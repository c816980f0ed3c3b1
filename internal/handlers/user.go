package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile and follow requests
type UserHandler struct {
	accounts *services.AccountService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// RegisterProfileRoutes registers profile and follow routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, guards Guards) {
	g.GET("/users/me", h.GetMe, guards.Required)
	g.PUT("/users/me", h.UpdateMe, guards.Required)
	g.PUT("/users/me/password", h.ChangePassword, guards.Required)
	g.GET("/users/:id", h.GetUser, guards.Optional)
	g.POST("/users/:id/follow", h.Follow, guards.Required)
	g.DELETE("/users/:id/follow", h.Unfollow, guards.Required)
	g.GET("/users/:id/followers", h.Followers)
	g.GET("/users/:id/following", h.Following)
}

// GetMe returns the caller's own profile, email included.
func (h *UserHandler) GetMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), p.UserID, &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUser returns another account's public profile.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.accounts.Profile(c.Request().Context(), id, middleware.Viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.UpdateProfile(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ChangePassword(c.Request().Context(), p, req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
}

func (h *UserHandler) Follow(c echo.Context) error {
	return h.setFollow(c, true)
}

func (h *UserHandler) Unfollow(c echo.Context) error {
	return h.setFollow(c, false)
}

func (h *UserHandler) setFollow(c echo.Context, follow bool) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	target, err := pathID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.accounts.SetFollow(c.Request().Context(), p, target, follow)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Followers(c echo.Context) error {
	return h.connections(c, true)
}

func (h *UserHandler) Following(c echo.Context) error {
	return h.connections(c, false)
}

func (h *UserHandler) connections(c echo.Context, followers bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := pageQuery(c)
	if err != nil {
		return err
	}
	page, err := h.accounts.Connections(c.Request().Context(), id, followers, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
