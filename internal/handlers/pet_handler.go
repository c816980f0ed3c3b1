package handlers

import (
	"net/http"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PetHandler handles HTTP requests related to pets
type PetHandler struct {
	pets *services.PetService
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(pets *services.PetService) *PetHandler {
	return &PetHandler{pets: pets}
}

// RegisterPetRoutes registers pet-related routes
func (h *PetHandler) RegisterPetRoutes(g *echo.Group, guards Guards) {
	g.POST("/pets", h.CreatePet, guards.Required)
	g.GET("/pets/my-pets", h.MyPets, guards.Required)
	g.GET("/pets/:id", h.GetPet)
	g.PUT("/pets/:id", h.UpdatePet, guards.Required)
	g.DELETE("/pets/:id", h.DeletePet, guards.Required)
}

// CreatePet creates a pet owned by the caller
func (h *PetHandler) CreatePet(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req models.CreatePetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pet, err := h.pets.Create(c.Request().Context(), p, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pet)
}

func (h *PetHandler) MyPets(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	pets, err := h.pets.ListMine(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pets)
}

// GetPet retrieves a pet by ID with its owner summary
func (h *PetHandler) GetPet(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	pet, err := h.pets.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}

func (h *PetHandler) UpdatePet(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdatePetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pet, err := h.pets.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}

func (h *PetHandler) DeletePet(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.pets.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "pet deleted successfully"})
}
