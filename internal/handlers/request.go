package handlers

import (
	"strconv"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guards are the access-control middlewares handlers attach per route.
type Guards struct {
	Required echo.MiddlewareFunc
	Optional echo.MiddlewareFunc
	Admin    []echo.MiddlewareFunc
}

type messageResponse struct {
	Message string `json:"message"`
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validationf("invalid request payload")
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.Validationf("invalid %s", name)
	}
	return id, nil
}

// pageQuery reads page and limit, applying defaults and rejecting bad values.
func pageQuery(c echo.Context) (models.PageQuery, error) {
	q := models.PageQuery{Page: models.DefaultPage, Limit: models.DefaultLimit}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > models.MaxPage {
			return q, apperrors.Validationf("page must be an integer between 1 and %d", models.MaxPage)
		}
		q.Page = n
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > models.MaxLimit {
			return q, apperrors.Validationf("limit must be an integer between 1 and %d", models.MaxLimit)
		}
		q.Limit = n
	}
	return q, nil
}

// principal returns the caller resolved by the Required guard.
func principal(c echo.Context) (models.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return models.Principal{}, apperrors.Unauthorizedf("authentication required")
	}
	return p, nil
}

func category(c echo.Context) (string, error) {
	cat := c.QueryParam("category")
	if cat == "" {
		return "", nil
	}
	for _, s := range models.Species {
		if s == cat {
			return cat, nil
		}
	}
	return "", apperrors.Validationf("category must be one of dog, cat, bird, exotic, other")
}
