package config

import (
	"github.com/anonto42/petconnect/backend/internal/metrics"
	appmw "github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// SetupMiddleware configures global Echo middleware. Metrics wrap the request
// logger so they observe the status the error handler wrote.
func SetupMiddleware(e *echo.Echo, cfg *Config, logger *logrus.Logger) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(appmw.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Accept-Language"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	logger.Info("Global middleware configured.")
}
