package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/petconnect/backend/internal/handlers"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/internal/repositories/memory"
	"github.com/anonto42/petconnect/backend/internal/router"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/anonto42/petconnect/backend/pkg/firebase"
	"github.com/anonto42/petconnect/backend/pkg/logger"
	"github.com/anonto42/petconnect/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("Server exited")
		os.Exit(1)
	}
}

// run owns every resource main opens, so a failed startup still releases
// them through its defers before the process exits.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.CloseDB()

	stores, health, err := buildStores(ctx, cfg, db)
	if err != nil {
		return err
	}

	// Firebase is optional; without credentials federated sign-in stays off
	var verifier services.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return fmt.Errorf("initialize Firebase: %w", err)
		}
		verifier = firebaseApp.Verifier()
	}

	svc := router.NewServices(cfg, stores, verifier)

	e := echo.New()
	e.HideBanner = true
	v := validators.NewValidator()
	e.Validator = v
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(v)

	config.SetupMiddleware(e, cfg, appLogger)
	router.SetupRoutes(e, cfg, svc, health)

	if cfg.Admin.Create {
		if err := svc.Accounts.SeedAdmin(ctx, cfg.Admin); err != nil {
			log.WithError(err).Error("Admin seed failed")
		}
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.MetricsPort).Info("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env, "storage": cfg.StorageDriver}).Info("Server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Metrics server shutdown failed")
	}
	return nil
}

// buildStores picks the repositories for the configured driver and the
// health checks that go with them.
func buildStores(ctx context.Context, cfg *config.Config, db *config.DB) (router.Stores, map[string]handlers.HealthCheck, error) {
	health := map[string]handlers.HealthCheck{}

	var stores router.Stores
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("Using in-memory storage; data is lost on restart")
		stores = router.MemoryStores(memory.NewStore())
	} else {
		if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
			return router.Stores{}, nil, fmt.Errorf("create MongoDB indexes: %w", err)
		}
		stores = router.MongoStores(db.Database)
		health["mongo"] = func(ctx context.Context) error { return db.Mongo.Ping(ctx, nil) }
	}

	if db.Postgres != nil {
		auditLog := repositories.NewPostgresModerationLogRepository(db.Postgres)
		if err := auditLog.Migrate(); err != nil {
			return router.Stores{}, nil, fmt.Errorf("migrate moderation log: %w", err)
		}
		log.Info("PostgreSQL auto-migrations completed for the moderation log.")
		stores.AuditLog = auditLog
		health["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	} else if stores.AuditLog == nil {
		log.Warn("POSTGRES_URL not set; moderation log is kept in memory")
		stores.AuditLog = memory.NewStore().ModerationLog()
	}

	return stores, health, nil
}
