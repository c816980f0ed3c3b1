package router

import (
	"github.com/anonto42/petconnect/backend/internal/auth"
	"github.com/anonto42/petconnect/backend/internal/handlers"
	"github.com/anonto42/petconnect/backend/internal/middleware"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/internal/repositories/memory"
	"github.com/anonto42/petconnect/backend/internal/services"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stores is one complete set of repositories.
type Stores struct {
	Users      repositories.UserRepository
	Pets       repositories.PetRepository
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository
	Categories repositories.CategoryRepository
	Moderation repositories.ModerationRepository
	AuditLog   repositories.ModerationLogRepository
}

// MongoStores builds the document repositories. The audit log is left for the caller.
func MongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:      repositories.NewMongoUserRepository(db),
		Pets:       repositories.NewMongoPetRepository(db),
		Posts:      repositories.NewMongoPostRepository(db),
		Comments:   repositories.NewMongoCommentRepository(db),
		Categories: repositories.NewMongoCategoryRepository(db),
		Moderation: repositories.NewMongoModerationRepository(db),
	}
}

func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Users:      s.Users(),
		Pets:       s.Pets(),
		Posts:      s.Posts(),
		Comments:   s.Comments(),
		Categories: s.Categories(),
		Moderation: s.Moderation(),
		AuditLog:   s.ModerationLog(),
	}
}

// Services bundles the application services built over one set of stores.
type Services struct {
	Accounts   *services.AccountService
	Pets       *services.PetService
	Posts      *services.PostService
	Comments   *services.CommentService
	Categories *services.CategoryService
	Admin      *services.AdminService
	Search     *services.SearchService
	Sessions   *middleware.SessionResolver
}

// NewServices wires the services. A nil verifier disables federated sign-in.
func NewServices(cfg *config.Config, stores Stores, verifier services.IDTokenVerifier) *Services {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	accounts := services.NewAccountService(stores.Users, stores.Pets, stores.Posts,
		auth.NewPasswordHasher(cfg.BcryptCost), tokens)
	if verifier != nil {
		accounts.WithVerifier(verifier)
	}
	posts := services.NewPostService(stores.Posts, stores.Users, stores.Pets)

	return &Services{
		Accounts:   accounts,
		Pets:       services.NewPetService(stores.Pets, stores.Users),
		Posts:      posts,
		Comments:   services.NewCommentService(stores.Comments, stores.Posts, stores.Users, stores.Pets),
		Categories: services.NewCategoryService(stores.Categories, stores.Posts),
		Admin: services.NewAdminService(services.AdminRepos{
			Users:      stores.Users,
			Pets:       stores.Pets,
			Posts:      stores.Posts,
			Comments:   stores.Comments,
			Moderation: stores.Moderation,
			AuditLog:   stores.AuditLog,
		}, accounts),
		Search:   services.NewSearchService(stores.Users, posts),
		Sessions: middleware.NewSessionResolver(tokens, stores.Users),
	}
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *Services, health map[string]handlers.HealthCheck) {
	e.GET("/health", handlers.NewHealthHandler(health).HealthCheck)

	guards := handlers.Guards{
		Required: svc.Sessions.Required(),
		Optional: svc.Sessions.Optional(),
		Admin:    []echo.MiddlewareFunc{svc.Sessions.Required(), middleware.RequireRole(models.RoleAdmin)},
	}
	api := e.Group(cfg.APIPrefix)

	// Auth routes are rate limited per client IP
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	authGroup := api.Group("/auth", limiter.Middleware())
	handlers.NewAuthHandler(svc.Accounts).RegisterAuthRoutes(authGroup, guards)
	log.WithField("federated", svc.Accounts.FederatedEnabled()).Info("Auth routes configured.")

	handlers.NewUserHandler(svc.Accounts).RegisterProfileRoutes(api, guards)
	log.Info("User profile routes configured.")

	handlers.NewPetHandler(svc.Pets).RegisterPetRoutes(api, guards)
	log.Info("Pet routes configured.")

	handlers.NewPostHandler(svc.Posts).RegisterPostRoutes(api, guards)
	log.Info("Post routes configured.")

	handlers.NewCommentHandler(svc.Comments).RegisterCommentRoutes(api, guards)
	log.Info("Comment routes configured.")

	handlers.NewCategoryHandler(svc.Categories).RegisterCategoryRoutes(api, guards)
	log.Info("Category routes configured.")

	handlers.NewSearchHandler(svc.Search).RegisterSearchRoutes(api, guards)
	log.Info("Search routes configured.")

	adminGroup := api.Group("/admin", guards.Admin...)
	handlers.NewAdminHandler(svc.Admin).RegisterAdminRoutes(adminGroup)
	log.Info("Admin routes configured.")

	log.WithField("prefix", cfg.APIPrefix).Info("All routes configured.")
}
