package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-service/internal/api/handler"
	"github.com/userhub/identity-service/internal/api/middleware"
	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/service"
	"github.com/userhub/identity-service/internal/core/token"
	mongodb "github.com/userhub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/identity-service/internal/infrastructure/db/redis"
	healthhandlers "github.com/userhub/identity-service/internal/infrastructure/http/handlers"
	"github.com/userhub/identity-service/internal/pkg/password"
)

// NewRouter wires repositories, services and handlers into an Echo instance
// with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, hasher password.Hasher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	roleRepo := redisdb.NewRoleCache(mongodb.NewRoleRepository(db), rdb, log)
	userRepo := mongodb.NewUserRepository(db, roleRepo)
	guard := auth.NewGuard(codec, userRepo, log)

	authService := service.NewAuthService(userRepo, roleRepo, hasher, codec, log)
	userService := service.NewUserService(userRepo, roleRepo, hasher, log)
	roleService := service.NewRoleService(roleRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Guarded routes ---
	// The middleware only derives the auth context; each service operation
	// decides whether anonymous is acceptable.
	g := e.Group("", middleware.Auth(guard))

	g.GET("/me", authHandler.Me)

	g.GET("/users", userHandler.List)
	g.POST("/users", userHandler.Create)
	g.GET("/users/:id", userHandler.Get)
	g.PATCH("/users/:id", userHandler.Update)
	g.DELETE("/users/:id", userHandler.Delete)

	g.GET("/roles", roleHandler.List)
	g.GET("/roles/active", roleHandler.ListActive)
	g.POST("/roles", roleHandler.Create)
	g.GET("/roles/:id", roleHandler.Get)
	g.PATCH("/roles/:id", roleHandler.Update)
	g.POST("/roles/:id/toggle", roleHandler.ToggleStatus)
	g.DELETE("/roles/:id", roleHandler.Delete)

	return e
}
