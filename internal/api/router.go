package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/user-management/internal/api/handler"
	"github.com/userhub/user-management/internal/api/middleware"
	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/service"
	mongodb "github.com/userhub/user-management/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/user-management/internal/infrastructure/db/redis"
	"github.com/userhub/user-management/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("usermgmt"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessions := redisdb.NewSessionStore(rdb)
	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.TokenTTL, log)
	userService := service.NewUserService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authMW := middleware.Auth(cfg.JWTSecret, sessions)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	api := e.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// --- Token-gated routes ---
	authed := api.Group("", authMW)
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/me", authHandler.Me)
	// The listing is deliberately open to every authenticated caller,
	// not only admins.
	authed.GET("/users", userHandler.List)
	authed.GET("/users/:id", userHandler.Get)

	// --- Admin-gated routes ---
	admin := api.Group("", authMW, adminMW)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/users/export/csv", userHandler.ExportCSV)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
