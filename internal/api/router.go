package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bugtrackr/bugtrack-api/docs"
	"github.com/bugtrackr/bugtrack-api/internal/api/handler"
	"github.com/bugtrackr/bugtrack-api/internal/api/middleware"
	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
	"github.com/bugtrackr/bugtrack-api/internal/core/ports"
	"github.com/bugtrackr/bugtrack-api/internal/core/service"
	mongodb "github.com/bugtrackr/bugtrack-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bugtrackr/bugtrack-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, auditor ports.Auditor, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bugtrack"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	assignmentRepo := mongodb.NewAssignmentRepository(db)
	bugRepo := mongodb.NewBugRepository(db)
	denylist := redisdb.NewTokenDenylist(rdb)

	authService := service.NewAuthService(userRepo, denylist, jwtSecret, tokenTTL, log)
	userService := service.NewUserService(userRepo, projectRepo, assignmentRepo, bugRepo, auditor, log)
	projectService := service.NewProjectService(projectRepo, userRepo, assignmentRepo, bugRepo, auditor, log)
	assignmentService := service.NewAssignmentService(projectRepo, userRepo, assignmentRepo, auditor, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService, assignmentService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(jwtSecret, userRepo, denylist)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout, authRequired)
	e.GET("/auth/me", authHandler.Me, authRequired)

	// --- Admin user management ---
	admin := e.Group("/admin", authRequired, adminOnly)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	// --- Projects and assignments ---
	projects := e.Group("/projects", authRequired, adminOnly)
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.POST("/:id/users", projectHandler.AssignUser)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
