package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mindforge/mindforge-api/docs"
	"github.com/mindforge/mindforge-api/internal/api/handler"
	"github.com/mindforge/mindforge-api/internal/api/middleware"
	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
	"github.com/mindforge/mindforge-api/internal/core/service"
	"github.com/mindforge/mindforge-api/internal/infrastructure/config"
	mongodb "github.com/mindforge/mindforge-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mindforge/mindforge-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is constructed by the caller so its worker lifecycle stays
// tied to the process context, not the router.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	audit ports.AuditSink,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
	}))
	e.Use(echoprometheus.NewMiddleware("mindforge"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	refreshStore := redisdb.NewRefreshTokenStore(rdb)
	loginLimiter := redisdb.NewLoginLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, refreshStore, audit, log, cfg.LockoutMaxAttempts, cfg.RefreshTokenTTL)
	adminService := service.NewAdminService(userRepo, audit, log)
	projectService := service.NewProjectService(projectRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	projectHandler := handler.NewProjectHandler(projectService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(tokenService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	loginThrottle := middleware.RateLimit(loginLimiter, log)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, loginThrottle)
	e.POST("/auth/login", authHandler.Login, loginThrottle)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.GET("/auth/me", authHandler.Me, authRequired)
	e.PUT("/auth/profile", authHandler.UpdateProfile, authRequired)
	e.DELETE("/auth/users/:username", authHandler.DeleteAccount, authRequired)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authRequired, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id/role", adminHandler.SetRole)
	admin.POST("/users/:id/lock", adminHandler.Lock)
	admin.POST("/users/:id/unlock", adminHandler.Unlock)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	// --- Project routes ---
	projects := e.Group("/api/projects", authRequired)
	projects.GET("", projectHandler.List)
	projects.GET("/public", projectHandler.ListPublic)
	projects.GET("/my", projectHandler.ListMine)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
