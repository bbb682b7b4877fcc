package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/AssetAkire/Capstone-FacilityFix/docs"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/api/handler"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/api/middleware"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/service"
	mongodb "github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/db/mongo"
	redisdb "github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/db/redis"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/identity"
)

const tokenTTL = 24 * time.Hour

// NewRouter builds and returns the Echo instance with all routes registered.
// audit receives an entry per successful admin mutation; the caller owns its
// lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("facilityfix"))

	// --- Dependencies ---
	provider := identity.NewProvider(db)
	userRepo := mongodb.NewUserRepository(db)
	revocation := redisdb.NewRevocationList(rdb, tokenTTL)

	authService := service.NewAuthService(provider, jwtSecret, tokenTTL)
	adminService := service.NewUserAdminService(provider, userRepo, revocation, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewUserAdminHandler(adminService)
	authMiddleware := middleware.Auth(jwtSecret, revocation)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- User administration operations ---
	v1 := e.Group("/v1", authMiddleware)
	// Create requires only an authenticated caller; UpdateProfile enforces
	// self-or-admin inside the service.
	v1.POST("/users", adminHandler.Create)
	v1.PATCH("/users/:uid", adminHandler.UpdateProfile)
	v1.GET("/users", adminHandler.List, adminOnly)
	v1.GET("/users/statistics", adminHandler.Statistics, adminOnly)
	v1.POST("/users/:uid/role", adminHandler.SetRole, adminOnly)
	v1.DELETE("/users/:uid", adminHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
