package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pitwall/tourney-system/internal/api/handler"
	"github.com/pitwall/tourney-system/internal/api/middleware"
	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// Deps carries the service objects the router wires into handlers. All of
// them are constructed once at process start and passed by reference.
type Deps struct {
	Session  ports.SessionStore
	Registry ports.AccountRegistry
	Content  ports.ContentStore
	Sync     ports.SyncService
	AuditLog ports.AuditLog
	Audit    ports.AuditNotifier

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tourney"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Session)
	accountHandler := handler.NewAccountHandler(deps.Registry)
	contentHandler := handler.NewContentHandler(deps.Content, deps.Audit)
	siteHandler := handler.NewSiteHandler(deps.Content, deps.Audit)
	adminHandler := handler.NewAdminHandler(deps.Content, deps.Sync, deps.AuditLog, deps.Audit)

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleRoot)
	rootOnly := middleware.RBAC(domain.RoleRoot)

	// --- Public site routes ---
	e.GET("/", siteHandler.Home)
	e.GET("/drivers", contentHandler.ListDrivers)
	e.GET("/calendar", contentHandler.ListRaces)
	e.GET("/news", contentHandler.ListNews)
	e.GET("/streaming", siteHandler.Streaming)
	e.POST("/apply", siteHandler.Apply)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.GET("/auth/session", authHandler.Session)

	// --- Admin surface (admin or root) ---
	admin := e.Group("/v1", auth, adminOnly)
	admin.GET("/config", adminHandler.GetConfig)
	admin.PUT("/config", adminHandler.ReplaceConfig)
	admin.POST("/refresh", adminHandler.Refresh)

	admin.POST("/drivers", contentHandler.AddDriver)
	admin.PATCH("/drivers/:id", contentHandler.UpdateDriver)
	admin.DELETE("/drivers/:id", contentHandler.RemoveDriver)

	admin.POST("/teams", contentHandler.AddTeam)
	admin.PATCH("/teams/:id", contentHandler.UpdateTeam)
	admin.DELETE("/teams/:id", contentHandler.RemoveTeam)

	admin.POST("/races", contentHandler.AddRace)
	admin.PATCH("/races/:id", contentHandler.UpdateRace)
	admin.DELETE("/races/:id", contentHandler.RemoveRace)
	admin.PUT("/races/:id/details", contentHandler.UpdateRaceDetails)
	admin.POST("/races/:id/details/sort", contentHandler.SortRaceGrid)

	admin.POST("/news", contentHandler.AddNews)
	admin.PATCH("/news/:id", contentHandler.UpdateNews)
	admin.DELETE("/news/:id", contentHandler.RemoveNews)

	// --- Root-only surface ---
	root := e.Group("/v1", auth, rootOnly)
	root.GET("/accounts", accountHandler.List)
	root.POST("/accounts", accountHandler.Add)
	root.DELETE("/accounts/:username", accountHandler.Remove)
	root.GET("/logs", adminHandler.Logs)

	// --- Ops ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
