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

	"github.com/franqnet/console-sync/internal/api/handler"
	"github.com/franqnet/console-sync/internal/api/middleware"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/ports"
	"github.com/franqnet/console-sync/internal/core/service"
	mongostore "github.com/franqnet/console-sync/internal/infrastructure/db/mongo"
)

// Dependencies carries everything the router wires together.
type Dependencies struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Mirror     *mirror.Mirror
	Controller ports.SyncController
	Board      *service.BoardService
	JWTSecret  string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Dependencies ---
	staffRepo := mongostore.NewStaffRepository(deps.Mongo)
	authService := service.NewAuthService(staffRepo, deps.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService, deps.Controller)
	syncHandler := handler.NewSyncHandler(deps.Controller, deps.Mirror)
	entityHandler := handler.NewEntityHandler(deps.Mirror)
	boardHandler := handler.NewBoardHandler(deps.Board)
	authMW := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMW)
	e.POST("/auth/register", authHandler.Register, authMW, middleware.RBAC("admin"))

	// --- Sync lifecycle ---
	sync := e.Group("/v1/sync", authMW)
	sync.GET("/status", syncHandler.Status)
	sync.POST("", syncHandler.Request)
	sync.DELETE("/cache", syncHandler.ClearCache)
	sync.GET("/watch", syncHandler.Watch)

	// --- Mirrored collections ---
	entities := e.Group("/v1/entities", authMW)
	entities.GET("/:kind", entityHandler.List)
	entities.GET("/:kind/stats", entityHandler.Stats)

	// --- Billing board ---
	board := e.Group("/v1/board", authMW)
	board.GET("", boardHandler.Board)
	board.POST("/move", boardHandler.Move, middleware.Permission("billing:write"))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis, deps.Mirror)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
