// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bpdm/internal/domain/partners/build"
	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/domain/partners/query"
	"bpdm/internal/infrastructure/http/v1/handlers"
	"bpdm/internal/infrastructure/http/v1/middleware"
	"bpdm/internal/infrastructure/storage/postgres"
	"bpdm/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthDisabled skips bearer-token validation entirely (local development).
	AuthDisabled bool

	// BuildService runs the build pipeline operations.
	BuildService *build.Service

	// QueryService serves reads.
	QueryService *query.Service

	// MetadataService serves the lookup tables.
	MetadataService *metadata.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	if !cfg.AuthDisabled {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	baseHandler := handlers.NewBaseHandler()

	// --- LEGAL ENTITIES ---
	{
		handler := handlers.NewLegalEntityHandler(baseHandler, cfg.BuildService, cfg.QueryService)
		group := api.Group("/legal-entities")
		group.POST("", handler.Create)
		group.PUT("", handler.Update)
		group.GET("", handler.List)
		group.GET("/:bpnl", handler.Get)
		group.POST("/:bpnl/confirm-currentness", handler.ConfirmCurrentness)
	}

	// --- SITES ---
	{
		handler := handlers.NewSiteHandler(baseHandler, cfg.BuildService, cfg.QueryService)
		group := api.Group("/sites")
		group.POST("", handler.Create)
		group.POST("/legal-main-sites", handler.CreateWithLegalReference)
		group.PUT("", handler.Update)
		group.GET("", handler.List)
		group.GET("/:bpns", handler.Get)
	}

	// --- ADDRESSES ---
	{
		handler := handlers.NewAddressHandler(baseHandler, cfg.BuildService, cfg.QueryService)
		group := api.Group("/addresses")
		group.POST("", handler.Create)
		group.PUT("", handler.Update)
		group.GET("", handler.List)
		group.GET("/:bpna", handler.Get)
	}

	// --- CHANGELOG ---
	{
		handler := handlers.NewChangelogHandler(baseHandler, cfg.QueryService)
		api.GET("/changelog", handler.List)
	}

	// --- METADATA ---
	{
		handler := handlers.NewMetadataHandler(baseHandler, cfg.MetadataService)
		group := api.Group("/metadata")
		group.GET("/identifier-types", handler.ListIdentifierTypes)
		group.GET("/legal-forms", handler.ListLegalForms)
		group.GET("/regions", handler.ListRegions)
	}

	return router
}
