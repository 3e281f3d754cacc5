// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"taller/internal/catalog"
	"taller/internal/draft"
	"taller/internal/erp"
	"taller/internal/infrastructure/http/v1/handlers"
	"taller/internal/infrastructure/http/v1/middleware"
	"taller/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Catalog is the material/provider snapshot store
	Catalog *catalog.Store

	// Sessions manages reception draft editing sessions
	Sessions *draft.Manager

	// ERP is the backend client (history proxy + health probe)
	ERP *erp.Client
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

	base := handlers.NewBaseHandler()

	// Health endpoints
	health := router.Group("/health")
	handlers.NewHealthHandler(cfg.ERP).RegisterRoutes(health)

	api := router.Group("/api/v1")

	// Catalog lookups (resolver + snapshot refresh)
	handlers.NewCatalogHandler(base, cfg.Catalog).RegisterRoutes(api)

	// Draft editing sessions
	drafts := api.Group("/reception/drafts")
	handlers.NewDraftHandler(base, cfg.Sessions).RegisterRoutes(drafts)

	// Committed reception history
	receptions := api.Group("/receptions")
	handlers.NewReceptionHandler(base, cfg.ERP).RegisterRoutes(receptions)

	return router
}
