package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taller/internal/catalog"
	"taller/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves material and provider lookups from the snapshot store.
type CatalogHandler struct {
	*BaseHandler
	store *catalog.Store
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, store: store}
}

// ListMaterials handles GET /materials?search= - the resolver filter.
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	materials := h.store.Resolve(c.Query("search"))
	c.JSON(http.StatusOK, dto.FromMaterials(materials))
}

// RefreshMaterials handles POST /materials/refresh - reloads the snapshot.
func (h *CatalogHandler) RefreshMaterials(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMaterials(h.store.Materials()))
}

// ListProviders handles GET /providers.
func (h *CatalogHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromProviders(h.store.Providers()))
}

// RegisterRoutes registers catalog routes.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/materials", h.ListMaterials)
	rg.POST("/materials/refresh", h.RefreshMaterials)
	rg.GET("/providers", h.ListProviders)
}
