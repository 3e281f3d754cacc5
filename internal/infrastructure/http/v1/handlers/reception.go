package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taller/internal/core/apperror"
	"taller/internal/erp"
)

// ReceptionHistory is the read/cancel surface of the ERP reception service.
type ReceptionHistory interface {
	ListReceptions(ctx context.Context) ([]erp.ReceptionSummary, error)
	GetReception(ctx context.Context, id int64) (erp.ReceptionDetail, error)
	CancelReception(ctx context.Context, id int64) error
}

// ReceptionHandler proxies the committed-reception history.
type ReceptionHandler struct {
	*BaseHandler
	history ReceptionHistory
}

// NewReceptionHandler creates a new reception history handler.
func NewReceptionHandler(base *BaseHandler, history ReceptionHistory) *ReceptionHandler {
	return &ReceptionHandler{BaseHandler: base, history: history}
}

// List handles GET /receptions.
func (h *ReceptionHandler) List(c *gin.Context) {
	receptions, err := h.history.ListReceptions(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       receptions,
		"total_count": len(receptions),
	})
}

// Get handles GET /receptions/:id.
func (h *ReceptionHandler) Get(c *gin.Context) {
	id, ok := h.ParseInt64Param(c, "id")
	if !ok {
		return
	}

	detail, err := h.history.GetReception(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Cancel handles DELETE /receptions/:id?confirm=true.
// Cancellation reverses stock and cost server-side and cannot be undone, so
// the explicit confirmation flag is required.
func (h *ReceptionHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseInt64Param(c, "id")
	if !ok {
		return
	}

	if !h.Confirmed(c) {
		h.Error(c, apperror.NewValidation("cancellation requires explicit confirmation").
			WithDetail("hint", "pass confirm=true"))
		return
	}

	if err := h.history.CancelReception(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers reception history routes.
func (h *ReceptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Cancel)
}
