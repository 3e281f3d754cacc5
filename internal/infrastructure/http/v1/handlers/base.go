package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"taller/internal/core/apperror"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseInt64Param parses a numeric path parameter.
func (h *BaseHandler) ParseInt64Param(c *gin.Context, key string) (int64, bool) {
	val, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", key))
		return 0, false
	}
	return val, true
}

// Confirmed reports whether the request carries the explicit confirm flag
// required before destructive actions.
func (h *BaseHandler) Confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
