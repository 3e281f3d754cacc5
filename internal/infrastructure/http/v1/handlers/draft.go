package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taller/internal/draft"
	"taller/internal/infrastructure/http/v1/dto"
)

// DraftHandler exposes the reception draft editing workflow.
type DraftHandler struct {
	*BaseHandler
	sessions *draft.Manager
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(base *BaseHandler, sessions *draft.Manager) *DraftHandler {
	return &DraftHandler{BaseHandler: base, sessions: sessions}
}

// Open handles POST /reception/drafts - opens an editing session.
func (h *DraftHandler) Open(c *gin.Context) {
	session := h.sessions.Open()
	c.JSON(http.StatusCreated, dto.FromSnapshot(session.ID, session.State()))
}

// Get handles GET /reception/drafts/:id - current draft state and balance.
func (h *DraftHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSnapshot(session.ID, session.State()))
}

// Discard handles DELETE /reception/drafts/:id - abandons the session.
func (h *DraftHandler) Discard(c *gin.Context) {
	h.sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// PatchHeader handles PUT /reception/drafts/:id/header.
// The due-date rule runs reactively on provider or invoice-date changes.
func (h *DraftHandler) PatchHeader(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.HeaderPatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	snap, err := session.SetHeader(req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSnapshot(session.ID, snap))
}

// AddItem handles POST /reception/drafts/:id/items.
// An unresolved query opens the quick-create sub-workflow instead of appending.
func (h *DraftHandler) AddItem(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	added, quickOpened, err := session.AddItem(req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	state := session.State()
	resp := dto.AddItemResponse{Balance: dto.FromBalance(state.Balance)}

	if quickOpened {
		quick := dto.FromQuickCreate(state.Quick)
		resp.QuickCreate = &quick
		c.JSON(http.StatusAccepted, resp)
		return
	}

	item := dto.FromLineItem(added)
	resp.Added = &item
	c.JSON(http.StatusCreated, resp)
}

// EditItem handles POST /reception/drafts/:id/items/:tempId/edit.
// The line leaves the ledger and its values move back into the entry row.
func (h *DraftHandler) EditItem(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := session.EditItem(c.Param("tempId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry":   dto.FromEntry(entry),
		"balance": dto.FromBalance(session.State().Balance),
	})
}

// RemoveItem handles DELETE /reception/drafts/:id/items/:tempId?confirm=true.
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := session.RemoveItem(c.Param("tempId"), h.Confirmed(c)); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance": dto.FromBalance(session.State().Balance),
	})
}

// Distribute handles POST /reception/drafts/:id/distribute.
func (h *DraftHandler) Distribute(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	balance, applied := session.Distribute()
	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"balance": dto.FromBalance(balance),
	})
}

// QuickCreateConfirm handles POST /reception/drafts/:id/quick-create.
func (h *DraftHandler) QuickCreateConfirm(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.QuickCreateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	added, err := session.QuickCreateConfirm(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	item := dto.FromLineItem(added)
	c.JSON(http.StatusCreated, dto.AddItemResponse{
		Added:   &item,
		Balance: dto.FromBalance(session.State().Balance),
	})
}

// QuickCreateDismiss handles DELETE /reception/drafts/:id/quick-create.
func (h *DraftHandler) QuickCreateDismiss(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	session.QuickCreateDismiss()
	c.Status(http.StatusNoContent)
}

// Submit handles POST /reception/drafts/:id/submit.
func (h *DraftHandler) Submit(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.SubmitRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	record, err := session.Submit(c.Request.Context(), req.Override)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReceptionRecord(record))
}

// RegisterRoutes registers draft session routes.
func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Open)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Discard)
	rg.PUT("/:id/header", h.PatchHeader)
	rg.POST("/:id/items", h.AddItem)
	rg.POST("/:id/items/:tempId/edit", h.EditItem)
	rg.DELETE("/:id/items/:tempId", h.RemoveItem)
	rg.POST("/:id/distribute", h.Distribute)
	rg.POST("/:id/quick-create", h.QuickCreateConfirm)
	rg.DELETE("/:id/quick-create", h.QuickCreateDismiss)
	rg.POST("/:id/submit", h.Submit)
}
