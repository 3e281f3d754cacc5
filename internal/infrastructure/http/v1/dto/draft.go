// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"taller/internal/core/types"
	"taller/internal/draft"
)

// --- Request DTOs ---

// HeaderPatchRequest updates reception draft header fields.
// Omitted fields are left untouched.
type HeaderPatchRequest struct {
	ProviderID    *int64   `json:"provider_id,omitempty"`
	InvoiceNumber *string  `json:"invoice_number,omitempty"`
	InvoiceDate   *string  `json:"invoice_date,omitempty"`
	TotalAmount   *float64 `json:"total_amount,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// ToPatch converts the request to a domain header patch.
func (r *HeaderPatchRequest) ToPatch() draft.HeaderPatch {
	patch := draft.HeaderPatch{
		ProviderID:    r.ProviderID,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		Notes:         r.Notes,
	}
	if r.TotalAmount != nil {
		amount := types.NewMoney(*r.TotalAmount)
		patch.TotalAmount = &amount
	}
	return patch
}

// AddItemRequest stages and commits one entry row.
type AddItemRequest struct {
	Query      string  `json:"query" binding:"required"`
	MaterialID int64   `json:"material_id"`
	Quantity   float64 `json:"quantity" binding:"required"`
	UnitCost   float64 `json:"unit_cost" binding:"required"`
}

// ToInput converts the request to a domain entry input.
func (r *AddItemRequest) ToInput() draft.EntryInput {
	return draft.EntryInput{
		Query:      r.Query,
		MaterialID: r.MaterialID,
		Quantity:   types.NewMoney(r.Quantity),
		UnitCost:   types.NewMoney(r.UnitCost),
	}
}

// QuickCreateRequest confirms the quick-create form.
type QuickCreateRequest struct {
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	Category         string  `json:"category,omitempty"`
	PurchaseUnit     string  `json:"purchase_unit,omitempty"`
	UsageUnit        string  `json:"usage_unit,omitempty"`
	ConversionFactor float64 `json:"conversion_factor,omitempty"`
}

// ToInput converts the request to a domain quick-create input.
func (r *QuickCreateRequest) ToInput() draft.QuickCreateInput {
	return draft.QuickCreateInput{
		SKU:              r.SKU,
		Name:             r.Name,
		Category:         r.Category,
		PurchaseUnit:     r.PurchaseUnit,
		UsageUnit:        r.UsageUnit,
		ConversionFactor: types.NewMoney(r.ConversionFactor),
	}
}

// SubmitRequest confirms submission. Override must be true to save a draft
// that is unbalanced beyond tolerance.
type SubmitRequest struct {
	Override bool `json:"override,omitempty"`
}

// --- Response DTOs ---

// LineItemResponse is one draft line.
type LineItemResponse struct {
	TempID        string  `json:"temp_id"`
	MaterialID    int64   `json:"material_id"`
	MaterialName  string  `json:"material_name"`
	Quantity      float64 `json:"quantity"`
	UnitCost      float64 `json:"unit_cost"`
	LineTotalCost float64 `json:"line_total_cost"`
}

// BalanceResponse is the live reconciliation state.
type BalanceResponse struct {
	TargetSubtotal float64 `json:"target_subtotal"`
	ItemsTotal     float64 `json:"items_total"`
	Difference     float64 `json:"difference"`
	Balanced       bool    `json:"balanced"`
}

// EntryRowResponse is the staged input row.
type EntryRowResponse struct {
	Query        string  `json:"query"`
	MaterialID   int64   `json:"material_id"`
	MaterialName string  `json:"material_name,omitempty"`
	Quantity     float64 `json:"quantity"`
	UnitCost     float64 `json:"unit_cost"`
	LineTotal    float64 `json:"line_total"`
}

// QuickCreateResponse is the sub-workflow state.
type QuickCreateResponse struct {
	State            string  `json:"state"`
	SKU              string  `json:"sku,omitempty"`
	Name             string  `json:"name,omitempty"`
	Category         string  `json:"category,omitempty"`
	PurchaseUnit     string  `json:"purchase_unit,omitempty"`
	UsageUnit        string  `json:"usage_unit,omitempty"`
	ConversionFactor float64 `json:"conversion_factor,omitempty"`
	StagedQuantity   float64 `json:"staged_quantity,omitempty"`
	StagedUnitCost   float64 `json:"staged_unit_cost,omitempty"`
	LastError        string  `json:"last_error,omitempty"`
}

// DraftHeaderResponse is the draft header.
type DraftHeaderResponse struct {
	ProviderID    int64   `json:"provider_id"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	DueDate       string  `json:"due_date,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	Notes         string  `json:"notes,omitempty"`
}

// DraftStateResponse is the full observable session state.
type DraftStateResponse struct {
	SessionID   string              `json:"session_id"`
	Header      DraftHeaderResponse `json:"header"`
	Items       []LineItemResponse  `json:"items"`
	Entry       EntryRowResponse    `json:"entry"`
	QuickCreate QuickCreateResponse `json:"quick_create"`
	Balance     BalanceResponse     `json:"balance"`
}

// AddItemResponse reports the outcome of an add: either the appended line or
// an open quick-create sub-workflow.
type AddItemResponse struct {
	Added       *LineItemResponse    `json:"added,omitempty"`
	QuickCreate *QuickCreateResponse `json:"quick_create,omitempty"`
	Balance     BalanceResponse      `json:"balance"`
}

// SubmitResponse reports the committed reception.
type SubmitResponse struct {
	ReceptionID   int64  `json:"reception_id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
}

// --- Mappers ---

// FromLineItem maps a domain line item.
func FromLineItem(item draft.LineItem) LineItemResponse {
	return LineItemResponse{
		TempID:        item.TempID,
		MaterialID:    item.MaterialID,
		MaterialName:  item.MaterialName,
		Quantity:      types.ToFloat(item.Quantity),
		UnitCost:      types.ToFloat(item.UnitCostDisplay),
		LineTotalCost: types.ToFloat(item.LineTotalCost),
	}
}

// FromBalance maps the reconciliation state.
func FromBalance(b draft.Balance) BalanceResponse {
	return BalanceResponse{
		TargetSubtotal: types.ToFloat(b.TargetSubtotal),
		ItemsTotal:     types.ToFloat(b.ItemsTotal),
		Difference:     types.ToFloat(b.Difference),
		Balanced:       b.Balanced,
	}
}

// FromEntry maps the staged entry row.
func FromEntry(e draft.EntryRow) EntryRowResponse {
	return EntryRowResponse{
		Query:        e.Query,
		MaterialID:   e.MaterialID,
		MaterialName: e.MaterialName,
		Quantity:     types.ToFloat(e.Quantity),
		UnitCost:     types.ToFloat(e.UnitCost),
		LineTotal:    types.ToFloat(e.LineTotal()),
	}
}

// FromQuickCreate maps the sub-workflow state.
func FromQuickCreate(q draft.QuickCreate) QuickCreateResponse {
	resp := QuickCreateResponse{
		State:     string(q.State),
		LastError: q.LastError,
	}
	if q.State != draft.QuickClosed {
		resp.SKU = q.Form.SKU
		resp.Name = q.Form.Name
		resp.Category = q.Form.Category
		resp.PurchaseUnit = q.Form.PurchaseUnit
		resp.UsageUnit = q.Form.UsageUnit
		resp.ConversionFactor = types.ToFloat(q.Form.ConversionFactor)
		resp.StagedQuantity = types.ToFloat(q.StagedQuantity)
		resp.StagedUnitCost = types.ToFloat(q.StagedUnitCost)
	}
	return resp
}

// FromSnapshot maps the full session state.
func FromSnapshot(sessionID string, snap draft.Snapshot) DraftStateResponse {
	items := make([]LineItemResponse, len(snap.Draft.Items))
	for i, item := range snap.Draft.Items {
		items[i] = FromLineItem(item)
	}
	return DraftStateResponse{
		SessionID: sessionID,
		Header: DraftHeaderResponse{
			ProviderID:    snap.Draft.ProviderID,
			InvoiceNumber: snap.Draft.InvoiceNumber,
			InvoiceDate:   snap.Draft.InvoiceDate,
			DueDate:       snap.Draft.DueDate,
			TotalAmount:   types.ToFloat(snap.Draft.TotalAmount),
			Notes:         snap.Draft.Notes,
		},
		Items:       items,
		Entry:       FromEntry(snap.Entry),
		QuickCreate: FromQuickCreate(snap.Quick),
		Balance:     FromBalance(snap.Balance),
	}
}

// FromReceptionRecord maps a committed reception.
func FromReceptionRecord(r draft.ReceptionRecord) SubmitResponse {
	return SubmitResponse{
		ReceptionID:   r.ID,
		InvoiceNumber: r.InvoiceNumber,
		Status:        r.Status,
	}
}
