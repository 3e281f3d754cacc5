package erp

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"taller/internal/catalog"
	"taller/internal/core/apperror"
	"taller/internal/core/types"
)

// materialWire mirrors the foundations material schema on the wire.
type materialWire struct {
	ID               int64           `json:"id,omitempty"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	ProductionRoute  string          `json:"production_route"`
	PurchaseUnit     string          `json:"purchase_unit"`
	UsageUnit        string          `json:"usage_unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	CurrentCost      decimal.Decimal `json:"current_cost"`
	PhysicalStock    decimal.Decimal `json:"physical_stock"`
	ProviderID       *int64          `json:"provider_id,omitempty"`
	IsActive         bool            `json:"is_active"`
}

func (w materialWire) toDomain() catalog.Material {
	m := catalog.Material{
		ID:               w.ID,
		SKU:              w.SKU,
		Name:             w.Name,
		Category:         w.Category,
		PurchaseUnit:     w.PurchaseUnit,
		UsageUnit:        w.UsageUnit,
		ConversionFactor: w.ConversionFactor,
		CurrentCost:      w.CurrentCost,
		PhysicalStock:    w.PhysicalStock,
		IsActive:         w.IsActive,
	}
	if w.ProviderID != nil {
		m.ProviderID = *w.ProviderID
	}
	return m
}

type providerWire struct {
	ID           int64  `json:"id"`
	BusinessName string `json:"business_name"`
	CreditDays   int    `json:"credit_days"`
	IsActive     bool   `json:"is_active"`
}

// ListMaterials loads the material catalog.
func (c *Client) ListMaterials(ctx context.Context) ([]catalog.Material, error) {
	var wire []materialWire
	if err := c.do(ctx, http.MethodGet, "/foundations/materials", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]catalog.Material, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out, nil
}

// ListProviders loads the provider catalog.
func (c *Client) ListProviders(ctx context.Context) ([]catalog.Provider, error) {
	var wire []providerWire
	if err := c.do(ctx, http.MethodGet, "/foundations/providers", nil, &wire); err != nil {
		return nil, err
	}
	out := make([]catalog.Provider, len(wire))
	for i, w := range wire {
		out[i] = catalog.Provider{
			ID:           w.ID,
			BusinessName: w.BusinessName,
			CreditDays:   w.CreditDays,
			IsActive:     w.IsActive,
		}
	}
	return out, nil
}

// CreateMaterial registers a new catalog entry and returns it with its
// assigned identity. A duplicate SKU maps to a dedicated conflict error so the
// quick-create flow can keep its form open for correction.
func (c *Client) CreateMaterial(ctx context.Context, m catalog.Material) (catalog.Material, error) {
	conversion := m.ConversionFactor
	if !conversion.IsPositive() {
		conversion = types.NewMoney(1)
	}
	body := materialWire{
		SKU:              m.SKU,
		Name:             m.Name,
		Category:         m.Category,
		ProductionRoute:  "MATERIAL",
		PurchaseUnit:     m.PurchaseUnit,
		UsageUnit:        m.UsageUnit,
		ConversionFactor: conversion,
		CurrentCost:      m.CurrentCost,
		IsActive:         true,
	}
	if m.ProviderID != 0 {
		providerID := m.ProviderID
		body.ProviderID = &providerID
	}

	var created materialWire
	if err := c.do(ctx, http.MethodPost, "/foundations/materials", body, &created); err != nil {
		if isDuplicateSKU(err) {
			return catalog.Material{}, apperror.NewDuplicateSKU(m.SKU).WithCause(err)
		}
		return catalog.Material{}, err
	}
	return created.toDomain(), nil
}

// isDuplicateSKU recognizes the backend's duplicate-entry responses: a 409, or
// a 400 whose detail message names the SKU.
func isDuplicateSKU(err error) bool {
	switch upstreamStatus(err) {
	case http.StatusConflict:
		return true
	case http.StatusBadRequest:
		appErr, ok := apperror.AsAppError(err)
		return ok && strings.Contains(strings.ToLower(appErr.Message), "sku")
	}
	return false
}
