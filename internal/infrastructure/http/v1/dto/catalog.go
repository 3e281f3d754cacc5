package dto

import (
	"taller/internal/catalog"
	"taller/internal/core/types"
)

// MaterialResponse is one catalog material.
type MaterialResponse struct {
	ID               int64   `json:"id"`
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	PurchaseUnit     string  `json:"purchase_unit"`
	UsageUnit        string  `json:"usage_unit"`
	ConversionFactor float64 `json:"conversion_factor"`
	CurrentCost      float64 `json:"current_cost"`
	PhysicalStock    float64 `json:"physical_stock"`
	ProviderID       int64   `json:"provider_id,omitempty"`
	IsActive         bool    `json:"is_active"`
}

// MaterialListResponse wraps a material search result.
type MaterialListResponse struct {
	Items      []MaterialResponse `json:"items"`
	TotalCount int                `json:"total_count"`
}

// ProviderResponse is one provider.
type ProviderResponse struct {
	ID           int64  `json:"id"`
	BusinessName string `json:"business_name"`
	CreditDays   int    `json:"credit_days"`
	IsActive     bool   `json:"is_active"`
}

// ProviderListResponse wraps the provider list.
type ProviderListResponse struct {
	Items      []ProviderResponse `json:"items"`
	TotalCount int                `json:"total_count"`
}

// FromMaterial maps a catalog material.
func FromMaterial(m catalog.Material) MaterialResponse {
	return MaterialResponse{
		ID:               m.ID,
		SKU:              m.SKU,
		Name:             m.Name,
		Category:         m.Category,
		PurchaseUnit:     m.PurchaseUnit,
		UsageUnit:        m.UsageUnit,
		ConversionFactor: types.ToFloat(m.ConversionFactor),
		CurrentCost:      types.ToFloat(m.CurrentCost),
		PhysicalStock:    types.ToFloat(m.PhysicalStock),
		ProviderID:       m.ProviderID,
		IsActive:         m.IsActive,
	}
}

// FromMaterials maps a material slice.
func FromMaterials(materials []catalog.Material) MaterialListResponse {
	items := make([]MaterialResponse, len(materials))
	for i, m := range materials {
		items[i] = FromMaterial(m)
	}
	return MaterialListResponse{Items: items, TotalCount: len(items)}
}

// FromProviders maps a provider slice.
func FromProviders(providers []catalog.Provider) ProviderListResponse {
	items := make([]ProviderResponse, len(providers))
	for i, p := range providers {
		items[i] = ProviderResponse{
			ID:           p.ID,
			BusinessName: p.BusinessName,
			CreditDays:   p.CreditDays,
			IsActive:     p.IsActive,
		}
	}
	return ProviderListResponse{Items: items, TotalCount: len(items)}
}
