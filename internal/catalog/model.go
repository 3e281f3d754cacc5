// Package catalog holds the material and provider reference data consumed by
// the reception workflow. The catalog itself is owned by the ERP backend; this
// package keeps an in-memory snapshot and resolves free-text lookups against it.
package catalog

import (
	"taller/internal/core/types"
)

// Material is a catalog entry referenced by reception line items.
// Identity is assigned by the ERP backend; 0 means the material does not exist yet.
type Material struct {
	ID               int64
	SKU              string
	Name             string
	Category         string
	PurchaseUnit     string
	UsageUnit        string
	ConversionFactor types.Money // purchase unit -> usage unit ratio
	CurrentCost      types.Money
	PhysicalStock    types.Money
	ProviderID       int64 // default provider, 0 = none
	IsActive         bool
}

// Provider is a supplier; credit days drive the due-date rule.
type Provider struct {
	ID           int64
	BusinessName string
	CreditDays   int
	IsActive     bool
}

// Default conventions seeded into the quick-create form.
const (
	DefaultCategory     = "GENERAL"
	DefaultPurchaseUnit = "PZA"
	DefaultUsageUnit    = "PZA"
)

// NewMaterialDraft returns a material form pre-seeded with catalog conventions
// and the name the user already typed.
func NewMaterialDraft(name string, providerID int64) Material {
	return Material{
		Name:             name,
		Category:         DefaultCategory,
		PurchaseUnit:     DefaultPurchaseUnit,
		UsageUnit:        DefaultUsageUnit,
		ConversionFactor: types.NewMoney(1),
		ProviderID:       providerID,
		IsActive:         true,
	}
}
