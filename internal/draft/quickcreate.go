package draft

import (
	"taller/internal/catalog"
	"taller/internal/core/types"
)

// QuickCreateState models the inline material-creation sub-workflow:
// Closed → Pending → Saving → {Closed (item injected) | Pending (error)}.
type QuickCreateState string

const (
	QuickClosed  QuickCreateState = "closed"
	QuickPending QuickCreateState = "pending"
	QuickSaving  QuickCreateState = "saving"
)

// QuickCreate holds the sub-workflow state. While open it keeps the staged
// quantity and unit cost from the entry row, so a failed save never forces the
// user to re-enter them.
type QuickCreate struct {
	State          QuickCreateState
	Form           catalog.Material // seeded with defaults and the typed name
	StagedQuantity types.Money
	StagedUnitCost types.Money
	LastError      string
}

// open seeds the form and stages the entry-row values.
func (q *QuickCreate) open(form catalog.Material, quantity, unitCost types.Money) {
	q.State = QuickPending
	q.Form = form
	q.StagedQuantity = quantity
	q.StagedUnitCost = unitCost
	q.LastError = ""
}

// dismiss returns the sub-workflow to its closed state, discarding the form.
func (q *QuickCreate) dismiss() {
	*q = QuickCreate{State: QuickClosed}
}

// QuickCreateInput carries the user's corrections to the seeded form.
// Empty fields keep the seeded values.
type QuickCreateInput struct {
	SKU              string
	Name             string
	Category         string
	PurchaseUnit     string
	UsageUnit        string
	ConversionFactor types.Money
}

// apply merges user input onto the seeded form.
func (q *QuickCreate) apply(in QuickCreateInput) {
	if in.SKU != "" {
		q.Form.SKU = in.SKU
	}
	if in.Name != "" {
		q.Form.Name = in.Name
	}
	if in.Category != "" {
		q.Form.Category = in.Category
	}
	if in.PurchaseUnit != "" {
		q.Form.PurchaseUnit = in.PurchaseUnit
	}
	if in.UsageUnit != "" {
		q.Form.UsageUnit = in.UsageUnit
	}
	if in.ConversionFactor.IsPositive() {
		q.Form.ConversionFactor = in.ConversionFactor
	}
}
