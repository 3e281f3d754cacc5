// Package draft implements the purchase-invoice reception workflow: an
// ephemeral ReceptionDraft assembled line by line against the material catalog,
// reconciled against the tax-inclusive invoice total, and submitted to the ERP
// backend once valid. The draft has no persistence of its own; it lives and
// dies with the editing session.
package draft

import (
	"time"

	"taller/internal/core/id"
	"taller/internal/core/types"
)

// DateLayout is the calendar date format used across the workflow.
const DateLayout = "2006-01-02"

// LineItem is one captured invoice line. TempID keys the item within the
// session; items gain server identity only when the draft is committed.
type LineItem struct {
	TempID        string
	MaterialID    int64 // 0 = unresolved, pending quick-create
	Quantity      types.Money
	UnitCost      types.Money
	LineTotalCost types.Money // always Quantity × UnitCost, never edited directly

	// Display caches. Never a source of truth for totals.
	MaterialName    string
	UnitCostDisplay types.Money
}

// ReceptionDraft is the aggregate being assembled. Mutated only through
// Session operations; serializable so the HTTP layer can hand it to the UI.
type ReceptionDraft struct {
	ProviderID    int64
	InvoiceNumber string
	InvoiceDate   string // ISO YYYY-MM-DD
	DueDate       string // derived: invoice date + provider credit days
	TotalAmount   types.Money
	Notes         string
	Items         []LineItem // insertion order = display order
}

// NewDraft returns an empty draft dated today, matching the reception screen's
// initial state.
func NewDraft() ReceptionDraft {
	return ReceptionDraft{
		InvoiceDate: time.Now().Format(DateLayout),
		Items:       []LineItem{},
	}
}

// ItemsTotal sums line_total_cost over all items. Pure function of the current
// item set; recomputed on every mutation, never cached.
func (d *ReceptionDraft) ItemsTotal() types.Money {
	total := types.Zero()
	for _, item := range d.Items {
		total = total.Add(item.LineTotalCost)
	}
	return total
}

// appendItem adds a resolved line with a fresh TempID. Returns a copy, never
// a reference into Items: slots are reused after removals and a returned line
// must not follow them.
func (d *ReceptionDraft) appendItem(materialID int64, materialName string, quantity, unitCost types.Money) LineItem {
	item := LineItem{
		TempID:          id.New(),
		MaterialID:      materialID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		LineTotalCost:   quantity.Mul(unitCost),
		MaterialName:    materialName,
		UnitCostDisplay: unitCost,
	}
	d.Items = append(d.Items, item)
	return item
}

// takeItem removes the item with the given TempID and returns it.
func (d *ReceptionDraft) takeItem(tempID string) (LineItem, bool) {
	for i, item := range d.Items {
		if item.TempID == tempID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return item, true
		}
	}
	return LineItem{}, false
}

// recalculateDueDate derives the due date from the invoice date and the
// provider's credit days using plain calendar arithmetic. Empty or unparsable
// invoice dates clear the due date.
func (d *ReceptionDraft) recalculateDueDate(creditDays int) {
	if d.InvoiceDate == "" {
		d.DueDate = ""
		return
	}
	base, err := time.Parse(DateLayout, d.InvoiceDate)
	if err != nil {
		d.DueDate = ""
		return
	}
	d.DueDate = base.AddDate(0, 0, creditDays).Format(DateLayout)
}
