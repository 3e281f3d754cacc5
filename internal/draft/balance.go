package draft

import (
	"taller/internal/core/types"
)

// Reconciliation constants. The invoice total is tax-inclusive while line
// items are captured tax-exclusive, so the comparable target is
// total_amount / (1 + tax rate).
var (
	// TaxRate is fixed at 16%. Accounting-grade tax computation is out of scope.
	TaxRate = types.MustMoney("0.16")

	// Tolerance is the maximum acceptable discrepancy (1 currency unit) for a
	// draft to count as balanced.
	Tolerance = types.MustMoney("1")

	one = types.MustMoney("1")
)

// Balance quantifies the gap between the captured invoice total and the sum
// of captured line items.
type Balance struct {
	TargetSubtotal types.Money
	ItemsTotal     types.Money
	Difference     types.Money
	Balanced       bool
}

// Balance recomputes the reconciliation state of the draft. Pure; called on
// every relevant change rather than cached.
func (d *ReceptionDraft) Balance() Balance {
	target := d.TotalAmount.Div(one.Add(TaxRate))
	itemsTotal := d.ItemsTotal()
	diff := target.Sub(itemsTotal)

	return Balance{
		TargetSubtotal: target,
		ItemsTotal:     itemsTotal,
		Difference:     diff,
		Balanced:       d.TotalAmount.IsPositive() && diff.Abs().LessThan(Tolerance),
	}
}

// DistributeDiscount rescales every line so the items total matches the target
// subtotal: each line absorbs the same relative share of the discrepancy.
// Quantities are never altered; only cost fields change. Returns false when
// there is nothing to distribute against (zero items total or zero target).
func (d *ReceptionDraft) DistributeDiscount() bool {
	b := d.Balance()
	if b.ItemsTotal.IsZero() || b.TargetSubtotal.IsZero() {
		return false
	}

	factor := b.TargetSubtotal.Div(b.ItemsTotal)
	for i := range d.Items {
		item := &d.Items[i]
		newTotal := item.LineTotalCost.Mul(factor)
		item.LineTotalCost = newTotal
		item.UnitCost = newTotal.Div(item.Quantity)
		item.UnitCostDisplay = item.UnitCost
	}
	return true
}
