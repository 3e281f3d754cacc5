package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taller/internal/core/types"
)

func draftWithItem(total string, quantity, unitCost string) ReceptionDraft {
	d := NewDraft()
	d.TotalAmount = types.MustMoney(total)
	d.appendItem(1, "test material", types.MustMoney(quantity), types.MustMoney(unitCost))
	return d
}

func TestBalance_UnbalancedDraft(t *testing.T) {
	// total 1160 gross, one line 10 × 10 = 100 net
	d := draftWithItem("1160", "10", "10")

	b := d.Balance()

	assert.True(t, b.TargetSubtotal.Equal(types.MustMoney("1000")), "target = 1160 / 1.16")
	assert.True(t, b.ItemsTotal.Equal(types.MustMoney("100")))
	assert.True(t, b.Difference.Equal(types.MustMoney("900")))
	assert.False(t, b.Balanced)
}

func TestBalance_ZeroTotalNeverBalanced(t *testing.T) {
	d := NewDraft()

	b := d.Balance()

	assert.True(t, b.Difference.IsZero())
	assert.False(t, b.Balanced, "balanced requires total_amount > 0")
}

func TestBalance_WithinTolerance(t *testing.T) {
	// 116 gross -> target 100; items at 99.5 differ by 0.5 < 1
	d := draftWithItem("116", "1", "99.5")

	b := d.Balance()

	assert.True(t, b.Balanced)
}

func TestBalance_ExactlyAtToleranceIsUnbalanced(t *testing.T) {
	// difference of exactly 1 currency unit is outside |diff| < 1
	d := draftWithItem("116", "1", "99")

	b := d.Balance()

	assert.True(t, b.Difference.Equal(types.MustMoney("1")))
	assert.False(t, b.Balanced)
}

func TestItemsTotal_RecomputedAfterMutations(t *testing.T) {
	d := NewDraft()
	d.appendItem(1, "a", types.MustMoney("2"), types.MustMoney("5"))
	item := d.appendItem(2, "b", types.MustMoney("3"), types.MustMoney("10"))

	require.True(t, d.ItemsTotal().Equal(types.MustMoney("40")))

	_, ok := d.takeItem(item.TempID)
	require.True(t, ok)
	assert.True(t, d.ItemsTotal().Equal(types.MustMoney("10")))
}

func TestDistributeDiscount_RescalesEveryLine(t *testing.T) {
	d := draftWithItem("1160", "10", "10")

	applied := d.DistributeDiscount()

	require.True(t, applied)
	item := d.Items[0]
	assert.True(t, item.Quantity.Equal(types.MustMoney("10")), "quantities are never altered")
	assert.True(t, item.UnitCost.Equal(types.MustMoney("100")))
	assert.True(t, item.LineTotalCost.Equal(types.MustMoney("1000")))

	b := d.Balance()
	assert.True(t, b.Difference.Abs().LessThan(Tolerance))
	assert.True(t, b.Balanced)
}

func TestDistributeDiscount_ProportionalAcrossLines(t *testing.T) {
	d := NewDraft()
	d.TotalAmount = types.MustMoney("1160") // target 1000
	d.appendItem(1, "a", types.MustMoney("1"), types.MustMoney("300"))
	d.appendItem(2, "b", types.MustMoney("1"), types.MustMoney("200"))

	require.True(t, d.DistributeDiscount())

	// factor = 1000 / 500 = 2: every line absorbs the same relative share
	assert.True(t, d.Items[0].LineTotalCost.Equal(types.MustMoney("600")))
	assert.True(t, d.Items[1].LineTotalCost.Equal(types.MustMoney("400")))
}

func TestDistributeDiscount_Idempotent(t *testing.T) {
	d := draftWithItem("1160", "10", "10")

	require.True(t, d.DistributeDiscount())
	first := d.Items[0].LineTotalCost

	require.True(t, d.DistributeDiscount())
	second := d.Items[0].LineTotalCost

	// re-invoking after a successful distribution only moves rounding noise
	assert.True(t, second.Sub(first).Abs().LessThan(types.MustMoney("0.01")))
	assert.True(t, d.Balance().Balanced)
}

func TestDistributeDiscount_NoOpWithoutItems(t *testing.T) {
	d := NewDraft()
	d.TotalAmount = types.MustMoney("1160")

	assert.False(t, d.DistributeDiscount(), "items_total == 0 leaves nothing to distribute against")
}

func TestDistributeDiscount_NoOpWithZeroTarget(t *testing.T) {
	d := NewDraft()
	d.appendItem(1, "a", types.MustMoney("2"), types.MustMoney("50"))

	require.False(t, d.DistributeDiscount())
	assert.True(t, d.Items[0].LineTotalCost.Equal(types.MustMoney("100")), "lines untouched")
}

func TestRecalculateDueDate(t *testing.T) {
	tests := []struct {
		name        string
		invoiceDate string
		creditDays  int
		want        string
	}{
		{"thirty days credit", "2024-01-01", 30, "2024-01-31"},
		{"cash provider", "2024-01-01", 0, "2024-01-01"},
		{"month rollover", "2024-02-15", 45, "2024-03-31"},
		{"empty invoice date clears", "", 30, ""},
		{"garbage invoice date clears", "01/02/2024", 30, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ReceptionDraft{InvoiceDate: tt.invoiceDate}
			d.recalculateDueDate(tt.creditDays)
			assert.Equal(t, tt.want, d.DueDate)
		})
	}
}
