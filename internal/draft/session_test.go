package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taller/internal/catalog"
	"taller/internal/core/apperror"
	"taller/internal/core/types"
)

// --- Test doubles ---

type stubSource struct {
	materials []catalog.Material
	providers []catalog.Provider
}

func (s *stubSource) ListMaterials(context.Context) ([]catalog.Material, error) {
	return s.materials, nil
}

func (s *stubSource) ListProviders(context.Context) ([]catalog.Provider, error) {
	return s.providers, nil
}

type fakeReceptions struct {
	calls    int
	lastBody Payload
	record   ReceptionRecord
	err      error
}

func (f *fakeReceptions) CreateReception(_ context.Context, payload Payload) (ReceptionRecord, error) {
	f.calls++
	f.lastBody = payload
	if f.err != nil {
		return ReceptionRecord{}, f.err
	}
	return f.record, nil
}

type fakeMaterials struct {
	calls   int
	created catalog.Material
	err     error
}

func (f *fakeMaterials) CreateMaterial(_ context.Context, m catalog.Material) (catalog.Material, error) {
	f.calls++
	if f.err != nil {
		return catalog.Material{}, f.err
	}
	created := f.created
	if created.ID == 0 {
		created = m
		created.ID = 99
	}
	return created, nil
}

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(&stubSource{
		materials: []catalog.Material{
			{ID: 1, SKU: "PLY-018", Name: "Triplay 18mm", IsActive: true},
			{ID: 2, SKU: "TOR-100", Name: "Tornillo 1in", IsActive: true},
		},
		providers: []catalog.Provider{
			{ID: 5, BusinessName: "Maderas del Norte", CreditDays: 30, IsActive: true},
			{ID: 6, BusinessName: "Ferretería Central", CreditDays: 0, IsActive: true},
		},
	})
	require.NoError(t, store.Refresh(context.Background()))
	return store
}

func testSession(t *testing.T) (*Session, *fakeReceptions, *fakeMaterials) {
	t.Helper()
	receptions := &fakeReceptions{record: ReceptionRecord{ID: 42, Status: "COMPLETED"}}
	materials := &fakeMaterials{}
	return NewSession(testStore(t), receptions, materials), receptions, materials
}

func intPtr(v int64) *int64   { return &v }
func strPtr(v string) *string { return &v }

func moneyPtr(v string) *types.Money {
	m := types.MustMoney(v)
	return &m
}

// --- Header / due-date rule ---

func TestSetHeader_DerivesDueDateFromCreditDays(t *testing.T) {
	s, _, _ := testSession(t)

	snap, err := s.SetHeader(HeaderPatch{
		ProviderID:  intPtr(5),
		InvoiceDate: strPtr("2024-01-01"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", snap.Draft.DueDate)
}

func TestSetHeader_DueDateReactsToProviderChange(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.SetHeader(HeaderPatch{ProviderID: intPtr(5), InvoiceDate: strPtr("2024-01-01")})
	require.NoError(t, err)

	// switching to a cash provider collapses the due date onto the invoice date
	snap, err := s.SetHeader(HeaderPatch{ProviderID: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", snap.Draft.DueDate)
}

func TestSetHeader_UnknownProviderRejected(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.SetHeader(HeaderPatch{ProviderID: intPtr(777)})

	assert.True(t, apperror.IsNotFound(err))
}

func TestSetHeader_RejectsNegativeTotal(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.SetHeader(HeaderPatch{TotalAmount: moneyPtr("-10")})

	assert.True(t, apperror.IsValidation(err))
}

// --- Ledger ---

func TestAddItem_AppendsResolvedLine(t *testing.T) {
	s, _, _ := testSession(t)

	item, quickOpened, err := s.AddItem(EntryInput{
		Query:      "triplay",
		MaterialID: 1,
		Quantity:   types.MustMoney("10"),
		UnitCost:   types.MustMoney("10"),
	})

	require.NoError(t, err)
	assert.False(t, quickOpened)
	assert.NotEmpty(t, item.TempID)
	assert.Equal(t, "Triplay 18mm", item.MaterialName)
	assert.True(t, item.LineTotalCost.Equal(types.MustMoney("100")))

	state := s.State()
	assert.Len(t, state.Draft.Items, 1)
	assert.Empty(t, state.Entry.Query, "entry row cleared after append")
}

func TestAddItem_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input EntryInput
	}{
		{"empty query", EntryInput{MaterialID: 1, Quantity: types.MustMoney("1"), UnitCost: types.MustMoney("1")}},
		{"zero quantity", EntryInput{Query: "x", MaterialID: 1, Quantity: types.Zero(), UnitCost: types.MustMoney("1")}},
		{"negative quantity", EntryInput{Query: "x", MaterialID: 1, Quantity: types.MustMoney("-2"), UnitCost: types.MustMoney("1")}},
		{"zero cost", EntryInput{Query: "x", MaterialID: 1, Quantity: types.MustMoney("1"), UnitCost: types.Zero()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := testSession(t)

			_, _, err := s.AddItem(tt.input)

			assert.True(t, apperror.IsValidation(err))
			assert.Empty(t, s.State().Draft.Items, "ledger must not be mutated")
		})
	}
}

func TestAddItem_UnknownMaterialRejected(t *testing.T) {
	s, _, _ := testSession(t)

	_, _, err := s.AddItem(EntryInput{
		Query:      "x",
		MaterialID: 404,
		Quantity:   types.MustMoney("1"),
		UnitCost:   types.MustMoney("1"),
	})

	assert.True(t, apperror.IsNotFound(err))
}

func TestAddItem_TempIDsUniquePerDraft(t *testing.T) {
	s, _, _ := testSession(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		item, _, err := s.AddItem(EntryInput{
			Query:      "tornillo",
			MaterialID: 2,
			Quantity:   types.MustMoney("1"),
			UnitCost:   types.MustMoney("2"),
		})
		require.NoError(t, err)
		assert.False(t, seen[item.TempID])
		seen[item.TempID] = true
	}
}

func TestEditItem_RemovesAndRefillsEntry(t *testing.T) {
	s, _, _ := testSession(t)

	item, _, err := s.AddItem(EntryInput{
		Query:      "triplay",
		MaterialID: 1,
		Quantity:   types.MustMoney("4"),
		UnitCost:   types.MustMoney("250"),
	})
	require.NoError(t, err)

	entry, err := s.EditItem(item.TempID)

	require.NoError(t, err)
	assert.Equal(t, "Triplay 18mm", entry.Query)
	assert.Equal(t, int64(1), entry.MaterialID)
	assert.True(t, entry.Quantity.Equal(types.MustMoney("4")))
	assert.True(t, entry.UnitCost.Equal(types.MustMoney("250")))
	assert.Empty(t, s.State().Draft.Items, "item leaves the ledger")

	// re-adding produces a fresh identity
	readded, _, err := s.AddItem(EntryInput{
		Query:      entry.Query,
		MaterialID: entry.MaterialID,
		Quantity:   entry.Quantity,
		UnitCost:   entry.UnitCost,
	})
	require.NoError(t, err)
	assert.NotEqual(t, item.TempID, readded.TempID)
}

func TestAddItem_ReturnedLineIsDetached(t *testing.T) {
	s, _, _ := testSession(t)

	first, _, err := s.AddItem(EntryInput{
		Query:      "triplay",
		MaterialID: 1,
		Quantity:   types.MustMoney("4"),
		UnitCost:   types.MustMoney("250"),
	})
	require.NoError(t, err)

	// remove the line, then append another: the freed slot in the items
	// backing array gets reused
	_, err = s.EditItem(first.TempID)
	require.NoError(t, err)

	readded, _, err := s.AddItem(EntryInput{
		Query:      "tornillo",
		MaterialID: 2,
		Quantity:   types.MustMoney("1"),
		UnitCost:   types.MustMoney("2"),
	})
	require.NoError(t, err)

	// the line handed out earlier must not follow the reused slot
	assert.NotEqual(t, first.TempID, readded.TempID)
	assert.Equal(t, int64(1), first.MaterialID)
	assert.Equal(t, "Triplay 18mm", first.MaterialName)
	assert.True(t, first.LineTotalCost.Equal(types.MustMoney("1000")))
}

func TestRemoveItem_RequiresConfirmation(t *testing.T) {
	s, _, _ := testSession(t)

	item, _, err := s.AddItem(EntryInput{
		Query:      "triplay",
		MaterialID: 1,
		Quantity:   types.MustMoney("1"),
		UnitCost:   types.MustMoney("1"),
	})
	require.NoError(t, err)

	err = s.RemoveItem(item.TempID, false)
	assert.True(t, apperror.IsValidation(err))
	assert.Len(t, s.State().Draft.Items, 1)

	require.NoError(t, s.RemoveItem(item.TempID, true))
	assert.Empty(t, s.State().Draft.Items)
}

func TestRemoveItem_UnknownTempID(t *testing.T) {
	s, _, _ := testSession(t)

	err := s.RemoveItem("nope", true)

	assert.True(t, apperror.IsNotFound(err))
}

// --- Quick-create ---

func addUnresolved(t *testing.T, s *Session) {
	t.Helper()
	item, quickOpened, err := s.AddItem(EntryInput{
		Query:    "bisagra oculta",
		Quantity: types.MustMoney("20"),
		UnitCost: types.MustMoney("15"),
	})
	require.NoError(t, err)
	require.True(t, quickOpened, "unresolved query must open quick-create")
	require.Empty(t, item.TempID)
}

func TestAddItem_UnresolvedOpensQuickCreate(t *testing.T) {
	s, _, _ := testSession(t)

	addUnresolved(t, s)

	state := s.State()
	assert.Empty(t, state.Draft.Items, "nothing appended to the ledger")
	assert.Equal(t, QuickPending, state.Quick.State)
	assert.Equal(t, "bisagra oculta", state.Quick.Form.Name, "typed name seeds the form")
	assert.Equal(t, catalog.DefaultCategory, state.Quick.Form.Category)
	assert.True(t, state.Quick.StagedQuantity.Equal(types.MustMoney("20")))
	assert.True(t, state.Quick.StagedUnitCost.Equal(types.MustMoney("15")))
}

func TestQuickCreateConfirm_InjectsExactlyOneLine(t *testing.T) {
	s, _, materials := testSession(t)
	_, err := s.SetHeader(HeaderPatch{ProviderID: intPtr(5)})
	require.NoError(t, err)

	addUnresolved(t, s)

	item, err := s.QuickCreateConfirm(context.Background(), QuickCreateInput{SKU: "BIS-001"})

	require.NoError(t, err)
	require.Equal(t, 1, materials.calls)
	assert.Equal(t, int64(99), item.MaterialID, "line references the newly assigned identity")
	assert.True(t, item.Quantity.Equal(types.MustMoney("20")), "staged quantity used")
	assert.True(t, item.LineTotalCost.Equal(types.MustMoney("300")))

	state := s.State()
	assert.Len(t, state.Draft.Items, 1)
	assert.Equal(t, QuickClosed, state.Quick.State)

	// the new material is visible to the resolver without a refresh
	assert.Len(t, s.catalog.Resolve("bisagra"), 1)
}

func TestQuickCreateConfirm_RequiresSKUAndName(t *testing.T) {
	s, _, materials := testSession(t)
	addUnresolved(t, s)

	_, err := s.QuickCreateConfirm(context.Background(), QuickCreateInput{SKU: ""})

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, materials.calls, "no network call on local validation failure")
	assert.Equal(t, QuickPending, s.State().Quick.State)
}

func TestQuickCreateConfirm_FailurePreservesForm(t *testing.T) {
	s, _, materials := testSession(t)
	materials.err = apperror.NewDuplicateSKU("BIS-001")
	addUnresolved(t, s)

	_, err := s.QuickCreateConfirm(context.Background(), QuickCreateInput{SKU: "BIS-001"})

	assert.True(t, apperror.IsDuplicateSKU(err))

	state := s.State()
	assert.Equal(t, QuickPending, state.Quick.State, "stays open for correction")
	assert.NotEmpty(t, state.Quick.LastError)
	assert.True(t, state.Quick.StagedQuantity.Equal(types.MustMoney("20")), "staged values preserved")
	assert.Empty(t, state.Draft.Items)
}

func TestQuickCreateConfirm_WithoutOpenWorkflow(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.QuickCreateConfirm(context.Background(), QuickCreateInput{SKU: "X", Name: "Y"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestQuickCreateDismiss_PreservesEntryRow(t *testing.T) {
	s, _, _ := testSession(t)
	addUnresolved(t, s)

	s.QuickCreateDismiss()

	state := s.State()
	assert.Equal(t, QuickClosed, state.Quick.State)
	assert.Equal(t, "bisagra oculta", state.Entry.Query, "entry survives for correction")
}

// --- Submit ---

func fillValidDraft(t *testing.T, s *Session) {
	t.Helper()
	_, err := s.SetHeader(HeaderPatch{
		ProviderID:    intPtr(5),
		InvoiceNumber: strPtr("A-4500"),
		InvoiceDate:   strPtr("2024-01-01"),
		TotalAmount:   moneyPtr("1160"),
	})
	require.NoError(t, err)

	_, _, err = s.AddItem(EntryInput{
		Query:      "triplay",
		MaterialID: 1,
		Quantity:   types.MustMoney("10"),
		UnitCost:   types.MustMoney("100"),
	})
	require.NoError(t, err)
}

func TestSubmit_MissingProviderBlockedLocally(t *testing.T) {
	s, receptions, _ := testSession(t)
	_, err := s.SetHeader(HeaderPatch{InvoiceNumber: strPtr("A-1")})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), false)

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, receptions.calls, "rejected before any network call")
}

func TestSubmit_ListsEveryMissingReason(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.Submit(context.Background(), false)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	reasons, ok := appErr.Details["reasons"].([]string)
	require.True(t, ok)
	assert.Len(t, reasons, 3)
}

func TestSubmit_UnbalancedRequiresOverride(t *testing.T) {
	s, receptions, _ := testSession(t)
	fillValidDraft(t, s)

	// knock the draft out of balance
	_, err := s.SetHeader(HeaderPatch{TotalAmount: moneyPtr("5000")})
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), false)
	assert.True(t, apperror.IsUnbalancedDraft(err))
	assert.Equal(t, 0, receptions.calls)

	// warn-and-allow: the override goes through
	record, err := s.Submit(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ID)
	assert.Equal(t, 1, receptions.calls)
}

func TestSubmit_SuccessResetsDraft(t *testing.T) {
	s, receptions, _ := testSession(t)
	fillValidDraft(t, s)

	record, err := s.Submit(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ID)

	payload := receptions.lastBody
	assert.Equal(t, int64(5), payload.ProviderID)
	assert.Equal(t, "A-4500", payload.InvoiceNumber)
	assert.Equal(t, "2024-01-31", payload.DueDate, "derived due date travels with the payload")
	require.Len(t, payload.Items, 1)
	assert.Equal(t, int64(1), payload.Items[0].MaterialID)
	assert.Equal(t, 1000.0, payload.Items[0].LineTotalCost)

	state := s.State()
	assert.Empty(t, state.Draft.Items)
	assert.Zero(t, state.Draft.ProviderID)
	assert.Empty(t, state.Draft.InvoiceNumber)
	assert.True(t, state.Draft.TotalAmount.IsZero())
}

func TestSubmit_FailurePreservesDraft(t *testing.T) {
	s, receptions, _ := testSession(t)
	receptions.err = apperror.NewUpstream(500, "database exploded", nil)
	fillValidDraft(t, s)

	_, err := s.Submit(context.Background(), false)

	require.Error(t, err)
	state := s.State()
	assert.Len(t, state.Draft.Items, 1, "draft preserved so the user can retry")
	assert.Equal(t, "A-4500", state.Draft.InvoiceNumber)

	// a retry after the backend recovers succeeds
	receptions.err = nil
	_, err = s.Submit(context.Background(), false)
	assert.NoError(t, err)
}

type blockingReceptions struct {
	entered chan struct{}
	release chan struct{}
	record  ReceptionRecord
}

func (b *blockingReceptions) CreateReception(_ context.Context, _ Payload) (ReceptionRecord, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.record, nil
}

func TestSubmit_SecondCallRejectedWhileInFlight(t *testing.T) {
	blocking := &blockingReceptions{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		record:  ReceptionRecord{ID: 42, Status: "COMPLETED"},
	}
	s := NewSession(testStore(t), blocking, &fakeMaterials{})
	fillValidDraft(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), false)
		done <- err
	}()
	<-blocking.entered

	_, err := s.Submit(context.Background(), false)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSubmitInFlight, appErr.Code)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.Empty(t, s.State().Draft.Items, "first submit still completes and resets")
}

type blockingMaterials struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingMaterials) CreateMaterial(_ context.Context, m catalog.Material) (catalog.Material, error) {
	b.entered <- struct{}{}
	<-b.release
	m.ID = 99
	return m, nil
}

func TestQuickCreateConfirm_BlocksSubmitWhileSaving(t *testing.T) {
	blocking := &blockingMaterials{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(testStore(t), &fakeReceptions{}, blocking)
	addUnresolved(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.QuickCreateConfirm(context.Background(), QuickCreateInput{SKU: "BIS-001"})
		done <- err
	}()
	<-blocking.entered

	_, err := s.Submit(context.Background(), false)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSubmitInFlight, appErr.Code)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.Len(t, s.State().Draft.Items, 1, "the staged line still lands once the save resolves")
}

func TestManager_SessionLifecycle(t *testing.T) {
	store := testStore(t)
	m := NewManager(store, &fakeReceptions{}, &fakeMaterials{}, 0)

	s := m.Open()
	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	m.Close(s.ID)
	_, err = m.Get(s.ID)
	assert.True(t, apperror.IsNotFound(err))
}
