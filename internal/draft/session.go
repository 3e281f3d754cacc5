package draft

import (
	"context"
	"sync"
	"time"

	"taller/internal/catalog"
	"taller/internal/core/apperror"
	"taller/internal/core/id"
	"taller/internal/core/types"
	"taller/pkg/logger"
)

// ReceptionService is the persistence boundary. The backend is responsible for
// unit conversion, stock and weighted-average cost updates; this side only
// prepares a valid payload.
type ReceptionService interface {
	CreateReception(ctx context.Context, payload Payload) (ReceptionRecord, error)
}

// MaterialCreator creates a catalog entry on the ERP backend and returns it
// with its assigned identity.
type MaterialCreator interface {
	CreateMaterial(ctx context.Context, m catalog.Material) (catalog.Material, error)
}

// Payload is the reception document sent to the ERP backend. Display-only
// fields are dropped; amounts are rounded to two digits at this boundary.
type Payload struct {
	ProviderID    int64         `json:"provider_id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	DueDate       string        `json:"due_date,omitempty"`
	TotalAmount   float64       `json:"total_amount"`
	Notes         string        `json:"notes,omitempty"`
	Items         []PayloadItem `json:"items"`
}

// PayloadItem is the projection of a line item the backend accepts.
type PayloadItem struct {
	MaterialID    int64   `json:"material_id"`
	Quantity      float64 `json:"quantity"`
	LineTotalCost float64 `json:"line_total_cost"`
}

// ReceptionRecord is the committed reception as reported by the backend.
type ReceptionRecord struct {
	ID            int64
	InvoiceNumber string
	Status        string
}

// EntryRow is the staging area for the next line item. EditItem refills it
// with the values of the removed line.
type EntryRow struct {
	Query        string
	MaterialID   int64
	MaterialName string
	Quantity     types.Money
	UnitCost     types.Money
}

// LineTotal is the derived preview total for the staged entry.
func (e EntryRow) LineTotal() types.Money {
	return e.Quantity.Mul(e.UnitCost)
}

// EntryInput is a request to turn the entry row into a ledger line.
type EntryInput struct {
	Query      string
	MaterialID int64 // 0 when the user typed a query but made no selection
	Quantity   types.Money
	UnitCost   types.Money
}

// HeaderPatch updates draft header fields. Nil fields are left untouched.
type HeaderPatch struct {
	ProviderID    *int64
	InvoiceNumber *string
	InvoiceDate   *string
	TotalAmount   *types.Money
	Notes         *string
}

// Session owns one ReceptionDraft for one editing session. All operations are
// synchronous in-memory computations except quick-create confirmation and
// submission, which cross the network; a single in-flight flag guards those.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	lastAccess time.Time
	draft      ReceptionDraft
	entry      EntryRow
	quick      QuickCreate
	inFlight   bool

	catalog    *catalog.Store
	receptions ReceptionService
	materials  MaterialCreator
}

// NewSession opens a session with an empty draft.
func NewSession(store *catalog.Store, receptions ReceptionService, materials MaterialCreator) *Session {
	now := time.Now()
	return &Session{
		ID:         id.New(),
		CreatedAt:  now,
		lastAccess: now,
		draft:      NewDraft(),
		quick:      QuickCreate{State: QuickClosed},
		catalog:    store,
		receptions: receptions,
		materials:  materials,
	}
}

// Snapshot is the full observable state of the session.
type Snapshot struct {
	Draft   ReceptionDraft
	Entry   EntryRow
	Quick   QuickCreate
	Balance Balance
}

// State returns a copy of the current session state with a freshly computed balance.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	d := s.draft
	d.Items = make([]LineItem, len(s.draft.Items))
	copy(d.Items, s.draft.Items)
	return Snapshot{
		Draft:   d,
		Entry:   s.entry,
		Quick:   s.quick,
		Balance: s.draft.Balance(),
	}
}

// SetHeader patches header fields. Changing the provider or the invoice date
// re-derives the due date from the provider's credit days.
func (s *Session) SetHeader(patch HeaderPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.ProviderID != nil {
		if *patch.ProviderID != 0 {
			if _, err := s.catalog.ProviderByID(*patch.ProviderID); err != nil {
				return Snapshot{}, err
			}
		}
		s.draft.ProviderID = *patch.ProviderID
	}
	if patch.InvoiceNumber != nil {
		s.draft.InvoiceNumber = *patch.InvoiceNumber
	}
	if patch.InvoiceDate != nil {
		if *patch.InvoiceDate != "" {
			if _, err := time.Parse(DateLayout, *patch.InvoiceDate); err != nil {
				return Snapshot{}, apperror.NewValidation("invoice_date must be YYYY-MM-DD").
					WithDetail("field", "invoice_date")
			}
		}
		s.draft.InvoiceDate = *patch.InvoiceDate
	}
	if patch.TotalAmount != nil {
		if patch.TotalAmount.IsNegative() {
			return Snapshot{}, apperror.NewValidation("total_amount must not be negative").
				WithDetail("field", "total_amount")
		}
		s.draft.TotalAmount = *patch.TotalAmount
	}
	if patch.Notes != nil {
		s.draft.Notes = *patch.Notes
	}

	s.deriveDueDateLocked()

	return s.snapshotLocked(), nil
}

// deriveDueDateLocked runs the reactive due-date rule.
func (s *Session) deriveDueDateLocked() {
	if s.draft.ProviderID == 0 {
		s.draft.DueDate = ""
		return
	}
	provider, err := s.catalog.ProviderByID(s.draft.ProviderID)
	if err != nil {
		s.draft.DueDate = ""
		return
	}
	s.draft.recalculateDueDate(provider.CreditDays)
}

// AddItem validates the entry and appends a line. When the query resolved to
// no material (MaterialID 0), control passes to the quick-create sub-workflow
// instead and quickOpened is true. The returned line is a copy, detached from
// the draft.
func (s *Session) AddItem(in EntryInput) (item LineItem, quickOpened bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateEntry(in); err != nil {
		return LineItem{}, false, err
	}

	if in.MaterialID == 0 {
		form := catalog.NewMaterialDraft(in.Query, s.draft.ProviderID)
		s.quick.open(form, in.Quantity, in.UnitCost)
		s.entry = EntryRow{
			Query:    in.Query,
			Quantity: in.Quantity,
			UnitCost: in.UnitCost,
		}
		return LineItem{}, true, nil
	}

	material, err := s.catalog.MaterialByID(in.MaterialID)
	if err != nil {
		return LineItem{}, false, err
	}

	added := s.draft.appendItem(material.ID, material.Name, in.Quantity, in.UnitCost)
	s.entry = EntryRow{}
	return added, false, nil
}

func validateEntry(in EntryInput) error {
	if in.Query == "" {
		return apperror.NewValidation("material search text is required").
			WithDetail("field", "query")
	}
	if !in.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be greater than zero").
			WithDetail("field", "quantity")
	}
	if !in.UnitCost.IsPositive() {
		return apperror.NewValidation("unit cost must be greater than zero").
			WithDetail("field", "unit_cost")
	}
	return nil
}

// EditItem removes the line from the ledger and refills the entry row with its
// values. Re-adding produces a new TempID.
func (s *Session) EditItem(tempID string) (EntryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.draft.takeItem(tempID)
	if !ok {
		return EntryRow{}, apperror.NewNotFound("line item", tempID)
	}

	s.entry = EntryRow{
		Query:        item.MaterialName,
		MaterialID:   item.MaterialID,
		MaterialName: item.MaterialName,
		Quantity:     item.Quantity,
		UnitCost:     item.UnitCostDisplay,
	}
	return s.entry, nil
}

// RemoveItem deletes a line. The destructive step requires the caller to have
// confirmed explicitly; there is no undo afterwards.
func (s *Session) RemoveItem(tempID string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !confirmed {
		return apperror.NewValidation("removal requires explicit confirmation").
			WithDetail("hint", "pass confirm=true")
	}
	if _, ok := s.draft.takeItem(tempID); !ok {
		return apperror.NewNotFound("line item", tempID)
	}
	return nil
}

// Distribute applies the proportional discount distribution and returns the
// resulting balance. applied is false when there was nothing to distribute.
func (s *Session) Distribute() (Balance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := s.draft.DistributeDiscount()
	return s.draft.Balance(), applied
}

// QuickCreateConfirm creates the missing material on the ERP backend and, on
// success, injects a line item using the staged quantity and cost. On failure
// the sub-workflow stays open with the error so nothing has to be re-entered.
func (s *Session) QuickCreateConfirm(ctx context.Context, in QuickCreateInput) (LineItem, error) {
	s.mu.Lock()
	if s.quick.State != QuickPending {
		s.mu.Unlock()
		return LineItem{}, apperror.NewConflict("no quick-create in progress")
	}
	if s.inFlight {
		s.mu.Unlock()
		return LineItem{}, apperror.NewSubmitInFlight()
	}

	s.quick.apply(in)
	if s.quick.Form.SKU == "" || s.quick.Form.Name == "" {
		s.mu.Unlock()
		return LineItem{}, apperror.NewValidation("sku and name are required").
			WithDetail("field", "sku,name")
	}

	// Inherit the draft's current provider as the material's default provider.
	s.quick.Form.ProviderID = s.draft.ProviderID
	form := s.quick.Form
	s.quick.State = QuickSaving
	s.inFlight = true
	s.mu.Unlock()

	created, err := s.materials.CreateMaterial(ctx, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.quick.State = QuickPending
		s.quick.LastError = errorMessage(err)
		return LineItem{}, err
	}

	s.catalog.Add(created)
	added := s.draft.appendItem(created.ID, created.Name, s.quick.StagedQuantity, s.quick.StagedUnitCost)
	s.quick.dismiss()
	s.entry = EntryRow{}

	logger.Info(ctx, "material quick-created and injected",
		"material_id", created.ID,
		"sku", created.SKU)

	return added, nil
}

// QuickCreateDismiss closes the sub-workflow without creating anything.
// The entry row is preserved so the user can correct the query.
func (s *Session) QuickCreateDismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quick.dismiss()
}

// Submit validates the draft, builds the payload and delegates to the ERP
// backend. Unbalanced drafts are allowed through only with an explicit
// override. On success the draft resets to empty; on failure it is preserved
// unchanged so no work is lost.
func (s *Session) Submit(ctx context.Context, override bool) (ReceptionRecord, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ReceptionRecord{}, apperror.NewSubmitInFlight()
	}

	if err := s.validateLocked(); err != nil {
		s.mu.Unlock()
		return ReceptionRecord{}, err
	}

	balance := s.draft.Balance()
	if !balance.Balanced && !override {
		s.mu.Unlock()
		return ReceptionRecord{}, apperror.NewUnbalancedDraft(types.Round2(balance.Difference).String()).
			WithDetail("target_subtotal", types.ToWire(balance.TargetSubtotal)).
			WithDetail("items_total", types.ToWire(balance.ItemsTotal))
	}

	payload := s.buildPayloadLocked()
	s.inFlight = true
	s.mu.Unlock()

	record, err := s.receptions.CreateReception(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		logger.Warn(ctx, "reception submit failed, draft preserved",
			"invoice_number", payload.InvoiceNumber,
			"error", err)
		return ReceptionRecord{}, err
	}

	logger.Info(ctx, "reception submitted",
		"reception_id", record.ID,
		"invoice_number", payload.InvoiceNumber,
		"items", len(payload.Items))

	s.draft = NewDraft()
	s.entry = EntryRow{}
	s.quick.dismiss()

	return record, nil
}

// validateLocked enforces the pre-submit completeness rules, listing every
// failed reason.
func (s *Session) validateLocked() error {
	var reasons []string
	if s.draft.ProviderID == 0 {
		reasons = append(reasons, "provider is required")
	}
	if s.draft.InvoiceNumber == "" {
		reasons = append(reasons, "invoice number is required")
	}
	if len(s.draft.Items) == 0 {
		reasons = append(reasons, "at least one line item is required")
	}
	for _, item := range s.draft.Items {
		if item.MaterialID == 0 {
			return apperror.NewUnresolvedMaterial(item.MaterialName)
		}
	}
	if len(reasons) > 0 {
		return apperror.NewValidation("draft is incomplete").
			WithDetail("reasons", reasons)
	}
	return nil
}

// buildPayloadLocked projects the draft to the wire payload, dropping
// display-only fields and rounding at the boundary.
func (s *Session) buildPayloadLocked() Payload {
	items := make([]PayloadItem, len(s.draft.Items))
	for i, item := range s.draft.Items {
		items[i] = PayloadItem{
			MaterialID:    item.MaterialID,
			Quantity:      types.ToFloat(item.Quantity),
			LineTotalCost: types.ToWire(item.LineTotalCost),
		}
	}
	return Payload{
		ProviderID:    s.draft.ProviderID,
		InvoiceNumber: s.draft.InvoiceNumber,
		InvoiceDate:   s.draft.InvoiceDate,
		DueDate:       s.draft.DueDate,
		TotalAmount:   types.ToWire(s.draft.TotalAmount),
		Notes:         s.draft.Notes,
		Items:         items,
	}
}

// touch records activity for TTL cleanup.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func errorMessage(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return "request failed"
}
