package erp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"taller/internal/core/apperror"
	"taller/internal/draft"
)

// ReceptionSummary is one row of the reception history list.
type ReceptionSummary struct {
	ID            int64           `json:"id"`
	ProviderName  string          `json:"provider_name"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

// ReceptionDetail is a committed reception with its stock transactions, as the
// backend reports them after unit conversion.
type ReceptionDetail struct {
	ID            int64                 `json:"id"`
	ProviderName  string                `json:"provider_name"`
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceDate   string                `json:"invoice_date"`
	DueDate       string                `json:"due_date,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	Items         []ReceptionDetailItem `json:"items"`
}

// ReceptionDetailItem is one received line in usage units.
type ReceptionDetailItem struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	PurchaseUnit     string          `json:"purchase_unit"`
	UsageUnit        string          `json:"usage_unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	PurchaseQuantity decimal.Decimal `json:"purchase_quantity"`
	UsageQuantity    decimal.Decimal `json:"usage_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type receptionCreatedWire struct {
	ID            int64  `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
}

// CreateReception commits a reception draft payload. The backend converts
// purchase quantities to usage units, moves stock and books the payable.
func (c *Client) CreateReception(ctx context.Context, payload draft.Payload) (draft.ReceptionRecord, error) {
	var created receptionCreatedWire
	if err := c.do(ctx, http.MethodPost, "/inventory/reception", payload, &created); err != nil {
		return draft.ReceptionRecord{}, err
	}
	return draft.ReceptionRecord{
		ID:            created.ID,
		InvoiceNumber: created.InvoiceNumber,
		Status:        created.Status,
	}, nil
}

// ListReceptions returns the reception history.
func (c *Client) ListReceptions(ctx context.Context) ([]ReceptionSummary, error) {
	var out []ReceptionSummary
	if err := c.do(ctx, http.MethodGet, "/inventory/receptions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReception returns one reception with its items.
func (c *Client) GetReception(ctx context.Context, id int64) (ReceptionDetail, error) {
	var out ReceptionDetail
	path := fmt.Sprintf("/inventory/receptions/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if upstreamStatus(err) == http.StatusNotFound {
			return ReceptionDetail{}, apperror.NewNotFound("reception", id).WithCause(err)
		}
		return ReceptionDetail{}, err
	}
	return out, nil
}

// CancelReception cancels a committed reception. The stock and cost reversal
// runs server-side; from here the operation is irreversible.
func (c *Client) CancelReception(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/inventory/receptions/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		if upstreamStatus(err) == http.StatusNotFound {
			return apperror.NewNotFound("reception", id).WithCause(err)
		}
		return err
	}
	return nil
}
