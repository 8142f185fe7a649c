package invoices

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// CreateInvoiceRequest is the boundary DTO for draft creation. Any
// caller-supplied amounts are ignored; totals come from quantity and
// unit price only.
type CreateInvoiceRequest struct {
	CustomerID int64         `json:"customerId" validate:"required,gt=0"`
	Number     string        `json:"number,omitempty" validate:"omitempty,max=50"`
	IssueDate  *time.Time    `json:"issueDate,omitempty"`
	DueDate    *time.Time    `json:"dueDate,omitempty"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ItemRequest is one invoice line as submitted over the wire.
type ItemRequest struct {
	Description      string `json:"description" validate:"required,max=500"`
	Quantity         string `json:"quantity" validate:"required"`
	UnitPrice        string `json:"unitPrice" validate:"required"`
	RevenueAccountID int64  `json:"revenueAccountId" validate:"required,gt=0"`
}

// ApproveInvoiceRequest names the receivable account the approval
// posting debits.
type ApproveInvoiceRequest struct {
	ARAccountID int64 `json:"arAccountId" validate:"required,gt=0"`
}

// toItems converts the wire lines into typed items, rejecting
// unparseable or non-positive numbers.
func (r CreateInvoiceRequest) toItems() ([]Item, error) {
	items := make([]Item, 0, len(r.Items))
	for idx, line := range r.Items {
		quantity, err := decimal.NewFromString(line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invoices: item %d quantity %q: %w", idx, line.Quantity, shared.ErrValidation)
		}
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("invoices: item %d unit price %q: %w", idx, line.UnitPrice, shared.ErrValidation)
		}
		if quantity.Sign() <= 0 {
			return nil, fmt.Errorf("invoices: item %d quantity must be positive: %w", idx, shared.ErrValidation)
		}
		if unitPrice.Sign() < 0 {
			return nil, fmt.Errorf("invoices: item %d unit price must not be negative: %w", idx, shared.ErrValidation)
		}
		items = append(items, Item{
			Description:      line.Description,
			Quantity:         quantity,
			UnitPrice:        unitPrice,
			RevenueAccountID: line.RevenueAccountID,
		})
	}
	return items, nil
}
