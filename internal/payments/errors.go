package payments

import (
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrInvoiceNotFound indicates a missing invoice reference.
	ErrInvoiceNotFound = fmt.Errorf("payments: invoice %w", shared.ErrNotFound)
	// ErrNotPosted indicates a payment against an invoice that is not POSTED.
	ErrNotPosted = fmt.Errorf("payments: only posted invoices accept payments: %w", shared.ErrInvalidStatus)
	// ErrNoReceivable indicates an approved invoice whose posting has no
	// positive asset entry. This is a data integrity problem.
	ErrNoReceivable = fmt.Errorf("payments: no receivable entry on approval transaction: %w", shared.ErrInconsistentState)
	// ErrCrossCompanyInvoice indicates an invoice owned by another company.
	ErrCrossCompanyInvoice = fmt.Errorf("payments: invoice %w", shared.ErrCrossCompany)
	// ErrNonPositiveAmount indicates a zero or negative payment amount.
	ErrNonPositiveAmount = fmt.Errorf("payments: amount must be positive: %w", shared.ErrValidation)
)
