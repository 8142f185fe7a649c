package invoices

import (
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrInvoiceNotFound indicates a missing invoice reference.
	ErrInvoiceNotFound = fmt.Errorf("invoices: invoice %w", shared.ErrNotFound)
	// ErrCustomerNotFound indicates a missing customer reference.
	ErrCustomerNotFound = fmt.Errorf("invoices: customer %w", shared.ErrNotFound)
	// ErrNotDraft indicates an approval attempt on a non-DRAFT invoice.
	ErrNotDraft = fmt.Errorf("invoices: only draft invoices can be approved: %w", shared.ErrInvalidStatus)
	// ErrCrossCompanyInvoice indicates an invoice owned by another company.
	ErrCrossCompanyInvoice = fmt.Errorf("invoices: invoice %w", shared.ErrCrossCompany)
	// ErrCrossCompanyCustomer indicates a customer owned by another company.
	ErrCrossCompanyCustomer = fmt.Errorf("invoices: customer %w", shared.ErrCrossCompany)
)
