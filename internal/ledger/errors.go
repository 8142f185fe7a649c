package ledger

import (
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrNoEntries indicates a posting without journal lines.
	ErrNoEntries = fmt.Errorf("ledger: transaction requires at least one entry: %w", shared.ErrValidation)
	// ErrUnbalanced indicates entry amounts do not sum to zero.
	ErrUnbalanced = fmt.Errorf("ledger: entries must sum to zero: %w", shared.ErrValidation)
	// ErrInvalidAccountType indicates an unknown classification.
	ErrInvalidAccountType = fmt.Errorf("ledger: invalid account type: %w", shared.ErrValidation)
	// ErrAccountNotFound indicates a missing account reference.
	ErrAccountNotFound = fmt.Errorf("ledger: account %w", shared.ErrNotFound)
	// ErrCompanyNotFound indicates a missing company reference.
	ErrCompanyNotFound = fmt.Errorf("ledger: company %w", shared.ErrNotFound)
	// ErrTransactionNotFound indicates a missing transaction.
	ErrTransactionNotFound = fmt.Errorf("ledger: transaction %w", shared.ErrNotFound)
	// ErrCrossCompanyAccount indicates an account owned by another company.
	ErrCrossCompanyAccount = fmt.Errorf("ledger: account %w", shared.ErrCrossCompany)
	// ErrDuplicateAccountName indicates the per-company unique name constraint fired.
	ErrDuplicateAccountName = fmt.Errorf("ledger: account name already in use: %w", shared.ErrValidation)
)
