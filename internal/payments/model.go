package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/ledger"
)

// Payment records money received against a posted invoice. Payments
// are append-only; correcting one means posting another.
type Payment struct {
	ID            int64           `json:"id"`
	CompanyID     int64           `json:"companyId"`
	InvoiceID     int64           `json:"invoiceId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	TransactionID int64           `json:"transactionId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// InvoiceRef carries the invoice fields the workflow needs.
type InvoiceRef struct {
	ID            int64
	CompanyID     int64
	Number        string
	Status        invoices.Status
	Total         decimal.Decimal
	TransactionID *int64
}

// EntryRef is one approval-transaction entry with its account's
// classification, used for receivable discovery.
type EntryRef struct {
	AccountID int64
	Amount    decimal.Decimal
	Type      ledger.AccountType
}
