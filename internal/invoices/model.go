package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the invoice lifecycle state. Transitions are one-way:
// DRAFT to POSTED at approval, POSTED to PAID once cumulative payments
// cover the total. VOID is reserved and never set by any operation.
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusPosted Status = "POSTED"
	StatusPaid   Status = "PAID"
	StatusVoid   Status = "VOID"
)

// Invoice is a billing document for one customer. It has no ledger
// footprint until approved; TransactionID points at the approval
// posting afterwards.
type Invoice struct {
	ID            int64           `json:"id"`
	CompanyID     int64           `json:"companyId"`
	CustomerID    int64           `json:"customerId"`
	Number        string          `json:"number"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Currency      string          `json:"currency"`
	Status        Status          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Items         []Item          `json:"items"`
	TransactionID *int64          `json:"transactionId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Item is one invoice line. Amount is always quantity times unit
// price, recomputed server-side.
type Item struct {
	ID               int64           `json:"id"`
	InvoiceID        int64           `json:"invoiceId"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Amount           decimal.Decimal `json:"amount"`
	RevenueAccountID int64           `json:"revenueAccountId"`
}

// CustomerRef carries the customer fields the workflow needs.
type CustomerRef struct {
	ID        int64
	CompanyID int64
	Name      string
}

// CompanyRef carries the company fields the workflow needs.
type CompanyRef struct {
	ID       int64
	Currency string
}
