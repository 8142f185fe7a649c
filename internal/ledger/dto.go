package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// EntryInput describes one journal line for a posting request.
type EntryInput struct {
	AccountID int64
	Amount    decimal.Decimal
}

// PostingInput groups the fields required to post a transaction.
type PostingInput struct {
	Description string
	Date        time.Time
	Currency    string
	Entries     []EntryInput
}

// Validate ensures the posting meets the balance invariant before any
// storage access. Account ownership is checked inside the unit of work.
func (in PostingInput) Validate() error {
	if len(in.Entries) == 0 {
		return ErrNoEntries
	}
	sum := decimal.Zero
	for idx, entry := range in.Entries {
		if entry.AccountID == 0 {
			return fmt.Errorf("ledger: entry %d missing account: %w", idx, shared.ErrValidation)
		}
		sum = sum.Add(entry.Amount)
	}
	if !sum.IsZero() {
		return ErrUnbalanced
	}
	return nil
}

// CreateAccountRequest is the boundary DTO for account creation.
type CreateAccountRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Type string `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
}

// PostTransactionRequest is the boundary DTO for manual journal postings.
// Amounts arrive as decimal strings and are converted exactly once here.
type PostTransactionRequest struct {
	Description string         `json:"description" validate:"required,max=500"`
	Date        *time.Time     `json:"date,omitempty"`
	Currency    string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	Entries     []EntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// EntryRequest is one journal line as submitted over the wire.
type EntryRequest struct {
	AccountID int64  `json:"accountId" validate:"required,gt=0"`
	Amount    string `json:"amount" validate:"required"`
}

// ToPostingInput converts the request into a typed posting input,
// rejecting unparseable amounts.
func (r PostTransactionRequest) ToPostingInput() (PostingInput, error) {
	in := PostingInput{
		Description: r.Description,
		Currency:    r.Currency,
		Entries:     make([]EntryInput, 0, len(r.Entries)),
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	for idx, entry := range r.Entries {
		amount, err := decimal.NewFromString(entry.Amount)
		if err != nil {
			return PostingInput{}, fmt.Errorf("ledger: entry %d amount %q: %w", idx, entry.Amount, shared.ErrValidation)
		}
		in.Entries = append(in.Entries, EntryInput{AccountID: entry.AccountID, Amount: amount})
	}
	return in, nil
}
