package payments

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// RecordPaymentRequest is the boundary DTO for recording a payment
// against the invoice named in the URL.
type RecordPaymentRequest struct {
	Amount        string     `json:"amount" validate:"required"`
	CashAccountID int64      `json:"cashAccountId" validate:"required,gt=0"`
	Date          *time.Time `json:"date,omitempty"`
	Method        string     `json:"method" validate:"required,max=50"`
	Reference     string     `json:"reference,omitempty" validate:"omitempty,max=200"`
}

func (r RecordPaymentRequest) amount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("payments: amount %q: %w", r.Amount, shared.ErrValidation)
	}
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, ErrNonPositiveAmount
	}
	return amount, nil
}
