package recurring

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// CreateRecurringRequest is the boundary DTO for a new standing order.
type CreateRecurringRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Description     string     `json:"description" validate:"required,max=500"`
	Category        string     `json:"category" validate:"max=100"`
	Amount          string     `json:"amount" validate:"required"`
	DebitAccountID  int64      `json:"debitAccountId" validate:"required,gt=0"`
	CreditAccountID int64      `json:"creditAccountId" validate:"required,gt=0"`
	DayOfMonth      int        `json:"dayOfMonth" validate:"required,gte=1,lte=31"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
}

func (r CreateRecurringRequest) amount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("recurring: amount %q: %w", r.Amount, shared.ErrValidation)
	}
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("recurring: amount must be positive: %w", shared.ErrValidation)
	}
	return amount, nil
}
