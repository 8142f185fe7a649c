package recurring

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a monthly standing order: a fixed amount moved from
// one account to another on a given day of the month. NextRunDate is
// the only scheduling cursor; it always advances exactly one month at
// a time.
type Transaction struct {
	ID              int64           `json:"id"`
	CompanyID       int64           `json:"companyId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	DebitAccountID  int64           `json:"debitAccountId"`
	CreditAccountID int64           `json:"creditAccountId"`
	DayOfMonth      int             `json:"dayOfMonth"`
	NextRunDate     time.Time       `json:"nextRunDate"`
	StartDate       *time.Time      `json:"startDate,omitempty"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ActiveAt reports whether the item should post when processed at the
// given time. Inactive items still advance their schedule.
func (t Transaction) ActiveAt(asOf time.Time) bool {
	if t.StartDate != nil && asOf.Before(*t.StartDate) {
		return false
	}
	if t.EndDate != nil && asOf.After(*t.EndDate) {
		return false
	}
	return true
}

// CycleResult summarizes one scheduler pass.
type CycleResult struct {
	Due     int `json:"due"`
	Posted  int `json:"posted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
