package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates the five account classifications.
type AccountType string

const (
	TypeAsset     AccountType = "ASSET"
	TypeLiability AccountType = "LIABILITY"
	TypeEquity    AccountType = "EQUITY"
	TypeRevenue   AccountType = "REVENUE"
	TypeExpense   AccountType = "EXPENSE"
)

// AccountTypes lists every classification in statement order.
var AccountTypes = []AccountType{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}

// Valid reports whether t is one of the five classifications.
func (t AccountType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// Account is a ledger account. Name is unique per company and the
// classification never changes after creation.
type Account struct {
	ID        int64       `json:"id"`
	CompanyID int64       `json:"companyId"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Entry is a single journal line. Positive amounts are debits, negative
// are credits. Entries are owned by their transaction and never edited
// after posting.
type Entry struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transactionId"`
	AccountID     int64           `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Transaction is a balanced set of entries for one company.
type Transaction struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	Date        time.Time `json:"date"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Entries     []Entry   `json:"entries"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DateRange bounds an aggregation query, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// YearRange returns the range covering a calendar year.
func YearRange(year int) DateRange {
	return DateRange{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

// TypeSum is the aggregated entry total for one classification.
type TypeSum struct {
	Type   AccountType
	Amount decimal.Decimal
}

// AccountSum is the aggregated entry total for one account.
type AccountSum struct {
	Account Account
	Amount  decimal.Decimal
}

// TrialBalanceRow splits an account's net balance into display columns.
// Exactly one of Debit and Credit is non-zero.
type TrialBalanceRow struct {
	Account Account         `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// CompanyRef carries the company fields the ledger needs for posting.
type CompanyRef struct {
	ID       int64
	Name     string
	Currency string
}
