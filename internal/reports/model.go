package reports

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// YearFigures holds one year's income statement magnitudes. Revenue
// and expenses are absolute values; the stored sign convention stays
// inside the ledger.
type YearFigures struct {
	Year      int             `json:"year"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// ProfitAndLoss compares a year against the previous one.
type ProfitAndLoss struct {
	Current  YearFigures `json:"current"`
	Previous YearFigures `json:"previous"`
}

// FinancialPosition is the per-classification sum view, optionally
// restricted to one calendar year.
type FinancialPosition struct {
	Year   *int                                   `json:"year,omitempty"`
	Totals map[ledger.AccountType]decimal.Decimal `json:"totals"`
}

// AccountBalance is one account's signed sum for the detailed view.
type AccountBalance struct {
	Account ledger.Account  `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// FinancialPositionDetail breaks the position out per account.
type FinancialPositionDetail struct {
	Year     *int             `json:"year,omitempty"`
	Accounts []AccountBalance `json:"accounts"`
}
