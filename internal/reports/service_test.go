package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/ledger/ledgertest"
)

func seededService(t *testing.T) (*Service, *ledgertest.MemoryRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := ledgertest.NewMemoryRepository()
	repo.AddCompany(ledger.CompanyRef{ID: 1, Name: "Trillium Brewing", Currency: "USD"})
	cash := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Cash", Type: ledger.TypeAsset})
	revenue := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Ale Sales", Type: ledger.TypeRevenue})
	expense := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Hops", Type: ledger.TypeExpense})

	ledgerSvc := ledger.NewService(repo, logger)
	post := func(date time.Time, debit, credit int64, amount string) {
		t.Helper()
		value := decimal.RequireFromString(amount)
		_, err := ledgerSvc.Post(context.Background(), 1, ledger.PostingInput{
			Description: "seed",
			Date:        date,
			Entries: []ledger.EntryInput{
				{AccountID: debit, Amount: value},
				{AccountID: credit, Amount: value.Neg()},
			},
		})
		require.NoError(t, err)
	}

	// 2026: 5000 revenue, 1200 expenses. 2025: 3000 revenue.
	post(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, "5000.00")
	post(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), expense.ID, cash.ID, "1200.00")
	post(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), cash.ID, revenue.ID, "3000.00")

	return NewService(ledgerSvc), repo
}

func TestProfitAndLossComparesYears(t *testing.T) {
	service, _ := seededService(t)

	report, err := service.ProfitAndLoss(context.Background(), 1, 2026)
	require.NoError(t, err)

	require.Equal(t, 2026, report.Current.Year)
	require.True(t, report.Current.Revenue.Equal(decimal.RequireFromString("5000.00")))
	require.True(t, report.Current.Expenses.Equal(decimal.RequireFromString("1200.00")))
	require.True(t, report.Current.NetIncome.Equal(decimal.RequireFromString("3800.00")))

	require.Equal(t, 2025, report.Previous.Year)
	require.True(t, report.Previous.Revenue.Equal(decimal.RequireFromString("3000.00")))
	require.True(t, report.Previous.Expenses.IsZero())
	require.True(t, report.Previous.NetIncome.Equal(decimal.RequireFromString("3000.00")))
}

func TestFinancialPositionZeroFillsClassifications(t *testing.T) {
	service, _ := seededService(t)

	position, err := service.FinancialPosition(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, position.Totals, len(ledger.AccountTypes))

	require.True(t, position.Totals[ledger.TypeAsset].Equal(decimal.RequireFromString("6800.00")))
	require.True(t, position.Totals[ledger.TypeRevenue].Equal(decimal.RequireFromString("-8000.00")))
	require.True(t, position.Totals[ledger.TypeExpense].Equal(decimal.RequireFromString("1200.00")))
	require.True(t, position.Totals[ledger.TypeLiability].IsZero())
	require.True(t, position.Totals[ledger.TypeEquity].IsZero())
}

func TestFinancialPositionRespectsYearFilter(t *testing.T) {
	service, _ := seededService(t)
	year := 2025

	position, err := service.FinancialPosition(context.Background(), 1, &year)
	require.NoError(t, err)
	require.True(t, position.Totals[ledger.TypeRevenue].Equal(decimal.RequireFromString("-3000.00")))
	require.True(t, position.Totals[ledger.TypeExpense].IsZero())
}

func TestFinancialPositionDetailedListsAccounts(t *testing.T) {
	service, _ := seededService(t)

	detail, err := service.FinancialPositionDetailed(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, detail.Accounts, 3)
	require.Equal(t, "Cash", detail.Accounts[0].Account.Name)
	require.True(t, detail.Accounts[0].Balance.Equal(decimal.RequireFromString("6800.00")))
}

func TestTrialBalanceSplitsColumns(t *testing.T) {
	service, _ := seededService(t)

	rows, err := service.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, row := range rows {
		require.False(t, row.Debit.IsZero() && row.Credit.IsZero(), "zero-balance accounts are excluded")
		require.True(t, row.Debit.IsZero() || row.Credit.IsZero(), "never both columns")
	}
}
