package ledger_test

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
	"github.com/ledgerline/ledgerline/internal/shared"
)

type fixture struct {
	service *ledger.Service
	repo    *ledgertest.MemoryRepository
	cash    ledger.Account
	revenue ledger.Account
	expense ledger.Account
	foreign ledger.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := ledgertest.NewMemoryRepository()
	repo.AddCompany(ledger.CompanyRef{ID: 1, Name: "Trillium Brewing", Currency: "USD"})
	repo.AddCompany(ledger.CompanyRef{ID: 2, Name: "Elsewhere GmbH", Currency: "EUR"})
	cash := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Cash", Type: ledger.TypeAsset})
	revenue := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Ale Sales", Type: ledger.TypeRevenue})
	expense := repo.AddAccount(ledger.Account{CompanyID: 1, Name: "Hops", Type: ledger.TypeExpense})
	foreign := repo.AddAccount(ledger.Account{CompanyID: 2, Name: "Foreign Cash", Type: ledger.TypeAsset})

	return &fixture{
		service: ledger.NewService(repo, logger),
		repo:    repo,
		cash:    cash,
		revenue: revenue,
		expense: expense,
		foreign: foreign,
	}
}

func TestPostBalancedTransaction(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	f.service.WithNow(func() time.Time { return fixed })

	posted, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "Cash sale",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("120.50")},
			{AccountID: f.revenue.ID, Amount: decimal.RequireFromString("-120.50")},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, posted.ID)
	require.Equal(t, fixed, posted.Date, "date defaults to the clock")
	require.Equal(t, "USD", posted.Currency, "currency defaults to the company's")
	require.Len(t, posted.Entries, 2)
}

type countingBumper struct {
	calls int
}

func (b *countingBumper) Bump(context.Context) error {
	b.calls++
	return nil
}

func TestPostBumpsCacheOnlyAfterSuccess(t *testing.T) {
	f := newFixture(t)
	bumper := &countingBumper{}
	f.service.WithCacheBumper(bumper)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "Cash sale",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("100.00")},
			{AccountID: f.revenue.ID, Amount: decimal.RequireFromString("-100.00")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, bumper.calls)

	_, err = f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "off balance",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("100.00")},
		},
	})
	require.Error(t, err)
	require.Equal(t, 1, bumper.calls, "failed postings must not invalidate the cache")
}

func TestPostRejectsImbalance(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "off by a cent",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("100.00")},
			{AccountID: f.revenue.ID, Amount: decimal.RequireFromString("-99.99")},
		},
	})
	require.ErrorIs(t, err, ledger.ErrUnbalanced)
	require.Empty(t, f.repo.Transactions(), "rejected posting must persist nothing")
}

func TestPostRejectsEmptyEntries(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{Description: "empty"})
	require.ErrorIs(t, err, ledger.ErrNoEntries)
}

func TestPostRejectsUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "ghost account",
		Entries: []ledger.EntryInput{
			{AccountID: 999, Amount: decimal.RequireFromString("10")},
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("-10")},
		},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, f.repo.Transactions())
}

func TestPostRejectsCrossCompanyAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "wrong tenant",
		Entries: []ledger.EntryInput{
			{AccountID: f.foreign.ID, Amount: decimal.RequireFromString("10")},
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("-10")},
		},
	})
	require.ErrorIs(t, err, shared.ErrCrossCompany)
	require.Empty(t, f.repo.Transactions())
}

func TestPostRejectsUnknownCompany(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 404, ledger.PostingInput{
		Description: "no company",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("10")},
			{AccountID: f.revenue.ID, Amount: decimal.RequireFromString("-10")},
		},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAggregateByTypeZeroFillsAndSums(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "hops purchase",
		Entries: []ledger.EntryInput{
			{AccountID: f.expense.ID, Amount: decimal.RequireFromString("1000")},
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("-1000")},
		},
	})
	require.NoError(t, err)

	sums, err := f.service.AggregateByType(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, sums, len(ledger.AccountTypes))
	require.True(t, sums[ledger.TypeExpense].Equal(decimal.RequireFromString("1000")))
	require.True(t, sums[ledger.TypeAsset].Equal(decimal.RequireFromString("-1000")))
	require.True(t, sums[ledger.TypeLiability].IsZero())
	require.True(t, sums[ledger.TypeEquity].IsZero())
	require.True(t, sums[ledger.TypeRevenue].IsZero())
}

func TestAggregateByTypeRespectsDateRange(t *testing.T) {
	f := newFixture(t)
	post := func(date time.Time, amount string) {
		t.Helper()
		value := decimal.RequireFromString(amount)
		_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
			Description: "sale",
			Date:        date,
			Entries: []ledger.EntryInput{
				{AccountID: f.cash.ID, Amount: value},
				{AccountID: f.revenue.ID, Amount: value.Neg()},
			},
		})
		require.NoError(t, err)
	}
	post(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "300")
	post(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), "700")

	rng := ledger.YearRange(2026)
	sums, err := f.service.AggregateByType(context.Background(), 1, &rng)
	require.NoError(t, err)
	require.True(t, sums[ledger.TypeAsset].Equal(decimal.RequireFromString("700")))
}

func TestTrialBalanceSkipsZeroAndSplitsColumns(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "sale",
		Entries: []ledger.EntryInput{
			{AccountID: f.cash.ID, Amount: decimal.RequireFromString("500")},
			{AccountID: f.revenue.ID, Amount: decimal.RequireFromString("-500")},
		},
	})
	require.NoError(t, err)
	// In and out of cash on the same day nets the expense account to zero.
	_, err = f.service.Post(context.Background(), 1, ledger.PostingInput{
		Description: "refunded purchase",
		Entries: []ledger.EntryInput{
			{AccountID: f.expense.ID, Amount: decimal.RequireFromString("40")},
			{AccountID: f.expense.ID, Amount: decimal.RequireFromString("-40")},
		},
	})
	require.NoError(t, err)

	rows, err := f.service.TrialBalance(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2, "zero-net expense account is excluded")

	require.Equal(t, f.cash.ID, rows[0].Account.ID)
	require.True(t, rows[0].Debit.Equal(decimal.RequireFromString("500")))
	require.True(t, rows[0].Credit.IsZero())

	require.Equal(t, f.revenue.ID, rows[1].Account.ID)
	require.True(t, rows[1].Debit.IsZero())
	require.True(t, rows[1].Credit.Equal(decimal.RequireFromString("500")))
}

func TestCreateAccountValidatesType(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateAccount(context.Background(), 1, "Misc", ledger.AccountType("WEIRD"))
	require.ErrorIs(t, err, ledger.ErrInvalidAccountType)

	_, err = f.service.CreateAccount(context.Background(), 1, "Cash", ledger.TypeAsset)
	require.ErrorIs(t, err, shared.ErrValidation, "duplicate name per company")

	account, err := f.service.CreateAccount(context.Background(), 1, "Accounts Payable", ledger.TypeLiability)
	require.NoError(t, err)
	require.NotZero(t, account.ID)
}

func TestGeneralLedgerRejectsCrossCompanyAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GeneralLedger(context.Background(), 1, f.foreign.ID, 2026)
	require.ErrorIs(t, err, shared.ErrCrossCompany)
}
