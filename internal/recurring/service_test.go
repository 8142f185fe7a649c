package recurring

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/ledger/ledgertest"
	"github.com/ledgerline/ledgerline/internal/shared"
)

type memoryRepo struct {
	ledger *ledgertest.MemoryRepository
	items  map[int64]Transaction
	nextID int64
}

func newMemoryRepo(ledgerRepo *ledgertest.MemoryRepository) *memoryRepo {
	return &memoryRepo{ledger: ledgerRepo, items: make(map[int64]Transaction)}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memoryRepo) AccountCompany(ctx context.Context, accountID int64) (int64, error) {
	account, err := m.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.CompanyID, nil
}

func (m *memoryRepo) Insert(_ context.Context, item Transaction) (Transaction, error) {
	m.nextID++
	item.ID = m.nextID
	item.CreatedAt = time.Now()
	m.items[item.ID] = item
	return item, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Transaction, error) {
	item, ok := m.items[id]
	if !ok {
		return Transaction{}, shared.ErrNotFound
	}
	return item, nil
}

func (m *memoryRepo) ListByCompany(_ context.Context, companyID int64) ([]Transaction, error) {
	var out []Transaction
	for _, item := range m.items {
		if item.CompanyID == companyID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) ListDue(_ context.Context, cutoff time.Time) ([]Transaction, error) {
	var out []Transaction
	for _, item := range m.items {
		if !item.NextRunDate.After(cutoff) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) UpdateNextRun(_ context.Context, id int64, next time.Time) error {
	item, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	item.NextRunDate = next
	m.items[id] = item
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type fixture struct {
	service *Service
	repo    *memoryRepo
	ledger  *ledgertest.MemoryRepository
	expense ledger.Account
	cash    ledger.Account
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledgerRepo := ledgertest.NewMemoryRepository()
	ledgerRepo.AddCompany(ledger.CompanyRef{ID: 1, Name: "Trillium Brewing", Currency: "USD"})
	expense := ledgerRepo.AddAccount(ledger.Account{CompanyID: 1, Name: "Rent Expense", Type: ledger.TypeExpense})
	cash := ledgerRepo.AddAccount(ledger.Account{CompanyID: 1, Name: "Cash", Type: ledger.TypeAsset})

	repo := newMemoryRepo(ledgerRepo)
	service := NewService(repo, ledger.NewService(ledgerRepo, logger), logger)
	now := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
	service.WithNow(func() time.Time { return now })

	return &fixture{service: service, repo: repo, ledger: ledgerRepo, expense: expense, cash: cash, now: now}
}

func (f *fixture) seedItem(nextRun time.Time, mutate func(*Transaction)) Transaction {
	item := Transaction{
		CompanyID:       1,
		Name:            "Rent",
		Description:     "Office rent",
		Amount:          decimal.RequireFromString("2500.00"),
		DebitAccountID:  f.expense.ID,
		CreditAccountID: f.cash.ID,
		DayOfMonth:      nextRun.Day(),
		NextRunDate:     nextRun,
	}
	if mutate != nil {
		mutate(&item)
	}
	stored, _ := f.repo.Insert(context.Background(), item)
	return stored
}

func TestCyclePostsDueActiveItem(t *testing.T) {
	f := newFixture(t)
	nextRun := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	item := f.seedItem(nextRun, nil)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleResult{Due: 1, Posted: 1}, result)

	txns := f.ledger.Transactions()
	require.Len(t, txns, 1)
	require.Equal(t, "Auto: Office rent (Rent)", txns[0].Description)
	require.True(t, txns[0].Entries[0].Amount.Equal(decimal.RequireFromString("2500.00")))
	require.True(t, txns[0].Entries[1].Amount.Equal(decimal.RequireFromString("-2500.00")))

	advanced := f.repo.items[item.ID]
	require.Equal(t, nextRun.AddDate(0, 1, 0), advanced.NextRunDate,
		"advance must come from the previous run date")
}

func TestCycleSkipsInactiveItemButStillAdvances(t *testing.T) {
	f := newFixture(t)
	nextRun := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	ended := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	item := f.seedItem(nextRun, func(it *Transaction) { it.EndDate = &ended })

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleResult{Due: 1, Skipped: 1}, result)
	require.Empty(t, f.ledger.Transactions())

	advanced := f.repo.items[item.ID]
	require.Equal(t, nextRun.AddDate(0, 1, 0), advanced.NextRunDate,
		"inactive items must not be retried for the same due date")
}

func TestCycleHonorsStartDate(t *testing.T) {
	f := newFixture(t)
	nextRun := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	starts := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	f.seedItem(nextRun, func(it *Transaction) { it.StartDate = &starts })

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleResult{Due: 1, Skipped: 1}, result)
	require.Empty(t, f.ledger.Transactions())
}

func TestDueUsesOneDayLookahead(t *testing.T) {
	f := newFixture(t)
	f.seedItem(time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), nil)
	f.seedItem(time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC), func(it *Transaction) { it.Name = "Later" })

	due, err := f.service.Due(context.Background(), f.now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, "Rent", due[0].Name)
}

func TestCycleIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	nextRun := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	broken := f.seedItem(nextRun, func(it *Transaction) {
		it.Name = "Broken"
		it.DebitAccountID = 999
	})
	f.seedItem(nextRun, nil)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleResult{Due: 2, Posted: 1, Failed: 1}, result)
	require.Len(t, f.ledger.Transactions(), 1)

	require.Equal(t, nextRun, f.repo.items[broken.ID].NextRunDate,
		"failed items keep their run date for the next cycle")
}

func TestCycleDoesNotReprocessAdvancedItems(t *testing.T) {
	f := newFixture(t)
	f.seedItem(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), nil)

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, CycleResult{}, result)
	require.Len(t, f.ledger.Transactions(), 1)
}

func TestCreateKeepsCategory(t *testing.T) {
	f := newFixture(t)

	item, err := f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name: "Rent", Description: "Office rent", Category: "Facilities", Amount: "2500.00",
		DebitAccountID: f.expense.ID, CreditAccountID: f.cash.ID, DayOfMonth: 15,
	})
	require.NoError(t, err)
	require.Equal(t, "Facilities", item.Category)

	stored, err := f.repo.Get(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, "Facilities", stored.Category)
}

func TestCreateRejectsCrossCompanyAccount(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddCompany(ledger.CompanyRef{ID: 2, Name: "Other", Currency: "EUR"})
	foreign := f.ledger.AddAccount(ledger.Account{CompanyID: 2, Name: "Foreign Cash", Type: ledger.TypeAsset})

	_, err := f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name:            "Rent",
		Description:     "Office rent",
		Amount:          "2500.00",
		DebitAccountID:  f.expense.ID,
		CreditAccountID: foreign.ID,
		DayOfMonth:      15,
	})
	require.ErrorIs(t, err, shared.ErrCrossCompany)
}

func TestCreateRejectsBadAmountAndDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name: "Rent", Description: "Office rent", Amount: "-5",
		DebitAccountID: f.expense.ID, CreditAccountID: f.cash.ID, DayOfMonth: 15,
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name: "Rent", Description: "Office rent", Amount: "2500.00",
		DebitAccountID: f.expense.ID, CreditAccountID: f.cash.ID, DayOfMonth: 32,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateSetsFirstRunOnRequestedDay(t *testing.T) {
	f := newFixture(t)

	item, err := f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name: "Rent", Description: "Office rent", Amount: "2500.00",
		DebitAccountID: f.expense.ID, CreditAccountID: f.cash.ID, DayOfMonth: 20,
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), item.NextRunDate)

	early, err := f.service.Create(context.Background(), 1, CreateRecurringRequest{
		Name: "Rent early", Description: "Office rent", Amount: "2500.00",
		DebitAccountID: f.expense.ID, CreditAccountID: f.cash.ID, DayOfMonth: 10,
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), early.NextRunDate)
}
