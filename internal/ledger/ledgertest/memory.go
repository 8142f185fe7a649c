// Package ledgertest provides an in-memory ledger repository for
// exercising services without Postgres.
package ledgertest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// MemoryRepository implements ledger.Repository entirely in memory.
// Transactional semantics are flattened; validation in the service
// happens before any write, so tests observe the same outcomes.
type MemoryRepository struct {
	mu          sync.Mutex
	companies   map[int64]ledger.CompanyRef
	accounts    map[int64]ledger.Account
	txns        map[int64]ledger.Transaction
	nextAccount int64
	nextTxn     int64
	nextEntry   int64
}

// NewMemoryRepository builds an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		companies: make(map[int64]ledger.CompanyRef),
		accounts:  make(map[int64]ledger.Account),
		txns:      make(map[int64]ledger.Transaction),
	}
}

// AddCompany seeds a company.
func (m *MemoryRepository) AddCompany(company ledger.CompanyRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[company.ID] = company
}

// AddAccount seeds an account, assigning an id when none is set.
func (m *MemoryRepository) AddAccount(account ledger.Account) ledger.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == 0 {
		m.nextAccount++
		account.ID = m.nextAccount
	} else if account.ID > m.nextAccount {
		m.nextAccount = account.ID
	}
	m.accounts[account.ID] = account
	return account
}

// Transactions returns all stored transactions ordered by id.
func (m *MemoryRepository) Transactions() []ledger.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.Transaction, 0, len(m.txns))
	for _, txn := range m.txns {
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MemoryRepository) GetCompany(_ context.Context, id int64) (ledger.CompanyRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	company, ok := m.companies[id]
	if !ok {
		return ledger.CompanyRef{}, ledger.ErrCompanyNotFound
	}
	return company, nil
}

func (m *MemoryRepository) CreateAccount(_ context.Context, account ledger.Account) (ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.CompanyID == account.CompanyID && existing.Name == account.Name {
			return ledger.Account{}, ledger.ErrDuplicateAccountName
		}
	}
	m.nextAccount++
	account.ID = m.nextAccount
	m.accounts[account.ID] = account
	return account, nil
}

func (m *MemoryRepository) GetAccount(_ context.Context, id int64) (ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return ledger.Account{}, fmt.Errorf("account %d: %w", id, ledger.ErrAccountNotFound)
	}
	return account, nil
}

func (m *MemoryRepository) GetAccounts(_ context.Context, ids []int64) (map[int64]ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]ledger.Account, len(ids))
	for _, id := range ids {
		if account, ok := m.accounts[id]; ok {
			out[id] = account
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListAccounts(_ context.Context, companyID int64) ([]ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Account
	for _, account := range m.accounts {
		if account.CompanyID == companyID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) InsertTransaction(_ context.Context, txn ledger.Transaction) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTxn++
	txn.ID = m.nextTxn
	for i := range txn.Entries {
		m.nextEntry++
		txn.Entries[i].ID = m.nextEntry
		txn.Entries[i].TransactionID = txn.ID
	}
	m.txns[txn.ID] = txn
	return txn, nil
}

func (m *MemoryRepository) GetTransaction(_ context.Context, id int64) (ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("transaction %d: %w", id, ledger.ErrTransactionNotFound)
	}
	return txn, nil
}

func (m *MemoryRepository) ListTransactions(_ context.Context, companyID int64, year *int) ([]ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Transaction
	for _, txn := range m.txns {
		if txn.CompanyID != companyID {
			continue
		}
		if year != nil && txn.Date.Year() != *year {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) SumByType(_ context.Context, companyID int64, rng *ledger.DateRange) ([]ledger.TypeSum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := make(map[ledger.AccountType]decimal.Decimal)
	for _, txn := range m.txns {
		if txn.CompanyID != companyID || !m.inRange(txn, rng) {
			continue
		}
		for _, entry := range txn.Entries {
			account := m.accounts[entry.AccountID]
			sums[account.Type] = sums[account.Type].Add(entry.Amount)
		}
	}
	var out []ledger.TypeSum
	for _, t := range ledger.AccountTypes {
		if amount, ok := sums[t]; ok {
			out = append(out, ledger.TypeSum{Type: t, Amount: amount})
		}
	}
	return out, nil
}

func (m *MemoryRepository) SumByAccount(_ context.Context, companyID int64, rng *ledger.DateRange) ([]ledger.AccountSum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := make(map[int64]decimal.Decimal)
	for _, txn := range m.txns {
		if txn.CompanyID != companyID || !m.inRange(txn, rng) {
			continue
		}
		for _, entry := range txn.Entries {
			sums[entry.AccountID] = sums[entry.AccountID].Add(entry.Amount)
		}
	}
	ids := make([]int64, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]ledger.AccountSum, 0, len(ids))
	for _, id := range ids {
		out = append(out, ledger.AccountSum{Account: m.accounts[id], Amount: sums[id]})
	}
	return out, nil
}

func (m *MemoryRepository) ListAccountEntries(_ context.Context, accountID int64, rng ledger.DateRange) ([]ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Entry
	for _, txn := range m.txns {
		if !m.inRange(txn, &rng) {
			continue
		}
		for _, entry := range txn.Entries {
			if entry.AccountID == accountID {
				out = append(out, entry)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) inRange(txn ledger.Transaction, rng *ledger.DateRange) bool {
	if rng == nil {
		return true
	}
	if txn.Date.Before(rng.From) {
		return false
	}
	return !txn.Date.After(rng.To)
}
