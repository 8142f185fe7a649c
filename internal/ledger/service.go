package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Bumper invalidates cached report payloads after a posting lands.
type Bumper interface {
	Bump(ctx context.Context) error
}

// Service is the single gateway every workflow posts through. No other
// component constructs journal entries on its own.
type Service struct {
	repo   Repository
	logger *slog.Logger
	bump   Bumper
	now    func() time.Time
}

// NewService builds the ledger service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithCacheBumper registers a report-cache invalidator.
func (s *Service) WithCacheBumper(b Bumper) {
	s.bump = b
}

// Post validates and persists a balanced transaction for the company.
// Both validation and the insert run inside one unit of work, so a
// failed check persists nothing.
func (s *Service) Post(ctx context.Context, companyID int64, in PostingInput) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}

	var posted Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		company, err := s.repo.GetCompany(ctx, companyID)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(in.Entries))
		seen := make(map[int64]struct{}, len(in.Entries))
		for _, entry := range in.Entries {
			if _, ok := seen[entry.AccountID]; ok {
				continue
			}
			seen[entry.AccountID] = struct{}{}
			ids = append(ids, entry.AccountID)
		}
		accounts, err := s.repo.GetAccounts(ctx, ids)
		if err != nil {
			return err
		}
		for _, entry := range in.Entries {
			account, ok := accounts[entry.AccountID]
			if !ok {
				return fmt.Errorf("account %d: %w", entry.AccountID, ErrAccountNotFound)
			}
			if account.CompanyID != companyID {
				return fmt.Errorf("account %d: %w", entry.AccountID, ErrCrossCompanyAccount)
			}
		}

		txn := Transaction{
			CompanyID:   companyID,
			Date:        in.Date,
			Currency:    in.Currency,
			Description: in.Description,
		}
		if txn.Date.IsZero() {
			txn.Date = s.now()
		}
		if txn.Currency == "" {
			txn.Currency = company.Currency
		}
		for _, entry := range in.Entries {
			txn.Entries = append(txn.Entries, Entry{AccountID: entry.AccountID, Amount: entry.Amount})
		}

		posted, err = s.repo.InsertTransaction(ctx, txn)
		return err
	})
	if err != nil {
		return Transaction{}, err
	}

	if s.bump != nil {
		// When an enclosing workflow transaction is still open, the
		// bump waits for its commit so readers never cache
		// uncommitted postings under the new version.
		db.AfterCommit(ctx, func(ctx context.Context) {
			if err := s.bump.Bump(ctx); err != nil {
				s.logger.Warn("report cache bump failed", slog.Any("error", err))
			}
		})
	}
	return posted, nil
}

// CreateAccount adds an account to the company's chart.
func (s *Service) CreateAccount(ctx context.Context, companyID int64, name string, accountType AccountType) (Account, error) {
	if !accountType.Valid() {
		return Account{}, ErrInvalidAccountType
	}
	if _, err := s.repo.GetCompany(ctx, companyID); err != nil {
		return Account{}, err
	}
	return s.repo.CreateAccount(ctx, Account{CompanyID: companyID, Name: name, Type: accountType})
}

// ListAccounts returns the company's chart of accounts.
func (s *Service) ListAccounts(ctx context.Context, companyID int64) ([]Account, error) {
	return s.repo.ListAccounts(ctx, companyID)
}

// ListTransactions returns a company's transactions, optionally limited
// to one calendar year.
func (s *Service) ListTransactions(ctx context.Context, companyID int64, year *int) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, companyID, year)
}

// GetTransaction loads one transaction with its entries.
func (s *Service) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// AggregateByType sums entries per classification. Every classification
// is present in the result; unconstrained ones are zero.
func (s *Service) AggregateByType(ctx context.Context, companyID int64, rng *DateRange) (map[AccountType]decimal.Decimal, error) {
	sums, err := s.repo.SumByType(ctx, companyID, rng)
	if err != nil {
		return nil, err
	}
	result := make(map[AccountType]decimal.Decimal, len(AccountTypes))
	for _, t := range AccountTypes {
		result[t] = decimal.Zero
	}
	for _, sum := range sums {
		result[sum.Type] = sum.Amount
	}
	return result, nil
}

// AggregateByAccount breaks the classification sums out per account.
func (s *Service) AggregateByAccount(ctx context.Context, companyID int64, rng *DateRange) ([]AccountSum, error) {
	return s.repo.SumByAccount(ctx, companyID, rng)
}

// TrialBalance lists all-time per-account balances, skipping accounts
// that net to exactly zero. Positive balances land in the debit column,
// negative ones (as absolute values) in the credit column.
func (s *Service) TrialBalance(ctx context.Context, companyID int64) ([]TrialBalanceRow, error) {
	sums, err := s.repo.SumByAccount(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]TrialBalanceRow, 0, len(sums))
	for _, sum := range sums {
		if sum.Amount.IsZero() {
			continue
		}
		row := TrialBalanceRow{Account: sum.Account, Debit: decimal.Zero, Credit: decimal.Zero}
		if sum.Amount.Sign() >= 0 {
			row.Debit = sum.Amount
		} else {
			row.Credit = sum.Amount.Abs()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GeneralLedger lists one account's entries for a calendar year.
func (s *Service) GeneralLedger(ctx context.Context, companyID, accountID int64, year int) ([]Entry, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrCrossCompanyAccount)
	}
	return s.repo.ListAccountEntries(ctx, accountID, YearRange(year))
}
