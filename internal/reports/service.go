package reports

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// Service assembles reporting views over the ledger's aggregates.
type Service struct {
	ledger *ledger.Service
}

// NewService builds the report service.
func NewService(ledgerSvc *ledger.Service) *Service {
	return &Service{ledger: ledgerSvc}
}

// ProfitAndLoss returns the year's revenue and expense magnitudes next
// to the previous year's, for comparison.
func (s *Service) ProfitAndLoss(ctx context.Context, companyID int64, year int) (ProfitAndLoss, error) {
	current, err := s.yearFigures(ctx, companyID, year)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	previous, err := s.yearFigures(ctx, companyID, year-1)
	if err != nil {
		return ProfitAndLoss{}, err
	}
	return ProfitAndLoss{Current: current, Previous: previous}, nil
}

func (s *Service) yearFigures(ctx context.Context, companyID int64, year int) (YearFigures, error) {
	rng := ledger.YearRange(year)
	sums, err := s.ledger.AggregateByType(ctx, companyID, &rng)
	if err != nil {
		return YearFigures{}, err
	}
	revenue := sums[ledger.TypeRevenue].Abs()
	expenses := sums[ledger.TypeExpense].Abs()
	return YearFigures{
		Year:      year,
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: revenue.Sub(expenses),
	}, nil
}

// FinancialPosition returns per-classification sums, all-time or for
// one year.
func (s *Service) FinancialPosition(ctx context.Context, companyID int64, year *int) (FinancialPosition, error) {
	rng := optionalYearRange(year)
	totals, err := s.ledger.AggregateByType(ctx, companyID, rng)
	if err != nil {
		return FinancialPosition{}, err
	}
	return FinancialPosition{Year: year, Totals: totals}, nil
}

// FinancialPositionDetailed breaks the position out per account.
func (s *Service) FinancialPositionDetailed(ctx context.Context, companyID int64, year *int) (FinancialPositionDetail, error) {
	rng := optionalYearRange(year)
	sums, err := s.ledger.AggregateByAccount(ctx, companyID, rng)
	if err != nil {
		return FinancialPositionDetail{}, err
	}
	detail := FinancialPositionDetail{Year: year, Accounts: make([]AccountBalance, 0, len(sums))}
	for _, sum := range sums {
		detail.Accounts = append(detail.Accounts, AccountBalance{Account: sum.Account, Balance: sum.Amount})
	}
	return detail, nil
}

// TrialBalance exposes the ledger's trial balance rows.
func (s *Service) TrialBalance(ctx context.Context, companyID int64) ([]ledger.TrialBalanceRow, error) {
	return s.ledger.TrialBalance(ctx, companyID)
}

// GeneralLedger lists one account's entries for a year.
func (s *Service) GeneralLedger(ctx context.Context, companyID, accountID int64, year int) ([]ledger.Entry, error) {
	return s.ledger.GeneralLedger(ctx, companyID, accountID, year)
}

func optionalYearRange(year *int) *ledger.DateRange {
	if year == nil {
		return nil
	}
	rng := ledger.YearRange(*year)
	return &rng
}
