package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// dueLookahead widens each cycle's due window by one day, so an item
// never waits a full extra cycle because its run date falls between
// ticks.
const dueLookahead = 24 * time.Hour

// Service manages standing orders and runs the scheduler cycle.
type Service struct {
	repo   Repository
	ledger *ledger.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the recurring service.
func NewService(repo Repository, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, ledger: ledgerSvc, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create stores a new standing order. Both accounts must belong to the
// company. The first run lands on the requested day of the current or
// next month, whichever is still ahead.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateRecurringRequest) (Transaction, error) {
	amount, err := req.amount()
	if err != nil {
		return Transaction{}, err
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		return Transaction{}, fmt.Errorf("recurring: day of month %d out of range: %w", req.DayOfMonth, shared.ErrValidation)
	}
	for _, accountID := range []int64{req.DebitAccountID, req.CreditAccountID} {
		owner, err := s.repo.AccountCompany(ctx, accountID)
		if err != nil {
			return Transaction{}, err
		}
		if owner != companyID {
			return Transaction{}, fmt.Errorf("recurring: account %d: %w", accountID, shared.ErrCrossCompany)
		}
	}

	reference := s.now()
	if req.StartDate != nil && req.StartDate.After(reference) {
		reference = *req.StartDate
	}
	return s.repo.Insert(ctx, Transaction{
		CompanyID:       companyID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Amount:          amount,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		DayOfMonth:      req.DayOfMonth,
		NextRunDate:     firstRunOnOrAfter(reference, req.DayOfMonth),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
}

// List returns a company's standing orders ordered by next run.
func (s *Service) List(ctx context.Context, companyID int64) ([]Transaction, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Delete removes a standing order, rejecting cross-company ids.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.CompanyID != companyID {
		return fmt.Errorf("recurring: item %d: %w", id, shared.ErrCrossCompany)
	}
	return s.repo.Delete(ctx, id)
}

// Due lists every item whose next run falls inside the lookahead
// window ending one day after asOf.
func (s *Service) Due(ctx context.Context, asOf time.Time) ([]Transaction, error) {
	return s.repo.ListDue(ctx, asOf.Add(dueLookahead))
}

// RunCycle processes every due item. Each item runs in its own unit of
// work: active items post and advance, inactive items only advance, and
// a failure leaves that item's schedule untouched without blocking the
// rest of the batch.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	asOf := s.now()
	due, err := s.Due(ctx, asOf)
	if err != nil {
		return CycleResult{}, err
	}

	result := CycleResult{Due: len(due)}
	for _, item := range due {
		posted, err := s.process(ctx, item, asOf)
		if err != nil {
			result.Failed++
			s.logger.Error("recurring item failed",
				slog.Int64("recurring_id", item.ID),
				slog.String("name", item.Name),
				slog.Any("error", err))
			continue
		}
		if posted {
			result.Posted++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func (s *Service) process(ctx context.Context, item Transaction, asOf time.Time) (posted bool, err error) {
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if item.ActiveAt(asOf) {
			_, err := s.ledger.Post(ctx, item.CompanyID, ledger.PostingInput{
				Description: fmt.Sprintf("Auto: %s (%s)", item.Description, item.Name),
				Date:        asOf,
				Entries: []ledger.EntryInput{
					{AccountID: item.DebitAccountID, Amount: item.Amount},
					{AccountID: item.CreditAccountID, Amount: item.Amount.Neg()},
				},
			})
			if err != nil {
				return err
			}
			posted = true
		}
		// Advance from the previous run date, not from asOf, so the
		// day-of-month cadence survives late cycles.
		return s.repo.UpdateNextRun(ctx, item.ID, item.NextRunDate.AddDate(0, 1, 0))
	})
	return posted, err
}

// firstRunOnOrAfter places the first occurrence of the requested day on
// or after the reference date. Out-of-range days roll over the way
// time.Date normalizes them.
func firstRunOnOrAfter(reference time.Time, dayOfMonth int) time.Time {
	candidate := time.Date(reference.Year(), reference.Month(), dayOfMonth, 0, 0, 0, 0, reference.Location())
	if candidate.Before(reference.Truncate(24 * time.Hour)) {
		candidate = time.Date(reference.Year(), reference.Month()+1, dayOfMonth, 0, 0, 0, 0, reference.Location())
	}
	return candidate
}
