package cashflow

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const dayFormat = "2006-01-02"

// Service derives cash history and a short-range forecast from ledger,
// invoice, and recurring state. It only reads.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the cash flow service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// History reconstructs end-of-day asset balances for the trailing 30
// days, today included. It aggregates once for the all-time total and
// once for the window's per-day deltas, then walks backward from today
// subtracting each day's net change instead of re-summing per day.
func (s *Service) History(ctx context.Context, companyID int64) ([]DailyBalance, error) {
	today := s.today()
	from := today.AddDate(0, 0, -(historyDays - 1))

	total, err := s.repo.AssetTotal(ctx, companyID)
	if err != nil {
		return nil, err
	}
	deltas, err := s.repo.AssetDailyDeltas(ctx, companyID, from, today)
	if err != nil {
		return nil, err
	}

	series := make([]DailyBalance, historyDays)
	balance := total
	for i := historyDays - 1; i >= 0; i-- {
		day := from.AddDate(0, 0, i)
		key := day.Format(dayFormat)
		series[i] = DailyBalance{Date: key, Balance: balance}
		balance = balance.Sub(deltas[key])
	}
	return series, nil
}

// Forecast projects cash movement for the next 30 days: inflow from
// POSTED invoices coming due, outflow from each recurring item's next
// occurrence. Items further along a cadence than one occurrence are
// not expanded.
func (s *Service) Forecast(ctx context.Context, companyID int64) (Forecast, error) {
	from := s.today()
	to := from.AddDate(0, 0, forecastDays)

	forecast := Forecast{From: from, To: to}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		inflows, err := s.repo.PostedInvoicesDueBetween(gctx, companyID, from, to)
		if err != nil {
			return err
		}
		forecast.Inflows = inflows
		return nil
	})
	g.Go(func() error {
		outflows, err := s.repo.RecurringDueBetween(gctx, companyID, from, to)
		if err != nil {
			return err
		}
		forecast.Outflows = outflows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Forecast{}, err
	}

	forecast.TotalInflow = decimal.Zero
	for _, item := range forecast.Inflows {
		forecast.TotalInflow = forecast.TotalInflow.Add(item.Amount)
	}
	forecast.TotalOutflow = decimal.Zero
	for _, item := range forecast.Outflows {
		forecast.TotalOutflow = forecast.TotalOutflow.Add(item.Amount)
	}
	forecast.Net = forecast.TotalInflow.Sub(forecast.TotalOutflow)
	return forecast, nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
