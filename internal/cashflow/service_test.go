package cashflow

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type assetEntry struct {
	at     time.Time
	amount decimal.Decimal
}

type memoryRepo struct {
	total    decimal.Decimal
	entries  []assetEntry
	inflows  []InflowItem
	outflows []OutflowItem
}

func (m *memoryRepo) AssetTotal(context.Context, int64) (decimal.Decimal, error) {
	return m.total, nil
}

// AssetDailyDeltas buckets entries by UTC calendar day, mirroring the
// AT TIME ZONE 'UTC' cast in the SQL implementation.
func (m *memoryRepo) AssetDailyDeltas(_ context.Context, _ int64, from, to time.Time) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	end := to.AddDate(0, 0, 1)
	for _, entry := range m.entries {
		if entry.at.Before(from) || !entry.at.Before(end) {
			continue
		}
		day := entry.at.UTC().Format(dayFormat)
		out[day] = out[day].Add(entry.amount)
	}
	return out, nil
}

func (m *memoryRepo) PostedInvoicesDueBetween(_ context.Context, _ int64, from, to time.Time) ([]InflowItem, error) {
	var out []InflowItem
	for _, item := range m.inflows {
		if !item.DueDate.Before(from) && !item.DueDate.After(to) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryRepo) RecurringDueBetween(_ context.Context, _ int64, from, to time.Time) ([]OutflowItem, error) {
	var out []OutflowItem
	for _, item := range m.outflows {
		if !item.Date.Before(from) && !item.Date.After(to) {
			out = append(out, item)
		}
	}
	return out, nil
}

func newService(repo *memoryRepo) *Service {
	service := NewService(repo)
	service.WithNow(func() time.Time {
		return time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)
	})
	return service
}

func TestHistoryWalksBackwardFromCurrentTotal(t *testing.T) {
	repo := &memoryRepo{
		total: decimal.RequireFromString("1000.00"),
		entries: []assetEntry{
			{at: time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC), amount: decimal.RequireFromString("100.00")},
			{at: time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC), amount: decimal.RequireFromString("-50.00")},
		},
	}

	series, err := newService(repo).History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, series, 30)

	require.Equal(t, "2026-02-14", series[0].Date)
	require.Equal(t, "2026-03-15", series[29].Date)

	require.True(t, series[29].Balance.Equal(decimal.RequireFromString("1000.00")), "today is the live total")
	require.True(t, series[28].Balance.Equal(decimal.RequireFromString("900.00")), "yesterday excludes today's inflow")
	require.True(t, series[27].Balance.Equal(decimal.RequireFromString("950.00")), "day before adds back yesterday's outflow")
	for i := 0; i < 27; i++ {
		require.True(t, series[i].Balance.Equal(decimal.RequireFromString("950.00")), "day %s", series[i].Date)
	}
}

func TestHistoryBucketsEntriesByUTCDay(t *testing.T) {
	eastern := time.FixedZone("EST", -5*3600)
	repo := &memoryRepo{
		total: decimal.RequireFromString("1000.00"),
		entries: []assetEntry{
			// 2026-03-14 20:30 EST is already 2026-03-15 in UTC.
			{at: time.Date(2026, time.March, 14, 20, 30, 0, 0, eastern), amount: decimal.RequireFromString("100.00")},
		},
	}

	series, err := newService(repo).History(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, "2026-03-15", series[29].Date)
	require.True(t, series[29].Balance.Equal(decimal.RequireFromString("1000.00")))
	require.True(t, series[28].Balance.Equal(decimal.RequireFromString("900.00")), "entry counts toward its UTC day, not the local one")
	require.True(t, series[27].Balance.Equal(decimal.RequireFromString("900.00")))
}

func TestHistoryWithNoActivityIsFlat(t *testing.T) {
	repo := &memoryRepo{total: decimal.RequireFromString("250.00")}

	series, err := newService(repo).History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, series, 30)
	for _, point := range series {
		require.True(t, point.Balance.Equal(decimal.RequireFromString("250.00")))
	}
}

func TestForecastSumsWindowedInflowsAndOutflows(t *testing.T) {
	repo := &memoryRepo{
		total: decimal.Zero,
		inflows: []InflowItem{
			{InvoiceID: 1, Number: "INV-1001", DueDate: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("3100.00")},
			{InvoiceID: 2, Number: "INV-1002", DueDate: time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("500.00")},
			{InvoiceID: 3, Number: "INV-1003", DueDate: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("9999.00")},
		},
		outflows: []OutflowItem{
			{RecurringID: 1, Name: "Rent", Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("2500.00")},
			{RecurringID: 2, Name: "Hosting", Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("80.00")},
		},
	}

	forecast, err := newService(repo).Forecast(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), forecast.From)
	require.Equal(t, time.Date(2026, time.April, 14, 0, 0, 0, 0, time.UTC), forecast.To)

	require.Len(t, forecast.Inflows, 2, "invoice due past the window is excluded")
	require.Len(t, forecast.Outflows, 1, "recurring item past the window is excluded")
	require.True(t, forecast.TotalInflow.Equal(decimal.RequireFromString("3600.00")))
	require.True(t, forecast.TotalOutflow.Equal(decimal.RequireFromString("2500.00")))
	require.True(t, forecast.Net.Equal(decimal.RequireFromString("1100.00")))
}

func TestForecastEmptyWindow(t *testing.T) {
	repo := &memoryRepo{total: decimal.Zero}

	forecast, err := newService(repo).Forecast(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, forecast.Inflows)
	require.Empty(t, forecast.Outflows)
	require.True(t, forecast.Net.IsZero())
}
