package cashflow

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Repository is the read side of the cash flow engine. It never
// writes.
type Repository interface {
	AssetTotal(ctx context.Context, companyID int64) (decimal.Decimal, error)
	AssetDailyDeltas(ctx context.Context, companyID int64, from, to time.Time) (map[string]decimal.Decimal, error)
	PostedInvoicesDueBetween(ctx context.Context, companyID int64, from, to time.Time) ([]InflowItem, error)
	RecurringDueBetween(ctx context.Context, companyID int64, from, to time.Time) ([]OutflowItem, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed cash flow repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) AssetTotal(ctx context.Context, companyID int64) (decimal.Decimal, error) {
	q := db.FromContext(ctx, r.pool)
	var total string
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(e.amount), 0)::text
FROM journal_entries e
JOIN accounts a ON a.id = e.account_id
JOIN transactions t ON t.id = e.transaction_id
WHERE t.company_id = $1 AND a.type = $2`, companyID, ledger.TypeAsset).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(total)
}

func (r *repository) AssetDailyDeltas(ctx context.Context, companyID int64, from, to time.Time) (map[string]decimal.Decimal, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT (t.date AT TIME ZONE 'UTC')::date::text, COALESCE(SUM(e.amount), 0)::text
FROM journal_entries e
JOIN accounts a ON a.id = e.account_id
JOIN transactions t ON t.id = e.transaction_id
WHERE t.company_id = $1 AND a.type = $2 AND t.date >= $3 AND t.date < $4
GROUP BY (t.date AT TIME ZONE 'UTC')::date`, companyID, ledger.TypeAsset, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	deltas := make(map[string]decimal.Decimal)
	for rows.Next() {
		var day, amount string
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		delta, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		deltas[day] = delta
	}
	return deltas, rows.Err()
}

func (r *repository) PostedInvoicesDueBetween(ctx context.Context, companyID int64, from, to time.Time) ([]InflowItem, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, number, due_date, total::text
FROM invoices
WHERE company_id = $1 AND status = $2 AND due_date >= $3 AND due_date <= $4
ORDER BY due_date, id`, companyID, invoices.StatusPosted, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InflowItem
	for rows.Next() {
		var (
			item   InflowItem
			amount string
		)
		if err := rows.Scan(&item.InvoiceID, &item.Number, &item.DueDate, &amount); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) RecurringDueBetween(ctx context.Context, companyID int64, from, to time.Time) ([]OutflowItem, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, name, next_run_date, amount::text
FROM recurring_transactions
WHERE company_id = $1 AND next_run_date >= $2 AND next_run_date <= $3
ORDER BY next_run_date, id`, companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OutflowItem
	for rows.Next() {
		var (
			item   OutflowItem
			amount string
		)
		if err := rows.Scan(&item.RecurringID, &item.Name, &item.Date, &amount); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
