package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates recurring transaction storage.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	AccountCompany(ctx context.Context, accountID int64) (int64, error)
	Insert(ctx context.Context, item Transaction) (Transaction, error)
	Get(ctx context.Context, id int64) (Transaction, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Transaction, error)
	ListDue(ctx context.Context, cutoff time.Time) ([]Transaction, error)
	UpdateNextRun(ctx context.Context, id int64, next time.Time) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed recurring repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repository) AccountCompany(ctx context.Context, accountID int64) (int64, error) {
	q := db.FromContext(ctx, r.pool)
	var companyID int64
	err := q.QueryRow(ctx, `SELECT company_id FROM accounts WHERE id = $1`, accountID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("recurring: account %w", shared.ErrNotFound)
	}
	return companyID, err
}

const recurringColumns = `id, company_id, name, description, category, amount::text, debit_account_id,
credit_account_id, day_of_month, next_run_date, start_date, end_date, created_at`

func (r *repository) Insert(ctx context.Context, item Transaction) (Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO recurring_transactions
(company_id, name, description, category, amount, debit_account_id, credit_account_id,
 day_of_month, next_run_date, start_date, end_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id, created_at`,
		item.CompanyID, item.Name, item.Description, item.Category, item.Amount.String(),
		item.DebitAccountID, item.CreditAccountID, item.DayOfMonth,
		item.NextRunDate, item.StartDate, item.EndDate).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return item, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	item, err := scanRecurring(q.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, fmt.Errorf("recurring: item %w", shared.ErrNotFound)
	}
	return item, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+recurringColumns+` FROM recurring_transactions
WHERE company_id = $1 ORDER BY next_run_date, id`, companyID)
}

// ListDue returns every item, across companies, whose next run falls on
// or before the cutoff.
func (r *repository) ListDue(ctx context.Context, cutoff time.Time) ([]Transaction, error) {
	return r.list(ctx, `SELECT `+recurringColumns+` FROM recurring_transactions
WHERE next_run_date <= $1 ORDER BY next_run_date, id`, cutoff)
}

func (r *repository) list(ctx context.Context, query string, arg any) ([]Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Transaction
	for rows.Next() {
		item, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *repository) UpdateNextRun(ctx context.Context, id int64, next time.Time) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `UPDATE recurring_transactions SET next_run_date = $2 WHERE id = $1`, id, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring: item %w", shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `DELETE FROM recurring_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring: item %w", shared.ErrNotFound)
	}
	return nil
}

func scanRecurring(row pgx.Row) (Transaction, error) {
	var (
		item   Transaction
		amount string
	)
	err := row.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Description, &item.Category, &amount,
		&item.DebitAccountID, &item.CreditAccountID, &item.DayOfMonth,
		&item.NextRunDate, &item.StartDate, &item.EndDate, &item.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	item.Amount, err = decimal.NewFromString(amount)
	return item, err
}
