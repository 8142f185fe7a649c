package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Repository encapsulates payment storage plus the invoice reads and
// status writes the workflow performs inside its unit of work.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetInvoiceForUpdate(ctx context.Context, id int64) (InvoiceRef, error)
	GetInvoice(ctx context.Context, id int64) (InvoiceRef, error)
	MarkInvoicePaid(ctx context.Context, id int64) error
	ApprovalEntries(ctx context.Context, transactionID int64) ([]EntryRef, error)

	Insert(ctx context.Context, payment Payment) (Payment, error)
	SumForInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]Payment, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed payment repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repository) GetInvoiceForUpdate(ctx context.Context, id int64) (InvoiceRef, error) {
	return r.getInvoice(ctx, id, " FOR UPDATE")
}

func (r *repository) GetInvoice(ctx context.Context, id int64) (InvoiceRef, error) {
	return r.getInvoice(ctx, id, "")
}

func (r *repository) getInvoice(ctx context.Context, id int64, suffix string) (InvoiceRef, error) {
	q := db.FromContext(ctx, r.pool)
	var (
		ref   InvoiceRef
		total string
	)
	err := q.QueryRow(ctx, `SELECT id, company_id, number, status, total::text, transaction_id
FROM invoices WHERE id = $1`+suffix, id).
		Scan(&ref.ID, &ref.CompanyID, &ref.Number, &ref.Status, &total, &ref.TransactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	if err != nil {
		return InvoiceRef{}, err
	}
	ref.Total, err = decimal.NewFromString(total)
	return ref, err
}

func (r *repository) MarkInvoicePaid(ctx context.Context, id int64) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, invoices.StatusPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *repository) ApprovalEntries(ctx context.Context, transactionID int64) ([]EntryRef, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT e.account_id, e.amount::text, a.type
FROM journal_entries e
JOIN accounts a ON a.id = e.account_id
WHERE e.transaction_id = $1
ORDER BY e.id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []EntryRef
	for rows.Next() {
		var (
			entry  EntryRef
			amount string
		)
		if err := rows.Scan(&entry.AccountID, &amount, &entry.Type); err != nil {
			return nil, err
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *repository) Insert(ctx context.Context, payment Payment) (Payment, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO payments
(company_id, invoice_id, amount, payment_date, method, reference, transaction_id)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		payment.CompanyID, payment.InvoiceID, payment.Amount.String(), payment.Date,
		payment.Method, payment.Reference, payment.TransactionID).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

func (r *repository) SumForInvoice(ctx context.Context, invoiceID int64) (decimal.Decimal, error) {
	q := db.FromContext(ctx, r.pool)
	var sum string
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text FROM payments WHERE invoice_id = $1`, invoiceID).
		Scan(&sum)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(sum)
}

func (r *repository) ListByInvoice(ctx context.Context, invoiceID int64) ([]Payment, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, invoice_id, amount::text, payment_date,
method, reference, transaction_id, created_at
FROM payments WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Payment
	for rows.Next() {
		var (
			payment Payment
			amount  string
		)
		if err := rows.Scan(&payment.ID, &payment.CompanyID, &payment.InvoiceID, &amount,
			&payment.Date, &payment.Method, &payment.Reference, &payment.TransactionID,
			&payment.CreatedAt); err != nil {
			return nil, err
		}
		if payment.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		list = append(list, payment)
	}
	return list, rows.Err()
}
