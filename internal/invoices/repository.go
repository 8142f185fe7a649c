package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates invoice storage. Customer and company
// lookups read the master data tables directly.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetCompany(ctx context.Context, id int64) (CompanyRef, error)
	GetCustomer(ctx context.Context, id int64) (CustomerRef, error)

	Insert(ctx context.Context, invoice Invoice) (Invoice, error)
	Get(ctx context.Context, id int64) (Invoice, error)
	GetForUpdate(ctx context.Context, id int64) (Invoice, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Invoice, error)
	MarkPosted(ctx context.Context, id, transactionID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed invoice repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repository) GetCompany(ctx context.Context, id int64) (CompanyRef, error) {
	q := db.FromContext(ctx, r.pool)
	var company CompanyRef
	err := q.QueryRow(ctx, `SELECT id, currency FROM companies WHERE id = $1`, id).
		Scan(&company.ID, &company.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return CompanyRef{}, fmt.Errorf("invoices: company %w", shared.ErrNotFound)
	}
	return company, err
}

func (r *repository) GetCustomer(ctx context.Context, id int64) (CustomerRef, error) {
	q := db.FromContext(ctx, r.pool)
	var customer CustomerRef
	err := q.QueryRow(ctx, `SELECT id, company_id, name FROM customers WHERE id = $1`, id).
		Scan(&customer.ID, &customer.CompanyID, &customer.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return CustomerRef{}, ErrCustomerNotFound
	}
	return customer, err
}

func (r *repository) Insert(ctx context.Context, invoice Invoice) (Invoice, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO invoices
(company_id, customer_id, number, issue_date, due_date, currency, status, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at`,
		invoice.CompanyID, invoice.CustomerID, invoice.Number, invoice.IssueDate,
		invoice.DueDate, invoice.Currency, invoice.Status, invoice.Total.String()).
		Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return Invoice{}, err
	}
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		item := invoice.Items[i]
		err := q.QueryRow(ctx, `INSERT INTO invoice_items
(invoice_id, description, quantity, unit_price, amount, revenue_account_id)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			item.InvoiceID, item.Description, item.Quantity.String(),
			item.UnitPrice.String(), item.Amount.String(), item.RevenueAccountID).
			Scan(&invoice.Items[i].ID)
		if err != nil {
			return Invoice{}, err
		}
	}
	return invoice, nil
}

const invoiceColumns = `id, company_id, customer_id, number, issue_date, due_date,
currency, status, total::text, transaction_id, created_at`

func (r *repository) Get(ctx context.Context, id int64) (Invoice, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the invoice row for the rest of the unit of work,
// so racing status transitions serialize per invoice.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (Invoice, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *repository) get(ctx context.Context, id int64, suffix string) (Invoice, error) {
	q := db.FromContext(ctx, r.pool)
	row := q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`+suffix, id)
	invoice, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	items, err := r.itemsFor(ctx, q, id)
	if err != nil {
		return Invoice{}, err
	}
	invoice.Items = items
	return invoice, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Invoice, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices
WHERE company_id = $1 ORDER BY id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		items, err := r.itemsFor(ctx, q, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Items = items
	}
	return list, nil
}

func (r *repository) MarkPosted(ctx context.Context, id, transactionID int64) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `UPDATE invoices SET status = $2, transaction_id = $3 WHERE id = $1`,
		id, StatusPosted, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *repository) itemsFor(ctx context.Context, q db.Querier, invoiceID int64) ([]Item, error) {
	rows, err := q.Query(ctx, `SELECT id, invoice_id, description, quantity::text,
unit_price::text, amount::text, revenue_account_id
FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var (
			item                        Item
			quantity, unitPrice, amount string
		)
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description,
			&quantity, &unitPrice, &amount, &item.RevenueAccountID); err != nil {
			return nil, err
		}
		if item.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanInvoice(row pgx.Row) (Invoice, error) {
	var (
		invoice Invoice
		total   string
	)
	err := row.Scan(&invoice.ID, &invoice.CompanyID, &invoice.CustomerID, &invoice.Number,
		&invoice.IssueDate, &invoice.DueDate, &invoice.Currency, &invoice.Status,
		&total, &invoice.TransactionID, &invoice.CreatedAt)
	if err != nil {
		return Invoice{}, err
	}
	invoice.Total, err = decimal.NewFromString(total)
	return invoice, err
}
