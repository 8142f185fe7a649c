package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates customer storage.
type Repository interface {
	Get(ctx context.Context, id int64) (Customer, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Customer, error)
	Create(ctx context.Context, customer Customer) (Customer, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed customer repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	q := db.FromContext(ctx, r.pool)
	var c Customer
	err := q.QueryRow(ctx, `SELECT id, company_id, name, email, address, phone, created_at
FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, shared.ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Customer, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, name, email, address, phone, created_at
FROM customers WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Address, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (Customer, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO customers (company_id, name, email, address, phone)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
		customer.CompanyID, customer.Name, customer.Email, customer.Address, customer.Phone).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	return customer, nil
}
