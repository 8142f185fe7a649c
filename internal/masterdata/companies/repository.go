package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates company storage.
type Repository interface {
	Get(ctx context.Context, id int64) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, company Company) (Company, error)
	UpdateCurrency(ctx context.Context, id int64, currency string) (Company, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed company repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	q := db.FromContext(ctx, r.pool)
	var company Company
	err := q.QueryRow(ctx, `SELECT id, name, currency, created_at FROM companies WHERE id = $1`, id).
		Scan(&company.ID, &company.Name, &company.Currency, &company.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, shared.ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

func (r *repository) List(ctx context.Context) ([]Company, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, name, currency, created_at FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Company
	for rows.Next() {
		var company Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Currency, &company.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, company)
	}
	return list, rows.Err()
}

func (r *repository) Create(ctx context.Context, company Company) (Company, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO companies (name, currency) VALUES ($1,$2) RETURNING id, created_at`,
		company.Name, company.Currency).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

func (r *repository) UpdateCurrency(ctx context.Context, id int64, currency string) (Company, error) {
	q := db.FromContext(ctx, r.pool)
	var company Company
	err := q.QueryRow(ctx, `UPDATE companies SET currency = $2 WHERE id = $1 RETURNING id, name, currency, created_at`,
		id, currency).Scan(&company.ID, &company.Name, &company.Currency, &company.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, shared.ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return company, nil
}
