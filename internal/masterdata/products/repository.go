package products

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

// Repository encapsulates product storage.
type Repository interface {
	Get(ctx context.Context, id int64) (Product, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed product repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	q := db.FromContext(ctx, r.pool)
	row := q.QueryRow(ctx, `SELECT id, company_id, name, sku, description, selling_price::text, cost_price::text, quantity_on_hand, created_at
FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return product, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Product, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, name, sku, description, selling_price::text, cost_price::text, quantity_on_hand, created_at
FROM products WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, product)
	}
	return list, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO products (company_id, name, sku, description, selling_price, cost_price, quantity_on_hand)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		product.CompanyID, product.Name, product.SKU, product.Description,
		product.SellingPrice.String(), product.CostPrice.String(), product.QuantityOnHand).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var product Product
	var selling, cost string
	if err := row.Scan(&product.ID, &product.CompanyID, &product.Name, &product.SKU, &product.Description,
		&selling, &cost, &product.QuantityOnHand, &product.CreatedAt); err != nil {
		return Product{}, err
	}
	var err error
	if product.SellingPrice, err = decimal.NewFromString(selling); err != nil {
		return Product{}, fmt.Errorf("products: parse selling price %q: %w", selling, err)
	}
	if product.CostPrice, err = decimal.NewFromString(cost); err != nil {
		return Product{}, fmt.Errorf("products: parse cost price %q: %w", cost, err)
	}
	return product, nil
}
