package templates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Repository encapsulates template storage. Template entries cascade
// with their template.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Get(ctx context.Context, id int64) (Template, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Template, error)
	Insert(ctx context.Context, template Template) (Template, error)
	Delete(ctx context.Context, id int64) error
	AccountCompany(ctx context.Context, accountID int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed template repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repository) Get(ctx context.Context, id int64) (Template, error) {
	q := db.FromContext(ctx, r.pool)
	var t Template
	err := q.QueryRow(ctx, `SELECT id, company_id, name, description, created_at
FROM transaction_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, shared.ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}
	entries, err := r.entriesFor(ctx, q, id)
	if err != nil {
		return Template{}, err
	}
	t.Entries = entries
	return t, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Template, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, name, description, created_at
FROM transaction_templates WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		entries, err := r.entriesFor(ctx, q, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Entries = entries
	}
	return list, nil
}

func (r *repository) entriesFor(ctx context.Context, q db.Querier, templateID int64) ([]TemplateEntry, error) {
	rows, err := q.Query(ctx, `SELECT id, template_id, account_id, direction, hint
FROM transaction_template_entries WHERE template_id = $1 ORDER BY id`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []TemplateEntry
	for rows.Next() {
		var e TemplateEntry
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.AccountID, &e.Direction, &e.Hint); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Insert(ctx context.Context, template Template) (Template, error) {
	q := db.FromContext(ctx, r.pool)
	err := q.QueryRow(ctx, `INSERT INTO transaction_templates (company_id, name, description)
VALUES ($1,$2,$3) RETURNING id, created_at`, template.CompanyID, template.Name, template.Description).
		Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		return Template{}, err
	}
	for i := range template.Entries {
		template.Entries[i].TemplateID = template.ID
		err := q.QueryRow(ctx, `INSERT INTO transaction_template_entries (template_id, account_id, direction, hint)
VALUES ($1,$2,$3,$4) RETURNING id`,
			template.ID, template.Entries[i].AccountID, template.Entries[i].Direction, template.Entries[i].Hint).
			Scan(&template.Entries[i].ID)
		if err != nil {
			return Template{}, err
		}
	}
	return template, nil
}

func (r *repository) AccountCompany(ctx context.Context, accountID int64) (int64, error) {
	q := db.FromContext(ctx, r.pool)
	var companyID int64
	err := q.QueryRow(ctx, `SELECT company_id FROM accounts WHERE id = $1`, accountID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return companyID, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	q := db.FromContext(ctx, r.pool)
	tag, err := q.Exec(ctx, `DELETE FROM transaction_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
