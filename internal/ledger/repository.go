package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Repository encapsulates storage operations for the ledger.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetCompany(ctx context.Context, id int64) (CompanyRef, error)
	CreateAccount(ctx context.Context, account Account) (Account, error)
	GetAccount(ctx context.Context, id int64) (Account, error)
	GetAccounts(ctx context.Context, ids []int64) (map[int64]Account, error)
	ListAccounts(ctx context.Context, companyID int64) ([]Account, error)

	InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error)
	GetTransaction(ctx context.Context, id int64) (Transaction, error)
	ListTransactions(ctx context.Context, companyID int64, year *int) ([]Transaction, error)

	SumByType(ctx context.Context, companyID int64, rng *DateRange) ([]TypeSum, error)
	SumByAccount(ctx context.Context, companyID int64, rng *DateRange) ([]AccountSum, error)
	ListAccountEntries(ctx context.Context, accountID int64, rng DateRange) ([]Entry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

func (r *repository) GetCompany(ctx context.Context, id int64) (CompanyRef, error) {
	q := db.FromContext(ctx, r.pool)
	var company CompanyRef
	err := q.QueryRow(ctx, `SELECT id, name, currency FROM companies WHERE id = $1`, id).
		Scan(&company.ID, &company.Name, &company.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return CompanyRef{}, ErrCompanyNotFound
	}
	if err != nil {
		return CompanyRef{}, err
	}
	return company, nil
}

func (r *repository) CreateAccount(ctx context.Context, account Account) (Account, error) {
	q := db.FromContext(ctx, r.pool)
	row := q.QueryRow(ctx, `INSERT INTO accounts (company_id, name, type)
VALUES ($1,$2,$3) RETURNING id, created_at`, account.CompanyID, account.Name, account.Type)
	if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateAccountName
		}
		return Account{}, err
	}
	return account, nil
}

func (r *repository) GetAccount(ctx context.Context, id int64) (Account, error) {
	q := db.FromContext(ctx, r.pool)
	var account Account
	err := q.QueryRow(ctx, `SELECT id, company_id, name, type, created_at FROM accounts WHERE id = $1`, id).
		Scan(&account.ID, &account.CompanyID, &account.Name, &account.Type, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (r *repository) GetAccounts(ctx context.Context, ids []int64) (map[int64]Account, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, name, type, created_at FROM accounts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts := make(map[int64]Account, len(ids))
	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.ID, &account.CompanyID, &account.Name, &account.Type, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts[account.ID] = account
	}
	return accounts, rows.Err()
}

func (r *repository) ListAccounts(ctx context.Context, companyID int64) ([]Account, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT id, company_id, name, type, created_at FROM accounts
WHERE company_id = $1 ORDER BY type, name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.ID, &account.CompanyID, &account.Name, &account.Type, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *repository) InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	row := q.QueryRow(ctx, `INSERT INTO transactions (company_id, date, currency, description)
VALUES ($1,$2,$3,$4) RETURNING id, created_at`, txn.CompanyID, txn.Date, txn.Currency, txn.Description)
	if err := row.Scan(&txn.ID, &txn.CreatedAt); err != nil {
		return Transaction{}, err
	}
	for i := range txn.Entries {
		txn.Entries[i].TransactionID = txn.ID
		err := q.QueryRow(ctx, `INSERT INTO journal_entries (transaction_id, account_id, amount)
VALUES ($1,$2,$3) RETURNING id`, txn.ID, txn.Entries[i].AccountID, txn.Entries[i].Amount.String()).
			Scan(&txn.Entries[i].ID)
		if err != nil {
			return Transaction{}, err
		}
	}
	return txn, nil
}

func (r *repository) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	var txn Transaction
	err := q.QueryRow(ctx, `SELECT id, company_id, date, currency, description, created_at
FROM transactions WHERE id = $1`, id).
		Scan(&txn.ID, &txn.CompanyID, &txn.Date, &txn.Currency, &txn.Description, &txn.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	entries, err := r.entriesFor(ctx, q, id)
	if err != nil {
		return Transaction{}, err
	}
	txn.Entries = entries
	return txn, nil
}

func (r *repository) ListTransactions(ctx context.Context, companyID int64, year *int) ([]Transaction, error) {
	q := db.FromContext(ctx, r.pool)
	query := `SELECT id, company_id, date, currency, description, created_at
FROM transactions WHERE company_id = $1 ORDER BY date DESC`
	args := []any{companyID}
	if year != nil {
		rng := YearRange(*year)
		query = `SELECT id, company_id, date, currency, description, created_at
FROM transactions WHERE company_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date DESC`
		args = append(args, rng.From, rng.To)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txns []Transaction
	for rows.Next() {
		var txn Transaction
		if err := rows.Scan(&txn.ID, &txn.CompanyID, &txn.Date, &txn.Currency, &txn.Description, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range txns {
		entries, err := r.entriesFor(ctx, q, txns[i].ID)
		if err != nil {
			return nil, err
		}
		txns[i].Entries = entries
	}
	return txns, nil
}

func (r *repository) entriesFor(ctx context.Context, q db.Querier, transactionID int64) ([]Entry, error) {
	rows, err := q.Query(ctx, `SELECT id, transaction_id, account_id, amount::text
FROM journal_entries WHERE transaction_id = $1 ORDER BY id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *repository) SumByType(ctx context.Context, companyID int64, rng *DateRange) ([]TypeSum, error) {
	q := db.FromContext(ctx, r.pool)
	query := `SELECT a.type, COALESCE(SUM(e.amount), 0)::text
FROM journal_entries e
JOIN accounts a ON a.id = e.account_id
JOIN transactions t ON t.id = e.transaction_id
WHERE t.company_id = $1`
	args := []any{companyID}
	if rng != nil {
		query += ` AND t.date BETWEEN $2 AND $3`
		args = append(args, rng.From, rng.To)
	}
	query += ` GROUP BY a.type`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sums []TypeSum
	for rows.Next() {
		var sum TypeSum
		var raw string
		if err := rows.Scan(&sum.Type, &raw); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse sum %q: %w", raw, err)
		}
		sum.Amount = amount
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func (r *repository) SumByAccount(ctx context.Context, companyID int64, rng *DateRange) ([]AccountSum, error) {
	q := db.FromContext(ctx, r.pool)
	query := `SELECT a.id, a.company_id, a.name, a.type, a.created_at, COALESCE(SUM(e.amount), 0)::text
FROM journal_entries e
JOIN accounts a ON a.id = e.account_id
JOIN transactions t ON t.id = e.transaction_id
WHERE t.company_id = $1`
	args := []any{companyID}
	if rng != nil {
		query += ` AND t.date BETWEEN $2 AND $3`
		args = append(args, rng.From, rng.To)
	}
	query += ` GROUP BY a.id ORDER BY a.type, a.name`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sums []AccountSum
	for rows.Next() {
		var sum AccountSum
		var raw string
		if err := rows.Scan(&sum.Account.ID, &sum.Account.CompanyID, &sum.Account.Name, &sum.Account.Type, &sum.Account.CreatedAt, &raw); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse sum %q: %w", raw, err)
		}
		sum.Amount = amount
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func (r *repository) ListAccountEntries(ctx context.Context, accountID int64, rng DateRange) ([]Entry, error) {
	q := db.FromContext(ctx, r.pool)
	rows, err := q.Query(ctx, `SELECT e.id, e.transaction_id, e.account_id, e.amount::text
FROM journal_entries e
JOIN transactions t ON t.id = e.transaction_id
WHERE e.account_id = $1 AND t.date BETWEEN $2 AND $3
ORDER BY t.date, e.id`, accountID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type entryScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row entryScanner) (Entry, error) {
	var entry Entry
	var raw string
	if err := row.Scan(&entry.ID, &entry.TransactionID, &entry.AccountID, &raw); err != nil {
		return Entry{}, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: parse amount %q: %w", raw, err)
	}
	entry.Amount = amount
	return entry, nil
}
