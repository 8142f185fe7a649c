package payments

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/ledger/ledgertest"
	"github.com/ledgerline/ledgerline/internal/shared"
)

type memoryRepo struct {
	ledger   *ledgertest.MemoryRepository
	invoices map[int64]InvoiceRef
	payments []Payment
	nextID   int64
}

func newMemoryRepo(ledgerRepo *ledgertest.MemoryRepository) *memoryRepo {
	return &memoryRepo{ledger: ledgerRepo, invoices: make(map[int64]InvoiceRef)}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memoryRepo) GetInvoiceForUpdate(ctx context.Context, id int64) (InvoiceRef, error) {
	return m.GetInvoice(ctx, id)
}

func (m *memoryRepo) GetInvoice(_ context.Context, id int64) (InvoiceRef, error) {
	invoice, ok := m.invoices[id]
	if !ok {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (m *memoryRepo) MarkInvoicePaid(_ context.Context, id int64) error {
	invoice, ok := m.invoices[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	invoice.Status = invoices.StatusPaid
	m.invoices[id] = invoice
	return nil
}

func (m *memoryRepo) ApprovalEntries(ctx context.Context, transactionID int64) ([]EntryRef, error) {
	txn, err := m.ledger.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	var entries []EntryRef
	for _, entry := range txn.Entries {
		account, err := m.ledger.GetAccount(ctx, entry.AccountID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, EntryRef{AccountID: entry.AccountID, Amount: entry.Amount, Type: account.Type})
	}
	return entries, nil
}

func (m *memoryRepo) Insert(_ context.Context, payment Payment) (Payment, error) {
	m.nextID++
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	m.payments = append(m.payments, payment)
	return payment, nil
}

func (m *memoryRepo) SumForInvoice(_ context.Context, invoiceID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, payment := range m.payments {
		if payment.InvoiceID == invoiceID {
			sum = sum.Add(payment.Amount)
		}
	}
	return sum, nil
}

func (m *memoryRepo) ListByInvoice(_ context.Context, invoiceID int64) ([]Payment, error) {
	var out []Payment
	for _, payment := range m.payments {
		if payment.InvoiceID == invoiceID {
			out = append(out, payment)
		}
	}
	return out, nil
}

type fixture struct {
	service *Service
	repo    *memoryRepo
	ledger  *ledgertest.MemoryRepository
	cash    ledger.Account
	ar      ledger.Account
}

// newFixture seeds one POSTED invoice for 1985.00 whose approval
// posting debited AR.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledgerRepo := ledgertest.NewMemoryRepository()
	ledgerRepo.AddCompany(ledger.CompanyRef{ID: 1, Name: "Trillium Brewing", Currency: "USD"})
	cash := ledgerRepo.AddAccount(ledger.Account{CompanyID: 1, Name: "Cash", Type: ledger.TypeAsset})
	ar := ledgerRepo.AddAccount(ledger.Account{CompanyID: 1, Name: "Accounts Receivable", Type: ledger.TypeAsset})
	revenue := ledgerRepo.AddAccount(ledger.Account{CompanyID: 1, Name: "Ale Sales", Type: ledger.TypeRevenue})

	ledgerSvc := ledger.NewService(ledgerRepo, logger)
	total := decimal.RequireFromString("1985.00")
	approval, err := ledgerSvc.Post(context.Background(), 1, ledger.PostingInput{
		Description: "Invoice #INV-1001 - Hoppy Taproom",
		Entries: []ledger.EntryInput{
			{AccountID: ar.ID, Amount: total},
			{AccountID: revenue.ID, Amount: total.Neg()},
		},
	})
	require.NoError(t, err)

	repo := newMemoryRepo(ledgerRepo)
	repo.invoices[1] = InvoiceRef{
		ID:            1,
		CompanyID:     1,
		Number:        "INV-1001",
		Status:        invoices.StatusPosted,
		Total:         total,
		TransactionID: &approval.ID,
	}

	return &fixture{
		service: NewService(repo, ledgerSvc, logger),
		repo:    repo,
		ledger:  ledgerRepo,
		cash:    cash,
		ar:      ar,
	}
}

func paymentRequest(amount string) RecordPaymentRequest {
	return RecordPaymentRequest{Amount: amount, CashAccountID: 1, Method: "BANK_TRANSFER", Reference: "CHK-88"}
}

func TestRecordFullPaymentMarksInvoicePaid(t *testing.T) {
	f := newFixture(t)

	payment, err := f.service.Record(context.Background(), 1, 1, paymentRequest("1985.00"))
	require.NoError(t, err)
	require.True(t, payment.Amount.Equal(decimal.RequireFromString("1985.00")))
	require.Equal(t, invoices.StatusPaid, f.repo.invoices[1].Status)

	txns := f.ledger.Transactions()
	require.Len(t, txns, 2)
	posting := txns[1]
	require.Equal(t, "Payment for Invoice #INV-1001 - Ref: CHK-88", posting.Description)
	require.Len(t, posting.Entries, 2)
	require.Equal(t, f.cash.ID, posting.Entries[0].AccountID)
	require.True(t, posting.Entries[0].Amount.Equal(decimal.RequireFromString("1985.00")))
	require.Equal(t, f.ar.ID, posting.Entries[1].AccountID)
	require.True(t, posting.Entries[1].Amount.Equal(decimal.RequireFromString("-1985.00")))
}

func TestRecordPartialPaymentLeavesInvoicePosted(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Record(context.Background(), 1, 1, paymentRequest("1000.00"))
	require.NoError(t, err)
	require.Equal(t, invoices.StatusPosted, f.repo.invoices[1].Status)

	paid, err := f.service.TotalPaid(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, paid.Equal(decimal.RequireFromString("1000.00")))

	_, err = f.service.Record(context.Background(), 1, 1, paymentRequest("985.00"))
	require.NoError(t, err)
	require.Equal(t, invoices.StatusPaid, f.repo.invoices[1].Status)

	paid, err = f.service.TotalPaid(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, paid.Equal(decimal.RequireFromString("1985.00")))

	list, err := f.service.ListByInvoice(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestRecordRejectsDraftAndPaid(t *testing.T) {
	f := newFixture(t)

	invoice := f.repo.invoices[1]
	invoice.Status = invoices.StatusDraft
	f.repo.invoices[1] = invoice
	_, err := f.service.Record(context.Background(), 1, 1, paymentRequest("100.00"))
	require.ErrorIs(t, err, shared.ErrInvalidStatus)

	invoice.Status = invoices.StatusPaid
	f.repo.invoices[1] = invoice
	_, err = f.service.Record(context.Background(), 1, 1, paymentRequest("100.00"))
	require.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestRecordRejectsCrossCompanyInvoice(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Record(context.Background(), 2, 1, paymentRequest("100.00"))
	require.ErrorIs(t, err, shared.ErrCrossCompany)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Record(context.Background(), 1, 1, paymentRequest("0"))
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.service.Record(context.Background(), 1, 1, paymentRequest("-5.00"))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordFailsWithoutReceivableEntry(t *testing.T) {
	f := newFixture(t)

	invoice := f.repo.invoices[1]
	invoice.TransactionID = nil
	f.repo.invoices[1] = invoice
	_, err := f.service.Record(context.Background(), 1, 1, paymentRequest("100.00"))
	require.ErrorIs(t, err, shared.ErrInconsistentState)
}

func TestReceivableDiscoveryPicksPositiveAssetEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Record(context.Background(), 1, 1, paymentRequest("1985.00"))
	require.NoError(t, err)

	posting := f.ledger.Transactions()[1]
	require.Equal(t, f.ar.ID, posting.Entries[1].AccountID, "credit must land on the discovered AR account")
}
