package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/ledger"
)

// Service runs the payment workflow.
type Service struct {
	repo   Repository
	ledger *ledger.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the payment service.
func NewService(repo Repository, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, ledger: ledgerSvc, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Record posts a payment against a POSTED invoice: debit the cash
// account, credit the invoice's receivable account, persist the
// payment, and flip the invoice to PAID once cumulative payments cover
// the total. The invoice row stays locked for the whole unit of work,
// so two concurrent payments cannot both read a stale paid total.
func (s *Service) Record(ctx context.Context, companyID, invoiceID int64, req RecordPaymentRequest) (Payment, error) {
	amount, err := req.amount()
	if err != nil {
		return Payment{}, err
	}

	var recorded Payment
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		invoice, err := s.repo.GetInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.CompanyID != companyID {
			return fmt.Errorf("invoice %d: %w", invoiceID, ErrCrossCompanyInvoice)
		}
		if invoice.Status != invoices.StatusPosted {
			return fmt.Errorf("invoice %d is %s: %w", invoiceID, invoice.Status, ErrNotPosted)
		}

		arAccountID, err := s.receivableAccount(ctx, invoice)
		if err != nil {
			return err
		}

		date := s.now()
		if req.Date != nil {
			date = *req.Date
		}
		posted, err := s.ledger.Post(ctx, companyID, ledger.PostingInput{
			Description: fmt.Sprintf("Payment for Invoice #%s - Ref: %s", invoice.Number, req.Reference),
			Date:        date,
			Entries: []ledger.EntryInput{
				{AccountID: req.CashAccountID, Amount: amount},
				{AccountID: arAccountID, Amount: amount.Neg()},
			},
		})
		if err != nil {
			return err
		}

		recorded, err = s.repo.Insert(ctx, Payment{
			CompanyID:     companyID,
			InvoiceID:     invoiceID,
			Amount:        amount,
			Date:          date,
			Method:        req.Method,
			Reference:     req.Reference,
			TransactionID: posted.ID,
		})
		if err != nil {
			return err
		}

		paid, err := s.repo.SumForInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if paid.GreaterThanOrEqual(invoice.Total) {
			return s.repo.MarkInvoicePaid(ctx, invoiceID)
		}
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	s.logger.Info("payment recorded",
		slog.Int64("invoice_id", invoiceID),
		slog.String("amount", recorded.Amount.String()))
	return recorded, nil
}

// receivableAccount resolves which AR account the invoice's approval
// posting used. Invoices do not store it; the approval transaction's
// positive entry on an asset account is the receivable by convention.
func (s *Service) receivableAccount(ctx context.Context, invoice InvoiceRef) (int64, error) {
	if invoice.TransactionID == nil {
		return 0, fmt.Errorf("invoice %d has no approval transaction: %w", invoice.ID, ErrNoReceivable)
	}
	entries, err := s.repo.ApprovalEntries(ctx, *invoice.TransactionID)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.Type == ledger.TypeAsset && entry.Amount.Sign() > 0 {
			return entry.AccountID, nil
		}
	}
	return 0, fmt.Errorf("invoice %d: %w", invoice.ID, ErrNoReceivable)
}

// ListByInvoice returns every payment recorded against an invoice.
func (s *Service) ListByInvoice(ctx context.Context, companyID, invoiceID int64) ([]Payment, error) {
	invoice, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.CompanyID != companyID {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrCrossCompanyInvoice)
	}
	return s.repo.ListByInvoice(ctx, invoiceID)
}

// TotalPaid returns the cumulative amount recorded against an invoice.
func (s *Service) TotalPaid(ctx context.Context, companyID, invoiceID int64) (decimal.Decimal, error) {
	invoice, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	if invoice.CompanyID != companyID {
		return decimal.Zero, fmt.Errorf("invoice %d: %w", invoiceID, ErrCrossCompanyInvoice)
	}
	return s.repo.SumForInvoice(ctx, invoiceID)
}
