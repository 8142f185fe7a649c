package invoices

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// Service runs the invoice workflow. Approval is the only path that
// touches the ledger, and it does so through the ledger service.
type Service struct {
	repo   Repository
	ledger *ledger.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the invoice service.
func NewService(repo Repository, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, ledger: ledgerSvc, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create stores a DRAFT invoice. Line amounts and the total are
// recomputed from quantity and unit price; caller-supplied amounts are
// never trusted.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateInvoiceRequest) (Invoice, error) {
	items, err := req.toItems()
	if err != nil {
		return Invoice{}, err
	}

	customer, err := s.repo.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return Invoice{}, err
	}
	if customer.CompanyID != companyID {
		return Invoice{}, fmt.Errorf("customer %d: %w", req.CustomerID, ErrCrossCompanyCustomer)
	}
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return Invoice{}, err
	}

	total := decimal.Zero
	for i := range items {
		items[i].Amount = items[i].Quantity.Mul(items[i].UnitPrice)
		total = total.Add(items[i].Amount)
	}

	issueDate := s.now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	dueDate := issueDate.AddDate(0, 0, 30)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	number := req.Number
	if number == "" {
		number = newInvoiceNumber()
	}

	return s.repo.Insert(ctx, Invoice{
		CompanyID:  companyID,
		CustomerID: customer.ID,
		Number:     number,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Currency:   company.Currency,
		Status:     StatusDraft,
		Total:      total,
		Items:      items,
	})
}

// Approve posts the invoice to the ledger and moves it to POSTED. The
// posting debits the named receivable account for the full total and
// credits each item's revenue account for its line amount. Posting and
// status change land in one unit of work.
func (s *Service) Approve(ctx context.Context, companyID, invoiceID, arAccountID int64) (Invoice, error) {
	var approved Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		invoice, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.CompanyID != companyID {
			return fmt.Errorf("invoice %d: %w", invoiceID, ErrCrossCompanyInvoice)
		}
		if invoice.Status != StatusDraft {
			return fmt.Errorf("invoice %d is %s: %w", invoiceID, invoice.Status, ErrNotDraft)
		}
		customer, err := s.repo.GetCustomer(ctx, invoice.CustomerID)
		if err != nil {
			return err
		}

		entries := make([]ledger.EntryInput, 0, len(invoice.Items)+1)
		entries = append(entries, ledger.EntryInput{AccountID: arAccountID, Amount: invoice.Total})
		for _, item := range invoice.Items {
			entries = append(entries, ledger.EntryInput{
				AccountID: item.RevenueAccountID,
				Amount:    item.Amount.Neg(),
			})
		}
		posted, err := s.ledger.Post(ctx, companyID, ledger.PostingInput{
			Description: fmt.Sprintf("Invoice #%s - %s", invoice.Number, customer.Name),
			Date:        s.now(),
			Currency:    invoice.Currency,
			Entries:     entries,
		})
		if err != nil {
			return err
		}
		if err := s.repo.MarkPosted(ctx, invoice.ID, posted.ID); err != nil {
			return err
		}

		invoice.Status = StatusPosted
		invoice.TransactionID = &posted.ID
		approved = invoice
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	s.logger.Info("invoice approved",
		slog.Int64("invoice_id", approved.ID),
		slog.String("number", approved.Number),
		slog.String("total", approved.Total.String()))
	return approved, nil
}

// List returns a company's invoices, newest first.
func (s *Service) List(ctx context.Context, companyID int64) ([]Invoice, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Get loads one invoice, rejecting cross-company ids.
func (s *Service) Get(ctx context.Context, companyID, invoiceID int64) (Invoice, error) {
	invoice, err := s.repo.Get(ctx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	if invoice.CompanyID != companyID {
		return Invoice{}, fmt.Errorf("invoice %d: %w", invoiceID, ErrCrossCompanyInvoice)
	}
	return invoice, nil
}

func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}
