package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/cashflow"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/masterdata/companies"
	"github.com/ledgerline/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline/ledgerline/internal/masterdata/products"
	"github.com/ledgerline/ledgerline/internal/masterdata/templates"
	"github.com/ledgerline/ledgerline/internal/payments"
	"github.com/ledgerline/ledgerline/internal/recurring"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	LedgerHandler    *ledger.Handler
	InvoiceHandler   *invoices.Handler
	PaymentHandler   *payments.Handler
	RecurringHandler *recurring.Handler
	CashflowHandler  *cashflow.Handler
	ReportHandler    *reports.Handler
	CompanyHandler   *companies.Handler
	CustomerHandler  *customers.Handler
	ProductHandler   *products.Handler
	TemplateHandler  *templates.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with Ledgerline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: params.Logger, Config: params.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if params.JobsHandler != nil {
		r.Route("/api/jobs", params.JobsHandler.MountRoutes)
	}

	r.Route("/api/companies", func(api chi.Router) {
		params.CompanyHandler.MountCollection(api)
		api.Route("/{companyID}", func(company chi.Router) {
			params.CompanyHandler.MountRoutes(company)
			params.LedgerHandler.MountRoutes(company)
			params.ReportHandler.MountRoutes(company)
			params.CashflowHandler.MountRoutes(company)
			params.InvoiceHandler.MountRoutes(company)
			params.PaymentHandler.MountRoutes(company)
			params.RecurringHandler.MountRoutes(company)
			params.CustomerHandler.MountRoutes(company)
			params.ProductHandler.MountRoutes(company)
			params.TemplateHandler.MountRoutes(company)
		})
	})

	return r
}
