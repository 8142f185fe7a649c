package ledger

import "github.com/go-chi/chi/v5"

// MountRoutes attaches ledger endpoints under a company scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.ListAccounts)
	r.Post("/accounts", h.CreateAccount)
	r.Get("/transactions", h.ListTransactions)
	r.Post("/transactions", h.PostTransaction)
	r.Get("/transactions/{transactionID}", h.GetTransaction)
}
