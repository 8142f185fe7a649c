package payments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

type paymentListResponse struct {
	Payments  []Payment       `json:"payments"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
}

// Handler exposes the payment workflow over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the payment HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches payment endpoints under a company scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/invoices/{invoiceID}/payments", h.List)
	r.Post("/invoices/{invoiceID}/payments", h.Record)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := h.ids(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListByInvoice(r.Context(), companyID, invoiceID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	total, err := h.service.TotalPaid(r.Context(), companyID, invoiceID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, paymentListResponse{Payments: list, TotalPaid: total})
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := h.ids(w, r)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	payment, err := h.service.Record(r.Context(), companyID, invoiceID, req)
	if err != nil {
		h.logger.Error("record payment", slog.Any("error", err), slog.Int64("invoice_id", invoiceID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (companyID, invoiceID int64, ok bool) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company id")
		return 0, 0, false
	}
	invoiceID, err = strconv.ParseInt(chi.URLParam(r, "invoiceID"), 10, 64)
	if err != nil || invoiceID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return 0, 0, false
	}
	return companyID, invoiceID, true
}
