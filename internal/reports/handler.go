package reports

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/cache"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Handler exposes reporting endpoints over JSON, read through the
// versioned report cache.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *cache.ReportCache
	now     func() time.Time
}

// NewHandler builds the report HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, reportCache *cache.ReportCache) *Handler {
	return &Handler{logger: logger, service: service, cache: reportCache, now: time.Now}
}

// MountRoutes attaches report endpoints under a company scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/profit-loss", h.ProfitAndLoss)
	r.Get("/reports/financial-position", h.FinancialPosition)
	r.Get("/reports/financial-position/detailed", h.FinancialPositionDetailed)
	r.Get("/reports/trial-balance", h.TrialBalance)
	r.Get("/reports/general-ledger/{accountID}", h.GeneralLedger)
}

func (h *Handler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	year := h.now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid year")
			return
		}
		year = parsed
	}

	var report ProfitAndLoss
	err := h.cached(r.Context(), &report, func(ctx context.Context) (interface{}, error) {
		return h.service.ProfitAndLoss(ctx, companyID, year)
	}, "reports", "pl", strconv.FormatInt(companyID, 10), strconv.Itoa(year))
	if err != nil {
		h.logger.Error("profit and loss", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) FinancialPosition(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	year, yearToken, ok := h.optionalYear(w, r)
	if !ok {
		return
	}

	var report FinancialPosition
	err := h.cached(r.Context(), &report, func(ctx context.Context) (interface{}, error) {
		return h.service.FinancialPosition(ctx, companyID, year)
	}, "reports", "position", strconv.FormatInt(companyID, 10), yearToken)
	if err != nil {
		h.logger.Error("financial position", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) FinancialPositionDetailed(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	year, yearToken, ok := h.optionalYear(w, r)
	if !ok {
		return
	}

	var report FinancialPositionDetail
	err := h.cached(r.Context(), &report, func(ctx context.Context) (interface{}, error) {
		return h.service.FinancialPositionDetailed(ctx, companyID, year)
	}, "reports", "position_detail", strconv.FormatInt(companyID, 10), yearToken)
	if err != nil {
		h.logger.Error("financial position detailed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	rows, err := h.service.TrialBalance(r.Context(), companyID)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || accountID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	year := h.now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid year")
			return
		}
	}
	entries, err := h.service.GeneralLedger(r.Context(), companyID, accountID, year)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) cached(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), parts ...string) error {
	key, err := h.cache.BuildKey(ctx, parts...)
	if err != nil {
		return err
	}
	return h.cache.FetchJSON(ctx, key, dest, loader)
}

func (h *Handler) optionalYear(w http.ResponseWriter, r *http.Request) (*int, string, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, "all", true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid year")
		return nil, "", false
	}
	return &year, raw, true
}

func (h *Handler) companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid company id")
		return 0, false
	}
	return id, true
}
